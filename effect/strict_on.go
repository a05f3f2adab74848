//go:build fxdebug

package effect

// Lifecycle misuse panics in fxdebug builds.
const strictLifecycle = true
