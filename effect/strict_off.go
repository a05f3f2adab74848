//go:build !fxdebug

package effect

const strictLifecycle = false
