package effect

import "errors"

var (
	ErrAlreadyInitialized = errors.New("effect: already initialized")
	ErrLifecycle          = errors.New("effect: lifecycle misuse")
	ErrInvalidParams      = errors.New("effect: invalid parameters")
	ErrUnknownKind        = errors.New("effect: unknown kind")
)
