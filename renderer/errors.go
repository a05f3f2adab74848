package renderer

import "errors"

var (
	ErrNoDisplay     = errors.New("renderer: no display available")
	ErrClosed        = errors.New("renderer: host is closed")
	ErrUnknownHost   = errors.New("renderer: unknown host type")
	ErrInvalidWindow = errors.New("renderer: invalid window dimensions")
)
