package protocol

import "errors"

// ErrMalformedFrame is returned when a socket message is not a valid frame.
var ErrMalformedFrame = errors.New("malformed frame")
