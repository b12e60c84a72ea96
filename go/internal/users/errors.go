package users

import "errors"

var (
	// ErrAuthentication wraps every session issuer failure.
	ErrAuthentication = errors.New("authentication failed")
	// ErrInvalidCredentials is returned before any request is made.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
