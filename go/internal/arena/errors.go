package arena

import "errors"

var (
	// ErrNotAuthenticated is returned for intents submitted without a session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUnknownIntent is returned for intent types the runtime does not know.
	ErrUnknownIntent = errors.New("unknown intent")
	// ErrStopped is returned once the session loop has exited.
	ErrStopped = errors.New("session loop stopped")
)
