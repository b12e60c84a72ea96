package users

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Issuer defines what the app layer needs from the session issuer
type Issuer interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Register(ctx context.Context, creds Credentials) (*Session, error)
	Me(ctx context.Context, token string) (*Identity, error)
}

// App holds the current session and talks to the issuer
type App struct {
	issuer Issuer

	mu      sync.RWMutex
	session *Session
}

// NewApp creates a new users App
func NewApp(issuer Issuer) *App {
	return &App{
		issuer: issuer,
	}
}

// Login authenticates and stores the session.
func (a *App) Login(ctx context.Context, username, password string) (*Session, error) {
	creds := Credentials{Username: strings.TrimSpace(username), Password: password}
	if err := a.validateCredentials(creds); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	session, err := a.issuer.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	a.setSession(session)
	log.Info().Str("user_id", session.Identity.ID).Msg("logged in")
	return session, nil
}

// Register creates an account and stores the session.
func (a *App) Register(ctx context.Context, username, password string) (*Session, error) {
	creds := Credentials{Username: strings.TrimSpace(username), Password: password}
	if err := a.validateCredentials(creds); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	session, err := a.issuer.Register(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	a.setSession(session)
	log.Info().Str("user_id", session.Identity.ID).Msg("registered")
	return session, nil
}

// Resume restores a session from a stored token by asking the issuer who it
// belongs to.
func (a *App) Resume(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}

	identity, err := a.issuer.Me(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}

	session := &Session{Token: token, Identity: *identity}
	a.setSession(session)
	return session, nil
}

// Current returns the active session, or nil after logout.
func (a *App) Current() *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// Logout forgets the session.
func (a *App) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		log.Info().Str("user_id", a.session.Identity.ID).Msg("logged out")
	}
	a.session = nil
}

func (a *App) setSession(session *Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = session
}

func (a *App) validateCredentials(creds Credentials) error {
	if creds.Username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidCredentials)
	}
	if creds.Password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidCredentials)
	}
	return nil
}
