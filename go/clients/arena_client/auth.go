package arena_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcdev12/wordarena/go/clients"
	"github.com/mcdev12/wordarena/go/internal/users"
)

type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// AuthResponse is shared by login and register. Payload is the token on
// success and the error message otherwise.
type AuthResponse struct {
	Error   bool   `json:"error"`
	Payload string `json:"payload"`
	User    *User  `json:"user,omitempty"`
}

type MeResponse struct {
	Error   bool   `json:"error"`
	Payload string `json:"payload,omitempty"`
	User    *User  `json:"user,omitempty"`
}

func (c *ArenaClient) Login(ctx context.Context, creds users.Credentials) (*users.Session, error) {
	return c.authenticate(ctx, LoginEndpoint, creds)
}

func (c *ArenaClient) Register(ctx context.Context, creds users.Credentials) (*users.Session, error) {
	return c.authenticate(ctx, RegisterEndpoint, creds)
}

func (c *ArenaClient) Me(ctx context.Context, token string) (*users.Identity, error) {
	body, err := c.Get(ctx, MeEndpoint, map[string]string{AuthorizationHeader: BearerPrefix + token})
	if err != nil {
		return nil, authError(err)
	}

	var response MeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	if response.Error || response.User == nil {
		return nil, fmt.Errorf("%w: %s", users.ErrAuthentication, messageOr(response.Payload, "no user for token"))
	}

	identity := identityFrom(*response.User)
	return &identity, nil
}

func (c *ArenaClient) authenticate(ctx context.Context, endpoint string, creds users.Credentials) (*users.Session, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	body, err := c.Post(ctx, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, authError(err)
	}

	var response AuthResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	if response.Error {
		return nil, fmt.Errorf("%w: %s", users.ErrAuthentication, messageOr(response.Payload, "rejected"))
	}
	if response.Payload == "" || response.User == nil {
		return nil, fmt.Errorf("%w: response without token or user", users.ErrAuthentication)
	}

	return &users.Session{
		Token:    response.Payload,
		Identity: identityFrom(*response.User),
	}, nil
}

// authError turns a non-2xx response into an authentication error carrying
// the server message when the body has one.
func authError(err error) error {
	var statusErr *clients.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	var response AuthResponse
	if json.Unmarshal(statusErr.Body, &response) == nil && response.Payload != "" {
		return fmt.Errorf("%w: %s", users.ErrAuthentication, response.Payload)
	}
	return fmt.Errorf("%w: status %d", users.ErrAuthentication, statusErr.StatusCode)
}

func identityFrom(u User) users.Identity {
	return users.Identity{ID: u.ID, DisplayName: u.Username}
}

func messageOr(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
