// Package identity wraps the external identity provider: account
// creation, credential authentication, and access-token verification.
// The rest of the system only sees the Provider interface.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrAlreadyRegistered is returned when the email is already taken.
	ErrAlreadyRegistered = errors.New("identity: account already registered")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")

	// ErrInvalidToken is returned when an access token doesn't verify.
	ErrInvalidToken = errors.New("identity: invalid access token")
)

// Tokens is the result of a successful authentication.
type Tokens struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	UserID      string `json:"user_id"`
	TokenType   string `json:"token_type"`
}

// Provider is the identity-provider collaborator.
type Provider interface {
	// Register creates an account and returns the provider-assigned user id.
	Register(ctx context.Context, email, username, password string) (string, error)

	// Authenticate exchanges credentials for tokens.
	Authenticate(ctx context.Context, email, password string) (*Tokens, error)

	// Verify resolves an access token to the user id it belongs to.
	Verify(ctx context.Context, accessToken string) (string, error)
}
