package identity

import (
	"context"
	"errors"
)

var (
	// ErrMissingFields signals a required input was empty.
	ErrMissingFields = errors.New("missing fields")
	// ErrInvalidCredentials signals the provider rejected the credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credentials is the result of a successful register or login.
type Credentials struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

// Gateway wraps the external identity provider. All operations are single
// round-trips; no retry or backoff is performed.
type Gateway interface {
	Register(ctx context.Context, email, password string) (Credentials, error)
	Login(ctx context.Context, email, password string) (Credentials, error)
	UpdateProfile(ctx context.Context, uid, displayName string) error
	DeleteAccount(ctx context.Context, uid string) error
	VerifyToken(ctx context.Context, idToken string) (string, error)
}
