package identity

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// authAPI is the slice of the Firebase Admin auth client the gateway needs.
// *auth.Client satisfies it; tests substitute a fake.
type authAPI interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	CustomToken(ctx context.Context, uid string) (string, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseGateway implements Gateway on Firebase Auth. When a password
// verifier is configured, Login verifies credentials through it before
// minting a token; otherwise it only looks the account up by email.
type FirebaseGateway struct {
	auth     authAPI
	verifier PasswordVerifier
}

// NewFirebaseGateway constructs the gateway. verifier may be nil.
func NewFirebaseGateway(client *auth.Client, verifier PasswordVerifier) *FirebaseGateway {
	return &FirebaseGateway{auth: client, verifier: verifier}
}

// Register creates the user at the provider and mints a custom token.
func (g *FirebaseGateway) Register(ctx context.Context, email, password string) (Credentials, error) {
	if email == "" || password == "" {
		return Credentials{}, ErrMissingFields
	}

	user, err := g.auth.CreateUser(ctx, (&auth.UserToCreate{}).Email(email).Password(password))
	if err != nil {
		return Credentials{}, err
	}

	token, err := g.auth.CustomToken(ctx, user.UID)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{UID: user.UID, Token: token}, nil
}

// Login resolves the account and mints a custom token. With a verifier the
// password is checked against the provider first; without one the account is
// only looked up by email.
func (g *FirebaseGateway) Login(ctx context.Context, email, password string) (Credentials, error) {
	if email == "" || password == "" {
		return Credentials{}, ErrMissingFields
	}

	var uid string
	if g.verifier != nil {
		verified, err := g.verifier.VerifyPassword(ctx, email, password)
		if err != nil {
			return Credentials{}, err
		}
		uid = verified
	} else {
		user, err := g.auth.GetUserByEmail(ctx, email)
		if err != nil {
			return Credentials{}, err
		}
		uid = user.UID
	}

	token, err := g.auth.CustomToken(ctx, uid)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{UID: uid, Token: token}, nil
}

// UpdateProfile sets the display name on the provider record.
func (g *FirebaseGateway) UpdateProfile(ctx context.Context, uid, displayName string) error {
	if uid == "" || displayName == "" {
		return ErrMissingFields
	}
	_, err := g.auth.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).DisplayName(displayName))
	return err
}

// DeleteAccount removes the provider record.
func (g *FirebaseGateway) DeleteAccount(ctx context.Context, uid string) error {
	if uid == "" {
		return ErrMissingFields
	}
	return g.auth.DeleteUser(ctx, uid)
}

// VerifyToken validates an ID token and returns the authenticated uid.
func (g *FirebaseGateway) VerifyToken(ctx context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", ErrInvalidCredentials
	}
	token, err := g.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}
