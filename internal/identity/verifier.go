package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// PasswordVerifier checks a password against the identity provider.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, email, password string) (string, error)
}

// RESTVerifier verifies credentials through the Identity Toolkit sign-in
// endpoint, the same exchange the provider's client SDK performs.
type RESTVerifier struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewRESTVerifier constructs a verifier using the project's web API key.
func NewRESTVerifier(apiKey string) *RESTVerifier {
	return &RESTVerifier{
		apiKey:     apiKey,
		endpoint:   signInEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyPassword returns the uid of the account when the credentials are
// accepted and ErrInvalidCredentials when the provider rejects them.
func (v *RESTVerifier) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.endpoint+"?key="+url.QueryEscape(v.apiKey), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrInvalidCredentials
	}

	var result struct {
		LocalID string `json:"localId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.LocalID == "" {
		return "", ErrInvalidCredentials
	}
	return result.LocalID, nil
}
