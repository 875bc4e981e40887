package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	createUser     func(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	getUserByEmail func(ctx context.Context, email string) (*auth.UserRecord, error)
	updateUser     func(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	deleteUser     func(ctx context.Context, uid string) error
	customToken    func(ctx context.Context, uid string) (string, error)
	verifyIDToken  func(ctx context.Context, idToken string) (*auth.Token, error)
}

func (f *fakeAuthAPI) CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	return f.createUser(ctx, user)
}

func (f *fakeAuthAPI) GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error) {
	return f.getUserByEmail(ctx, email)
}

func (f *fakeAuthAPI) UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error) {
	return f.updateUser(ctx, uid, user)
}

func (f *fakeAuthAPI) DeleteUser(ctx context.Context, uid string) error {
	return f.deleteUser(ctx, uid)
}

func (f *fakeAuthAPI) CustomToken(ctx context.Context, uid string) (string, error) {
	return f.customToken(ctx, uid)
}

func (f *fakeAuthAPI) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return f.verifyIDToken(ctx, idToken)
}

func userRecord(uid string) *auth.UserRecord {
	return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid}}
}

func TestRegisterMintsToken(t *testing.T) {
	fake := &fakeAuthAPI{
		createUser: func(_ context.Context, _ *auth.UserToCreate) (*auth.UserRecord, error) {
			return userRecord("u1"), nil
		},
		customToken: func(_ context.Context, uid string) (string, error) {
			require.Equal(t, "u1", uid)
			return "tok", nil
		},
	}
	gateway := &FirebaseGateway{auth: fake}

	creds, err := gateway.Register(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, Credentials{UID: "u1", Token: "tok"}, creds)
}

func TestRegisterEmptyFields(t *testing.T) {
	gateway := &FirebaseGateway{auth: &fakeAuthAPI{}}

	_, err := gateway.Register(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = gateway.Register(context.Background(), "a@example.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLoginWithoutVerifierLooksUpByEmail(t *testing.T) {
	fake := &fakeAuthAPI{
		getUserByEmail: func(_ context.Context, email string) (*auth.UserRecord, error) {
			require.Equal(t, "a@example.com", email)
			return userRecord("u1"), nil
		},
		customToken: func(_ context.Context, uid string) (string, error) {
			return "tok", nil
		},
	}
	gateway := &FirebaseGateway{auth: fake}

	creds, err := gateway.Login(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", creds.UID)
}

type passwordVerifierFunc func(ctx context.Context, email, password string) (string, error)

func (f passwordVerifierFunc) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	return f(ctx, email, password)
}

func TestLoginWithVerifierChecksPassword(t *testing.T) {
	looked := false
	fake := &fakeAuthAPI{
		getUserByEmail: func(_ context.Context, _ string) (*auth.UserRecord, error) {
			looked = true
			return userRecord("u1"), nil
		},
		customToken: func(_ context.Context, uid string) (string, error) {
			require.Equal(t, "u1", uid)
			return "tok", nil
		},
	}
	verifier := passwordVerifierFunc(func(_ context.Context, email, password string) (string, error) {
		require.Equal(t, "a@example.com", email)
		require.Equal(t, "secret", password)
		return "u1", nil
	})
	gateway := &FirebaseGateway{auth: fake, verifier: verifier}

	creds, err := gateway.Login(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", creds.UID)
	assert.False(t, looked, "verifier path must not fall back to email lookup")
}

func TestLoginVerifierRejection(t *testing.T) {
	verifier := passwordVerifierFunc(func(_ context.Context, _, _ string) (string, error) {
		return "", ErrInvalidCredentials
	})
	gateway := &FirebaseGateway{auth: &fakeAuthAPI{}, verifier: verifier}

	_, err := gateway.Login(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfileEmptyFields(t *testing.T) {
	gateway := &FirebaseGateway{auth: &fakeAuthAPI{}}
	assert.ErrorIs(t, gateway.UpdateProfile(context.Background(), "", "Alice"), ErrMissingFields)
	assert.ErrorIs(t, gateway.UpdateProfile(context.Background(), "u1", ""), ErrMissingFields)
}

func TestDeleteAccount(t *testing.T) {
	deleted := ""
	fake := &fakeAuthAPI{
		deleteUser: func(_ context.Context, uid string) error {
			deleted = uid
			return nil
		},
	}
	gateway := &FirebaseGateway{auth: fake}

	require.NoError(t, gateway.DeleteAccount(context.Background(), "u1"))
	assert.Equal(t, "u1", deleted)

	assert.ErrorIs(t, gateway.DeleteAccount(context.Background(), ""), ErrMissingFields)
}

func TestVerifyToken(t *testing.T) {
	fake := &fakeAuthAPI{
		verifyIDToken: func(_ context.Context, idToken string) (*auth.Token, error) {
			require.Equal(t, "id-token", idToken)
			return &auth.Token{UID: "u1"}, nil
		},
	}
	gateway := &FirebaseGateway{auth: fake}

	uid, err := gateway.VerifyToken(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	_, err = gateway.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRESTVerifierAcceptsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "k123", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"localId":"u1","idToken":"x"}`))
	}))
	defer srv.Close()

	v := NewRESTVerifier("k123")
	v.endpoint = srv.URL

	uid, err := v.VerifyPassword(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestRESTVerifierRejectsBadPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"INVALID_PASSWORD"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	v := NewRESTVerifier("k123")
	v.endpoint = srv.URL

	_, err := v.VerifyPassword(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
