package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atunesdelpacifico/storefront/pkg/localstore"
)

// fakeAuth returns canned credentials or a canned error.
type fakeAuth struct {
	creds Credentials
	err   error
	calls int
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (Credentials, error) {
	f.calls++
	if f.err != nil {
		return Credentials{}, f.err
	}
	return f.creds, nil
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "maria"}
	if !expiresAt.IsZero() {
		claims["exp"] = expiresAt.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func storeSession(t *testing.T, store localstore.Store, s Session) {
	t.Helper()
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), localstore.SessionKey, string(raw)))
}

func TestRestoreNothingStored(t *testing.T) {
	gate := NewGate(localstore.NewMemory(), &fakeAuth{}, nil)
	assert.Nil(t, gate.Restore(context.Background()))
}

func TestRestoreIntactSession(t *testing.T) {
	store := localstore.NewMemory()
	token := signedToken(t, time.Now().Add(time.Hour))
	storeSession(t, store, Session{Identity: "maria", Role: RoleCustomer, Token: token})

	gate := NewGate(store, &fakeAuth{}, nil)
	sess := gate.Restore(context.Background())

	require.NotNil(t, sess)
	assert.Equal(t, "maria", sess.Identity)
	assert.Equal(t, RoleCustomer, sess.Role)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, "maria", gate.Current().Identity)
}

func TestRestoreMissingRoleClearsEntry(t *testing.T) {
	store := localstore.NewMemory()
	storeSession(t, store, Session{Identity: "maria", Token: signedToken(t, time.Now().Add(time.Hour))})

	gate := NewGate(store, &fakeAuth{}, nil)
	assert.Nil(t, gate.Restore(context.Background()), "half-populated entry must not become a session")

	_, ok, err := store.Get(context.Background(), localstore.SessionKey)
	require.NoError(t, err)
	assert.False(t, ok, "invalid entry must be cleared")
}

func TestRestoreUnknownRoleClearsEntry(t *testing.T) {
	store := localstore.NewMemory()
	storeSession(t, store, Session{Identity: "maria", Role: "SUPERUSER", Token: signedToken(t, time.Now().Add(time.Hour))})

	gate := NewGate(store, &fakeAuth{}, nil)
	assert.Nil(t, gate.Restore(context.Background()))

	_, ok, _ := store.Get(context.Background(), localstore.SessionKey)
	assert.False(t, ok)
}

func TestRestoreMalformedEntryClearsEntry(t *testing.T) {
	store := localstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), localstore.SessionKey, "{not json"))

	gate := NewGate(store, &fakeAuth{}, nil)
	assert.Nil(t, gate.Restore(context.Background()))

	_, ok, _ := store.Get(context.Background(), localstore.SessionKey)
	assert.False(t, ok)
}

func TestRestoreExpiredTokenClearsEntry(t *testing.T) {
	store := localstore.NewMemory()
	storeSession(t, store, Session{Identity: "maria", Role: RoleCustomer, Token: signedToken(t, time.Now().Add(-time.Hour))})

	gate := NewGate(store, &fakeAuth{}, nil)
	assert.Nil(t, gate.Restore(context.Background()))

	_, ok, _ := store.Get(context.Background(), localstore.SessionKey)
	assert.False(t, ok)
}

func TestRestoreOpaqueNonJWTTokenIsAccepted(t *testing.T) {
	// Tokens the backend issues are opaque; only a provably expired JWT is
	// rejected.
	store := localstore.NewMemory()
	storeSession(t, store, Session{Identity: "maria", Role: RoleCustomer, Token: "opaque-bearer-credential"})

	gate := NewGate(store, &fakeAuth{}, nil)
	sess := gate.Restore(context.Background())

	require.NotNil(t, sess)
	assert.Equal(t, "opaque-bearer-credential", sess.Token)
}

func TestLoginCreatesAndPersistsSession(t *testing.T) {
	store := localstore.NewMemory()
	auth := &fakeAuth{creds: Credentials{
		Identity: "maria",
		Email:    "maria@example.com",
		Role:     "CLIENTE",
		Token:    "tok-1",
	}}

	gate := NewGate(store, auth, nil)
	sess, err := gate.Login(context.Background(), "maria", "secret")
	require.NoError(t, err)

	assert.Equal(t, "maria", sess.Identity)
	assert.Equal(t, RoleCustomer, sess.Role, "role normalizes at the boundary")
	assert.Equal(t, 1, auth.calls)

	raw, ok, err := store.Get(context.Background(), localstore.SessionKey)
	require.NoError(t, err)
	require.True(t, ok)
	var stored Session
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, RoleCustomer, stored.Role)
	assert.Equal(t, "tok-1", stored.Token)
}

func TestLoginPassesBackendErrorsThrough(t *testing.T) {
	wantErr := errors.New("invalid credentials")
	gate := NewGate(localstore.NewMemory(), &fakeAuth{err: wantErr}, nil)

	_, err := gate.Login(context.Background(), "maria", "wrong")
	assert.ErrorIs(t, err, wantErr)
	assert.Nil(t, gate.Current())
}

func TestLoginRejectsIncompleteCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"missing role", Credentials{Identity: "maria", Token: "tok"}},
		{"missing identity", Credentials{Role: "CLIENTE", Token: "tok"}},
		{"missing token", Credentials{Identity: "maria", Role: "CLIENTE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(localstore.NewMemory(), &fakeAuth{creds: tt.creds}, nil)
			_, err := gate.Login(context.Background(), "maria", "secret")
			assert.ErrorIs(t, err, ErrIncompleteCredentials)
			assert.Nil(t, gate.Current())
		})
	}
}

func TestLogoutClearsSessionButNotCart(t *testing.T) {
	store := localstore.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, localstore.CartKey("maria"), `{"items":[]}`))

	auth := &fakeAuth{creds: Credentials{Identity: "maria", Role: "CLIENTE", Token: "tok"}}
	gate := NewGate(store, auth, nil)
	_, err := gate.Login(ctx, "maria", "secret")
	require.NoError(t, err)

	require.NoError(t, gate.Logout(ctx))
	assert.Nil(t, gate.Current())

	_, ok, err := store.Get(ctx, localstore.SessionKey)
	require.NoError(t, err)
	assert.False(t, ok, "session entry cleared")

	_, ok, err = store.Get(ctx, localstore.CartKey("maria"))
	require.NoError(t, err)
	assert.True(t, ok, "cart entry survives logout")
}

func TestCurrentReturnsCopy(t *testing.T) {
	auth := &fakeAuth{creds: Credentials{Identity: "maria", Role: "CLIENTE", Token: "tok"}}
	gate := NewGate(localstore.NewMemory(), auth, nil)
	_, err := gate.Login(context.Background(), "maria", "secret")
	require.NoError(t, err)

	first := gate.Current()
	first.Role = RoleAdministrator

	assert.Equal(t, RoleCustomer, gate.Current().Role, "mutating a returned session must not affect the gate")
}
