package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atunesdelpacifico/storefront/pkg/localstore"
)

// ErrIncompleteCredentials indicates the backend's login response was
// missing the identity, role, or token.
var ErrIncompleteCredentials = errors.New("backend returned incomplete credentials")

// Credentials is what the backend hands back on a successful login.
type Credentials struct {
	Identity string
	Email    string
	Role     string
	Token    string
}

// Authenticator is the backend collaborator credentials are verified
// against.
type Authenticator interface {
	Login(ctx context.Context, identity, secret string) (Credentials, error)
}

// Gate owns the current session: it restores it from the store at startup,
// creates it on login, and destroys it on logout.
type Gate struct {
	mu    sync.Mutex
	store localstore.Store
	auth  Authenticator
	log   *slog.Logger

	current *Session
}

// NewGate creates a gate with no session.
func NewGate(store localstore.Store, auth Authenticator, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{
		store: store,
		auth:  auth,
		log:   log,
	}
}

// Restore reads the stored session entry and adopts it if it is intact: a
// non-empty identity, a role from the closed set, and a usable token. A
// malformed or half-populated entry is removed entirely rather than
// partially trusted. Restore never fails to the caller; bad stored data
// self-heals to "no session".
func (g *Gate) Restore(ctx context.Context) *Session {
	g.mu.Lock()
	defer g.mu.Unlock()

	raw, ok, err := g.store.Get(ctx, localstore.SessionKey)
	if err != nil {
		g.log.Warn("session store unavailable during restore", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var stored Session
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		g.discardStoredLocked(ctx, "malformed entry")
		return nil
	}
	if stored.Identity == "" {
		g.discardStoredLocked(ctx, "missing identity")
		return nil
	}
	if _, ok := ParseRole(string(stored.Role)); !ok {
		g.discardStoredLocked(ctx, "unresolvable role")
		return nil
	}
	if !tokenUsable(stored.Token) {
		g.discardStoredLocked(ctx, "unusable token")
		return nil
	}

	g.current = &stored
	copied := stored
	return &copied
}

// Login verifies credentials against the backend, constructs the session,
// and persists it. Backend failures pass through untouched so the caller
// can distinguish bad credentials from a server that is down or
// unreachable.
func (g *Gate) Login(ctx context.Context, identity, secret string) (*Session, error) {
	creds, err := g.auth.Login(ctx, identity, secret)
	if err != nil {
		return nil, err
	}

	role, ok := NormalizeRole(creds.Role)
	if !ok || creds.Identity == "" || creds.Token == "" {
		return nil, ErrIncompleteCredentials
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	sess := &Session{
		Identity: creds.Identity,
		Role:     role,
		Token:    creds.Token,
	}
	g.current = sess

	raw, err := json.Marshal(sess)
	if err == nil {
		err = g.store.Set(ctx, localstore.SessionKey, string(raw))
	}
	if err != nil {
		// The in-memory session stands; the entry just won't survive a
		// restart.
		g.log.Warn("session persist failed", "identity", sess.Identity, "error", err)
	}

	copied := *sess
	return &copied, nil
}

// Logout clears the stored session entry and the in-memory session. The
// identity's persisted cart is left intact.
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current = nil
	return g.store.Remove(ctx, localstore.SessionKey)
}

// Current returns a copy of the active session, or nil when logged out.
func (g *Gate) Current() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		return nil
	}
	copied := *g.current
	return &copied
}

func (g *Gate) discardStoredLocked(ctx context.Context, reason string) {
	g.log.Warn("discarding invalid stored session", "reason", reason)
	if err := g.store.Remove(ctx, localstore.SessionKey); err != nil {
		g.log.Warn("removing invalid stored session failed", "error", err)
	}
}

// tokenUsable rejects a stored token only when it is empty or provably
// stale: a token that parses as a JWT with an expiry in the past. Tokens
// that are not JWTs stay opaque and are accepted; verification is the
// backend's job.
func tokenUsable(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}
