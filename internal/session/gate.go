// Package session owns the bearer credential used by every authenticated call.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/backlog/internal/domain"
)

// User-facing texts for authentication outcomes
const (
	MissingFieldsText      = "Please fill in all fields."
	InvalidCredentialsText = "Invalid credentials. Please try again."
	ConnectionErrorText    = "Connection error. Check your server."
)

// TokenStore persists the token between runs
type TokenStore interface {
	LoadToken() string
	SaveToken(token string) error
	ClearToken() error
}

// CacheInvalidator drops locally cached user data on logout
type CacheInvalidator interface {
	InvalidateCache()
}

// Gate supplies and invalidates the bearer token. It implements
// domain.TokenSource and is safe to read from command goroutines.
type Gate struct {
	auth   domain.Authenticator
	store  TokenStore
	cache  CacheInvalidator
	logger *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewGate creates a gate primed with the persisted token, if any.
// store and cache may be nil.
func NewGate(auth domain.Authenticator, store TokenStore, cache CacheInvalidator, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{auth: auth, store: store, cache: cache, logger: logger}
	if store != nil {
		g.token = store.LoadToken()
	}
	return g
}

// Token returns the current bearer token
func (g *Gate) Token() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token, g.token != ""
}

// SignedIn reports whether a token is present
func (g *Gate) SignedIn() bool {
	_, ok := g.Token()
	return ok
}

// Login authenticates an existing account
func (g *Gate) Login(ctx context.Context, creds domain.Credentials) error {
	return g.Authenticate(ctx, domain.AuthLogin, creds)
}

// Register creates an account and signs in with it
func (g *Gate) Register(ctx context.Context, creds domain.Credentials) error {
	return g.Authenticate(ctx, domain.AuthRegister, creds)
}

// Authenticate validates the fields, exchanges them for a token and
// persists it. Blank fields fail with domain.ErrMissingCredentials
// without contacting the server.
func (g *Gate) Authenticate(ctx context.Context, mode domain.AuthMode, creds domain.Credentials) error {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || strings.TrimSpace(creds.Password) == "" {
		return domain.ErrMissingCredentials
	}

	token, err := g.auth.Authenticate(ctx, mode, creds)
	if err != nil {
		g.logger.Warn("authentication failed", "mode", mode, "username", creds.Username, "error", err)
		return err
	}

	g.mu.Lock()
	g.token = token
	g.mu.Unlock()

	if g.store != nil {
		if err := g.store.SaveToken(token); err != nil {
			g.logger.Error("failed to persist token", "error", err)
		}
	}
	g.logger.Info("signed in", "mode", mode, "username", creds.Username)
	return nil
}

// Logout forgets the token and the cached snapshot
func (g *Gate) Logout() error {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()

	if g.cache != nil {
		g.cache.InvalidateCache()
	}
	if g.store != nil {
		if err := g.store.ClearToken(); err != nil {
			return err
		}
	}
	g.logger.Info("signed out")
	return nil
}

// Describe maps an authentication error to the text shown to the user
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrMissingCredentials):
		return MissingFieldsText
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrAuthFailed):
		return InvalidCredentialsText
	default:
		return ConnectionErrorText
	}
}
