package session

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/backlog/internal/domain"
)

type fakeAuth struct {
	token string
	err   error
	calls []domain.AuthMode
}

func (f *fakeAuth) Authenticate(ctx context.Context, mode domain.AuthMode, creds domain.Credentials) (string, error) {
	f.calls = append(f.calls, mode)
	return f.token, f.err
}

type memoryTokens struct{ token string }

func (m *memoryTokens) LoadToken() string            { return m.token }
func (m *memoryTokens) SaveToken(token string) error { m.token = token; return nil }
func (m *memoryTokens) ClearToken() error            { m.token = ""; return nil }

type fakeCache struct{ invalidated int }

func (f *fakeCache) InvalidateCache() { f.invalidated++ }

func TestGateStartsWithPersistedToken(t *testing.T) {
	g := NewGate(&fakeAuth{}, &memoryTokens{token: "saved"}, nil, nil)

	if tok, ok := g.Token(); !ok || tok != "saved" {
		t.Errorf("Expected persisted token, got %q %v", tok, ok)
	}
}

func TestLoginStoresToken(t *testing.T) {
	auth := &fakeAuth{token: "fresh"}
	tokens := &memoryTokens{}
	g := NewGate(auth, tokens, nil, nil)

	if g.SignedIn() {
		t.Fatal("Expected signed out")
	}
	if err := g.Register(context.Background(), domain.Credentials{Username: " ana ", Password: "pw"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if tok, _ := g.Token(); tok != "fresh" || tokens.token != "fresh" {
		t.Errorf("Expected token stored, got gate=%q store=%q", tok, tokens.token)
	}
	if len(auth.calls) != 1 || auth.calls[0] != domain.AuthRegister {
		t.Errorf("Expected one register call, got %v", auth.calls)
	}
}

func TestBlankFieldsNeverReachServer(t *testing.T) {
	auth := &fakeAuth{token: "x"}
	g := NewGate(auth, nil, nil, nil)

	err := g.Login(context.Background(), domain.Credentials{Username: "ana", Password: "  "})
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("Expected ErrMissingCredentials, got %v", err)
	}
	if len(auth.calls) != 0 {
		t.Error("Expected no authentication call")
	}
	if Describe(err) != MissingFieldsText {
		t.Errorf("Unexpected text %q", Describe(err))
	}
}

func TestFailedLoginKeepsSignedOut(t *testing.T) {
	g := NewGate(&fakeAuth{err: domain.ErrInvalidCredentials}, nil, nil, nil)

	err := g.Login(context.Background(), domain.Credentials{Username: "ana", Password: "bad"})
	if Describe(err) != InvalidCredentialsText {
		t.Errorf("Expected %q, got %q", InvalidCredentialsText, Describe(err))
	}
	if g.SignedIn() {
		t.Error("Expected still signed out")
	}
	if Describe(domain.ErrServerOffline) != ConnectionErrorText {
		t.Error("Expected connection text for offline server")
	}
}

func TestLogoutClearsTokenAndCache(t *testing.T) {
	tokens := &memoryTokens{token: "saved"}
	cache := &fakeCache{}
	g := NewGate(&fakeAuth{}, tokens, cache, nil)

	if err := g.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if g.SignedIn() || tokens.token != "" {
		t.Error("Expected token cleared everywhere")
	}
	if cache.invalidated != 1 {
		t.Errorf("Expected cache invalidated once, got %d", cache.invalidated)
	}
}
