// Package auth handles the OAuth2 token lifecycle: cached token reuse,
// refresh, interactive consent and persistence.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/oauth2"
)

// ErrCredentials marks failures of the credential acquisition sequence
// after the single delete-and-retry attempt was exhausted.
var ErrCredentials = errors.New("credentials unavailable")

// Flow runs an interactive OAuth2 consent exchange and returns the
// resulting token.
type Flow interface {
	Authorize(ctx context.Context) (*oauth2.Token, error)
}

// Manager acquires OAuth2 tokens: a valid stored token is returned
// unchanged, an expired one with a refresh token is refreshed, anything
// else triggers the consent flow. Every successful acquisition is
// persisted to the store.
type Manager struct {
	mu    sync.Mutex
	cfg   *oauth2.Config
	store Store
	flow  Flow

	// refresh is swappable in tests to avoid hitting the token endpoint.
	refresh func(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error)
}

// NewManager creates a credential manager over the given store and
// consent flow.
func NewManager(cfg *oauth2.Config, store Store, flow Flow) *Manager {
	m := &Manager{
		cfg:   cfg,
		store: store,
		flow:  flow,
	}
	m.refresh = func(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
		return cfg.TokenSource(ctx, tok).Token()
	}

	return m
}

// Credentials returns a usable OAuth2 token. When retry is true, any
// failure deletes the stored token and the whole sequence runs once more
// with retry=false; the second failure is surfaced wrapped in
// ErrCredentials.
func (m *Manager) Credentials(ctx context.Context, retry bool) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.credentials(ctx, retry)
}

func (m *Manager) credentials(ctx context.Context, retry bool) (*oauth2.Token, error) {
	tok, err := m.acquire(ctx)
	if err == nil {
		return tok, nil
	}

	if retry {
		log.Println("Credential acquisition failed, deleting stored token and retrying:", err)
		if delErr := m.store.Delete(); delErr != nil {
			log.Println(fmt.Errorf("store.Delete failed: %w", delErr))
		}

		return m.credentials(ctx, false)
	}

	return nil, fmt.Errorf("%w: %w", ErrCredentials, err)
}

func (m *Manager) acquire(ctx context.Context) (*oauth2.Token, error) {
	tok, err := m.store.Load()
	if err != nil && !errors.Is(err, ErrTokenNotSet) {
		return nil, fmt.Errorf("store.Load failed: %w", err)
	}

	if tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		tok, err = m.refresh(ctx, tok)
		if err != nil {
			return nil, fmt.Errorf("token refresh failed: %w", err)
		}
	} else {
		tok, err = m.flow.Authorize(ctx)
		if err != nil {
			return nil, fmt.Errorf("flow.Authorize failed: %w", err)
		}
	}

	if err := m.store.Save(tok); err != nil {
		return nil, fmt.Errorf("store.Save failed: %w", err)
	}

	return tok, nil
}

// Token returns the stored token without acquiring or refreshing.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.Load()
}

// Drop removes the stored token so the next acquisition re-runs consent.
func (m *Manager) Drop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.Delete()
}
