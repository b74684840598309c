package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"preschool/internal/apperr"
)

// Manager opens, resolves and closes server-side sessions.
type Manager struct {
	store  SessionStore
	key    string
	issuer string
	ttl    time.Duration
}

// NewManager creates a session manager.
func NewManager(store SessionStore, signingKey, issuer string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{store: store, key: signingKey, issuer: issuer, ttl: ttl}
}

// Start opens a session for an authenticated actor and returns its token.
func (m *Manager) Start(ctx context.Context, actor Actor) (Token, error) {
	if !actor.Authenticated() {
		return Token{}, apperr.ErrUnauthenticated
	}
	id := uuid.NewString()
	tok, err := Issue(id, fmt.Sprint(actor.UserID), m.issuer, m.key, m.ttl)
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}
	sess := Session{ID: id, Actor: actor, ExpiresAt: tok.ExpiresAt}
	if err := m.store.Save(ctx, sess); err != nil {
		return Token{}, fmt.Errorf("save session: %w", err)
	}
	return tok, nil
}

// Resolve returns the actor behind a token, as recorded server-side.
func (m *Manager) Resolve(ctx context.Context, token string) (Actor, string, error) {
	claims, err := Parse(token, m.key, m.issuer)
	if err != nil {
		return Anonymous, "", fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}
	sess, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Anonymous, "", apperr.ErrUnauthenticated
		}
		return Anonymous, "", err
	}
	return sess.Actor, sess.ID, nil
}

// End closes one session.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// Revoke closes every session of a user.
func (m *Manager) Revoke(ctx context.Context, userID int64) error {
	return m.store.DeleteForUser(ctx, userID)
}
