package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/hrpanel/internal/cache"
)

// Session is a signed-in employee. The ID is the cookie value.
type Session struct {
	ID        string    `json:"id"`
	Employee  Employee  `json:"employee"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) MarshalBinary() ([]byte, error) { return json.Marshal(s) }

func (s *Session) UnmarshalBinary(b []byte) error {
	type plain Session
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	*s = Session(p)
	return nil
}

// SessionStore keeps sessions in a cache with a fixed lifetime.
type SessionStore struct {
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionStore(c cache.Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: c, ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime.
func (s *SessionStore) TTL() time.Duration { return s.ttl }

func sessionKey(id string) string { return "session:" + id }

// Create starts a session for e.
func (s *SessionStore) Create(ctx context.Context, e Employee) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		Employee:  e,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.cache.Set(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Get returns the live session with id, or an *AuthError wrapping
// ErrSessionExpired.
func (s *SessionStore) Get(ctx context.Context, id string) (Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, newAuthError(ErrSessionExpired)
	}

	var sess Session
	err := s.cache.Get(ctx, sessionKey(id), &sess)
	if errors.Is(err, cache.ErrNotFound) {
		return Session{}, newAuthError(ErrSessionExpired)
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !s.now().Before(sess.ExpiresAt) {
		_ = s.cache.Delete(ctx, sessionKey(id))
		return Session{}, newAuthError(ErrSessionExpired)
	}
	return sess, nil
}

// Delete ends a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.cache.Delete(ctx, sessionKey(id))
}
