package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

const sessionTokenBytes = 32

// SessionTokens is the opaque-token strategy. Expiry is checked lazily on Validate.
type SessionTokens struct {
	mu     sync.Mutex
	active map[string]time.Time
	now    Clock
}

func NewSessionTokens(clock Clock) *SessionTokens {
	return &SessionTokens{
		active: make(map[string]time.Time),
		now:    clockOrNow(clock),
	}
}

func (s *SessionTokens) Issue() (Token, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return Token{}, err
	}

	now := s.now()
	token := Token{
		Value:     base64.RawURLEncoding.EncodeToString(buf),
		ExpiresAt: now.Add(TokenTTL),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.active[token.Value] = token.ExpiresAt
	return token, nil
}

func (s *SessionTokens) Validate(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.active[token]
	if !ok {
		return false
	}
	if !s.now().Before(expiresAt) {
		delete(s.active, token)
		return false
	}
	return true
}

func (s *SessionTokens) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, token)
}

// heldCount returns the number of tokens currently held, expired or not
func (s *SessionTokens) heldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func (s *SessionTokens) pruneLocked(now time.Time) {
	for value, expiresAt := range s.active {
		if !now.Before(expiresAt) {
			delete(s.active, value)
		}
	}
}
