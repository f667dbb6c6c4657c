// Package auth issues and checks the bearer credentials that guard the dashboard.
//
// There is a single admin identity and no scopes: a valid token simply means
// "the admin is logged in". Two strategies implement TokenService:
//
//   - SessionTokens keeps opaque random tokens in a process-local set. Logout revokes
//     immediately; every token is lost on restart.
//   - SignedTokens issues HS256 JWTs carrying their own expiry. Nothing is stored, tokens
//     survive restarts, and logout cannot revoke a token before it expires.
package auth

import (
	"fmt"
	"strings"
	"time"
)

// TokenTTL is how long an issued token stays valid
const TokenTTL = 24 * time.Hour

const (
	StrategySession = "session"
	StrategyJWT     = "jwt"
)

// Token is an issued bearer credential
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenService issues, validates and revokes admin tokens.
// Validate never panics; any malformed, unknown or expired token is reported as false.
type TokenService interface {
	Issue() (Token, error)
	Validate(token string) bool
	Revoke(token string)
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// NewTokenService builds the strategy named by strategy
func NewTokenService(strategy, secret string, clock Clock) (TokenService, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategySession:
		return NewSessionTokens(clock), nil
	case StrategyJWT:
		return NewSignedTokens(secret, clock)
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", strategy)
	}
}

// BearerToken extracts the credential from an Authorization header value
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func clockOrNow(clock Clock) Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}
