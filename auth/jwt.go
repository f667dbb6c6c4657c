package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	adminSubject = "admin"
	tokenIssuer  = "portfolio-backend"

	minSecretLength = 32
)

// SignedTokens is the stateless strategy. Revoke is a no-op: a token remains valid
// until its embedded expiry even after logout.
type SignedTokens struct {
	secret []byte
	now    Clock
}

func NewSignedTokens(secret string, clock Clock) (*SignedTokens, error) {
	if len(secret) < minSecretLength {
		return nil, errors.New("TOKEN_SECRET must be at least 32 characters for the jwt strategy")
	}
	return &SignedTokens{secret: []byte(secret), now: clockOrNow(clock)}, nil
}

func (s *SignedTokens) Issue() (Token, error) {
	now := s.now()
	expiresAt := now.Add(TokenTTL)

	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   adminSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}

	return Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *SignedTokens) Validate(token string) bool {
	if token == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithTimeFunc(s.now),
	)
	return err == nil && parsed.Valid
}

func (s *SignedTokens) Revoke(string) {}
