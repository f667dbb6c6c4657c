package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials holds the single configured admin identity.
// When PasswordHash is set it is a bcrypt hash and Password is ignored.
type AdminCredentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Configured reports whether a login can ever succeed
func (c AdminCredentials) Configured() bool {
	return c.Username != "" && (c.Password != "" || c.PasswordHash != "")
}

// Verify checks a login attempt. Both fields are always compared so timing does not
// reveal which one was wrong.
func (c AdminCredentials) Verify(username, password string) bool {
	if !c.Configured() {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1

	var passOK bool
	if c.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}

	return userOK && passOK
}

// HashPassword produces a value suitable for ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
