package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Admin is the single operator account allowed to trigger rebuilds.
type Admin struct {
	Username     string
	PasswordHash string
}

// Verify reports whether the credentials match. An admin without a password
// hash never authenticates.
func (a Admin) Verify(username, password string) bool {
	if a.PasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	return CheckPasswordHash(password, a.PasswordHash) && userOK
}
