package service

import (
	authconstant "github.com/AnthoniusHendriyanto/blog-service/pkg/constant"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt with the process-wide cost factor. Each hash
// carries its own random salt, so hashing the same plaintext twice yields
// different outputs that both verify.
type PasswordHasher struct{}

func NewPasswordHasher() PasswordHasher {
	return PasswordHasher{}
}

func (PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), authconstant.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hashed. Malformed input is never
// an error, just a failed match.
func (PasswordHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
