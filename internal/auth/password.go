package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a plaintext login secret with the configured cost.
func HashSecret(secret string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareSecret verifies a plaintext secret against its hashed value in
// constant time.
func CompareSecret(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// HashBinding hashes a refresh token for storage as the session binding. A
// signed token runs to a few hundred bytes while bcrypt rejects anything
// over 72, so the token is reduced to a SHA-256 digest first.
func HashBinding(token string, cost int) (string, error) {
	digest := sha256.Sum256([]byte(token))
	hashed, err := bcrypt.GenerateFromPassword(digest[:], cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareBinding verifies a refresh token against its stored binding hash.
func CompareBinding(hashed, token string) error {
	digest := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hashed), digest[:])
}
