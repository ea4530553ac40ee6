package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const saltChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSalt returns a random per-user salt. The salt is stored next to
// the hash and prepended to the plaintext before hashing.
func GenerateSalt(size int) (string, error) {
	if size <= 0 {
		size = 12
	}
	buf := make([]byte, size)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(saltChars))))
		if err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		buf[i] = saltChars[n.Int64()]
	}
	return string(buf), nil
}

// HashPassword hashes salt+password with bcrypt.
func HashPassword(salt string, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(salt+password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword re-derives salt+password and compares against the hash.
func VerifyPassword(salt string, password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(salt+password)) == nil
}
