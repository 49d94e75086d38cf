package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	hashBytes  = 64
	iterations = 1000
)

// HashPassword derives a salted pbkdf2-sha512 hash for storage.
func HashPassword(password string) (salt, hash string, err error) {
	rawSalt := make([]byte, saltBytes)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", err
	}

	rawHash := pbkdf2.Key([]byte(password), rawSalt, iterations, hashBytes, sha512.New)

	return hex.EncodeToString(rawSalt), hex.EncodeToString(rawHash), nil
}

// VerifyPassword checks a password against a stored salt and hash.
func VerifyPassword(password, salt, hash string) bool {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil {
		return false
	}

	rawHash := pbkdf2.Key([]byte(password), rawSalt, iterations, hashBytes, sha512.New)

	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(rawHash)), []byte(hash)) == 1
}
