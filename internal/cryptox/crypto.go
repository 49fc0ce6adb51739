// Package cryptox derives the password hash a client presents at login.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing any of them invalidates every stored hash.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// HashPassword returns the hex-encoded argon2id key of password, salted
// with the SHA-256 of the login so equal passwords of different users hash
// differently. The result is what users.csv stores and what the client
// sends in a login request.
func HashPassword(login string, password []byte) string {
	salt := sha256.Sum256([]byte(login))
	key := argon2.IDKey(password, salt[:], argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

// Wipe zeroes b.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
