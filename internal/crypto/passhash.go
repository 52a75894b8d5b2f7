// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"github.com/and161185/chatcore/internal/model"
)

// Argon2i parameters (tuned for server-side hashing). Changing them invalidates
// every stored credential.
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	// SaltLen is the size of a per-credential salt.
	SaltLen = 32
)

// Hasher salts and hashes passwords and checks candidates against stored credentials.
type Hasher interface {
	// Hash derives a new credential with a fresh salt.
	Hash(password string) (model.Credential, error)
	// Verify reports whether password matches the stored credential.
	Verify(password string, stored model.Credential) bool
}

// Argon2 is the production Hasher.
type Argon2 struct{}

var _ Hasher = Argon2{}

// Hash generates a random salt and returns Argon2i(password, salt).
func (Argon2) Hash(password string) (model.Credential, error) {
	salt, err := RandBytes(SaltLen)
	if err != nil {
		return model.Credential{}, err
	}
	return model.Credential{
		Hash: HashPassword([]byte(password), salt),
		Salt: salt,
	}, nil
}

// Verify recomputes the hash with the stored salt and compares in constant time.
func (Argon2) Verify(password string, stored model.Credential) bool {
	return VerifyPassword([]byte(password), stored.Salt, stored.Hash)
}

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns Argon2i hash of password using the provided salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.Key(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword verifies password against expected Argon2i hash and salt.
func VerifyPassword(password, salt, expected []byte) bool {
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}
