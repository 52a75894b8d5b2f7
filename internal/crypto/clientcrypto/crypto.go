// Package clientcrypto contains client-side primitives: message signing identity
// and passphrase-protected key files.
package clientcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Params
const (
	KEKLen  = 32
	SaltLen = 16

	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
)

// ErrBadKeyFile is returned when a key file cannot be opened with the given passphrase.
var ErrBadKeyFile = errors.New("key file corrupted or wrong passphrase")

// Rand returns n cryptographically secure random bytes.
func Rand(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// GenerateIdentity creates a new Ed25519 signing identity.
func GenerateIdentity() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// SignMessage signs message data; the result goes into the message "signature" field.
func SignMessage(priv ed25519.PrivateKey, data []byte) []byte {
	return ed25519.Sign(priv, data)
}

// VerifyMessage checks a signature produced by SignMessage.
func VerifyMessage(pub ed25519.PublicKey, data, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pub, data, sig)
}

// DeriveKEK derives a key-encryption key from passphrase and salt using Argon2id.
func DeriveKEK(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, KEKLen)
}

// SealKey encrypts the private key seed under a passphrase.
// Layout: salt || nonce || XChaCha20-Poly1305(seed).
func SealKey(priv ed25519.PrivateKey, passphrase []byte) ([]byte, error) {
	salt, err := Rand(SaltLen)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(DeriveKEK(passphrase, salt))
	if err != nil {
		return nil, err
	}
	nonce, err := Rand(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	seed := priv.Seed()
	out := make([]byte, 0, len(salt)+len(nonce)+len(seed)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, seed, salt)...)
	return out, nil
}

// OpenKey reverses SealKey.
func OpenKey(sealed, passphrase []byte) (ed25519.PrivateKey, error) {
	if len(sealed) < SaltLen+chacha20poly1305.NonceSizeX {
		return nil, ErrBadKeyFile
	}
	salt := sealed[:SaltLen]
	nonce := sealed[SaltLen : SaltLen+chacha20poly1305.NonceSizeX]
	ct := sealed[SaltLen+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(DeriveKEK(passphrase, salt))
	if err != nil {
		return nil, err
	}
	seed, err := aead.Open(nil, nonce, ct, salt)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, ErrBadKeyFile
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// SaveKey writes a sealed private key to path with owner-only permissions.
func SaveKey(path string, priv ed25519.PrivateKey, passphrase []byte) error {
	sealed, err := SealKey(priv, passphrase)
	if err != nil {
		return err
	}
	return os.WriteFile(path, sealed, 0o600)
}

// LoadKey reads and opens a key written by SaveKey.
func LoadKey(path string, passphrase []byte) (ed25519.PrivateKey, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OpenKey(sealed, passphrase)
}
