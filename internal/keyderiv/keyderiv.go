package keyderiv

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the length of a derived DES key in bytes.
const KeySize = 8

var (
	ErrEmptyPassphrase   = errors.New("passphrase is empty")
	ErrInvalidIterations = errors.New("iteration count must be positive")
)

// DeriveKey stretches a passphrase into an 8-byte DES key with PBKDF2-HMAC-SHA256.
func DeriveKey(passphrase string, salt []byte, iterations int) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}

	return pbkdf2.Key([]byte(passphrase), salt, iterations, KeySize, sha256.New), nil
}

// DeriveIV derives a block-sized IV from the passphrase under an "iv:" salt prefix.
func DeriveIV(passphrase string, salt []byte, iterations int) ([]byte, error) {
	ivSalt := append([]byte("iv:"), salt...)
	return DeriveKey(passphrase, ivSalt, iterations)
}
