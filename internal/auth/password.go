// Package auth hashes and verifies passwords.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the salt rounds the board has always used.
const BcryptCost = 10

var ErrUnknownHash = errors.New("auth: unrecognized password hash format")

// Hasher creates new password hashes with one algorithm and verifies hashes
// produced by any supported algorithm, so switching algorithms does not lock
// out existing accounts.
type Hasher struct {
	algorithm string
}

// NewHasher returns a Hasher for "bcrypt" or "argon2id".
func NewHasher(algorithm string) (*Hasher, error) {
	switch algorithm {
	case "bcrypt", "argon2id":
		return &Hasher{algorithm: algorithm}, nil
	default:
		return nil, fmt.Errorf("auth: unsupported hash algorithm %q", algorithm)
	}
}

// BcryptMaxBytes is the longest password bcrypt accepts, in bytes.
const BcryptMaxBytes = 72

// MaxPasswordBytes is the longest password Hash accepts, or 0 for no limit.
func (h *Hasher) MaxPasswordBytes() int {
	if h.algorithm == "bcrypt" {
		return BcryptMaxBytes
	}
	return 0
}

// Hash returns a salted hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	if h.algorithm == "argon2id" {
		hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
		if err != nil {
			return "", fmt.Errorf("auth: argon2id hash failed: %w", err)
		}
		return hash, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("auth: bcrypt hash failed: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A mismatch is not an error.
func (h *Hasher) Verify(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		ok, err := argon2id.ComparePasswordAndHash(password, hash)
		if err != nil {
			return false, fmt.Errorf("auth: argon2id compare failed: %w", err)
		}
		return ok, nil

	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("auth: bcrypt compare failed: %w", err)
		}
		return true, nil
	}

	return false, ErrUnknownHash
}
