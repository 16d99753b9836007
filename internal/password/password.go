// Package password hashes and verifies user passwords. New hashes use the
// configured algorithm; verification recognises both encodings so that
// switching algorithms never locks existing users out.
package password

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

var ErrUnknownHashFormat = errors.New("unknown password hash format")

type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) (bool, error)
}

type argon2idHasher struct {
	params *argon2id.Params
}

// NewArgon2id uses argon2id.DefaultParams when params is nil.
func NewArgon2id(params *argon2id.Params) Hasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return argon2idHasher{params: params}
}

func (h argon2idHasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (argon2idHasher) Compare(password, hash string) (bool, error) {
	return compare(password, hash)
}

type bcryptHasher struct {
	cost int
}

func NewBcrypt(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcryptHasher{cost: cost}
}

func (h bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (bcryptHasher) Compare(password, hash string) (bool, error) {
	return compare(password, hash)
}

func compare(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return argon2id.ComparePasswordAndHash(password, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, ErrUnknownHashFormat
	}
}
