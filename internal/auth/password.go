package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the default cost for bcrypt hashing.
	DefaultBcryptCost = 12
)

// ErrInvalidHashFormat is returned when a stored hash is not a bcrypt hash.
var ErrInvalidHashFormat = errors.New("invalid hash format")

// PasswordHasher provides password hashing and verification functionality.
// Hashes are self-describing ($2a$<cost>$<salt><digest>), so Verify needs no parameters.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a new PasswordHasher with default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		cost: DefaultBcryptCost,
	}
}

// NewPasswordHasherWithCost creates a PasswordHasher with the given bcrypt cost.
func NewPasswordHasherWithCost(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// Hash generates a salted bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Verify checks if the provided password matches the hash in constant time.
// A hash that cannot be parsed yields ErrInvalidHashFormat.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidHashFormat, err)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHashFormat, err)
	}
}
