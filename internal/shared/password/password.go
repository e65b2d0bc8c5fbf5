// Package password wraps bcrypt for the directory's stored hashes.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrComparison means the stored hash could not be compared at all, as opposed to a plain mismatch.
var ErrComparison = errors.New("password comparison failed")

// Hash hashes plaintext using bcrypt with the given cost, or bcrypt.DefaultCost when cost is 0.
func Hash(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares plaintext to a bcrypt hash. A mismatch returns (false, nil);
// a malformed hash or any other bcrypt failure returns an error wrapping ErrComparison.
func Verify(hash, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrComparison, err)
	}
}
