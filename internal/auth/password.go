package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt
type Hasher struct {
	cost int
	// dummy is compared against when no roster entry matches the
	// identifier, so a miss costs the same as a wrong password.
	dummy []byte
}

// NewHasher creates a hasher with the given bcrypt cost
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Hash returns the bcrypt hash of password
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches stored. needsRehash is set when
// stored was a plain-text value from an older table that should be
// replaced with a hash.
func (h *Hasher) Verify(stored, password string) (ok bool, needsRehash bool) {
	if stored == "" {
		return false, false
	}
	if !IsHash(stored) {
		// Cost the same as a bcrypt row so legacy rows are not distinguishable
		h.Burn(password)
		match := subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
		return match, match
	}

	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	if err != nil {
		return false, false
	}
	return true, false
}

// Burn spends one hash comparison without a stored value
func (h *Hasher) Burn(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}

// IsHash reports whether s looks like a bcrypt hash
func IsHash(s string) bool {
	if !strings.HasPrefix(s, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
