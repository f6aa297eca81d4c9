package cryptox

import "golang.org/x/crypto/bcrypt"

// DefaultPasswordCost is the bcrypt work factor used unless configured
// otherwise. Cost 10 keeps an interactive login in the tens of milliseconds
// while staying expensive for offline brute force.
const DefaultPasswordCost = 10

// HashPassword produces a salted one-way bcrypt hash of the password.
// A cost outside bcrypt's supported range falls back to DefaultPasswordCost.
func HashPassword(password []byte, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	hash, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
// Malformed hashes yield false, never an error or a panic.
func CheckPassword(password []byte, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}
