package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher isolates credential storage so the plaintext placeholder can
// be swapped for a real scheme without touching handlers or the store.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
}

// Plaintext stores passwords exactly as provided. Prototype-only: anyone with
// a memory dump of the process reads every credential.
type Plaintext struct{}

func (Plaintext) Hash(password string) (string, error) { return password, nil }

func (Plaintext) Compare(stored, password string) bool { return stored == password }

// Bcrypt is the production alternative, enabled by AUTH_HASH_PASSWORDS.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b Bcrypt) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
