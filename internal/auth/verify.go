// Package auth covers credential verification and the signed session
// cookie: who a request belongs to, and nothing else.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/amiseo/cockpit/internal/models"
)

// ErrInvalidCredentials covers unknown usernames and wrong passwords
// alike; callers must not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserSource is the slice of the user store the verifier needs.
type UserSource interface {
	ByUsername(username string) (models.UserRecord, error)
}

type Verifier struct {
	users UserSource
}

func NewVerifier(users UserSource) *Verifier {
	return &Verifier{users: users}
}

// Verify checks a username/password pair and returns the matching user.
// Stored passwords are bcrypt hashes; values without a bcrypt prefix
// are treated as legacy plaintext from hand-seeded files and compared
// in constant time.
func (v *Verifier) Verify(username, password string) (models.UserRecord, error) {
	user, err := v.users.ByUsername(strings.TrimSpace(username))
	if err != nil {
		return models.UserRecord{}, ErrInvalidCredentials
	}
	if !passwordMatches(user.Password, password) {
		return models.UserRecord{}, ErrInvalidCredentials
	}
	return user, nil
}

func passwordMatches(stored, candidate string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// HashPassword produces the bcrypt hash stored in users.json.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
