// Package auth is the credential collaborator: it hashes passwords, issues
// and verifies session tokens, and yields a caller identity for the HTTP
// layer. It carries no room or presence logic.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/openmeet/salas/internal/domain"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domain.ErrAuth
	}
	return nil
}
