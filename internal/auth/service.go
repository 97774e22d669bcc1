package auth

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/core"
	"github.com/openmeet/salas/internal/domain"
)

// Service registers accounts and exchanges credentials for session tokens.
// Input shape validation happens at the HTTP layer; the service enforces
// uniqueness and credential checks.
type Service struct {
	users  core.UserStore
	tokens *TokenService
}

func NewService(users core.UserStore, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := domain.NewUser(name, email, hash)
	if err := s.users.InsertUser(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("module", "auth").Str("user", string(user.ID)).Msg("user registered")
	return user, nil
}

// Login verifies the credentials and returns a signed session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	log.Info().Str("module", "auth").Str("user", string(user.ID)).Msg("user logged in")
	return token, nil
}
