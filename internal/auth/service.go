package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

const minPasswordLength = 8

// Service implements account registration and login.
type Service struct {
	users  repo.UserRepo
	tokens *TokenService
}

// NewService constructs an auth Service.
func NewService(users repo.UserRepo, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates an account and returns the user plus a signed token.
func (s *Service) Register(ctx context.Context, username, email, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" {
		return domain.User{}, "", fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, "", fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, "", fmt.Errorf("%w: email is already registered", domain.ErrValidation)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, "", fmt.Errorf("auth.Service.Register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("auth.Service.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("auth.Service.Register: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("auth.Service.Register: %w", err)
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user plus a signed token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
		}
		return domain.User{}, "", fmt.Errorf("auth.Service.Login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("auth.Service.Login: %w", err)
	}
	return user, token, nil
}
