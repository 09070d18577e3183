package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthUseCase describes registration, login and profile lookup.
type AuthUseCase interface {
	Register(ctx context.Context, name, email, password string, role Role) (User, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Me(ctx context.Context, userID string) (User, error)
}

type LoginResult struct {
	User  User
	Token string
}

type authService struct {
	repo   UserRepository
	hasher *Hasher
	tokens TokenIssuer
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, hasher *Hasher, tokens TokenIssuer) AuthUseCase {
	return &authService{repo: repo, hasher: hasher, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, name, email, password string, role Role) (User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return User{}, ErrValidation
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	// No pre-check here: the repository's uniqueness guarantee is the
	// authoritative one, a read-then-write would race.
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same error as a wrong password so callers cannot probe
			// which emails are registered.
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{User: user, Token: token}, nil
}

func (s *authService) Me(ctx context.Context, userID string) (User, error) {
	return s.repo.GetByID(ctx, userID)
}
