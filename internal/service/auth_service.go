package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// AuthService issues the session tokens the users module consumes.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
	jwt    *auth.JWTService
	log    *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(repo repository.UserRepository, hasher auth.PasswordHasher, jwt *auth.JWTService, log *zap.Logger) AuthService {
	return &authService{repo: repo, hasher: hasher, jwt: jwt, log: log}
}

// Register creates a new user with a hashed password and returns a
// signed session token for it.
func (s *authService) Register(ctx context.Context, name, email, password, role string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if role == "" {
		role = model.RoleUser
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error("register: check existence", zap.Error(err))
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error("register: hash password", zap.Error(err))
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		s.log.Error("register: create user", zap.Error(err))
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.log.Error("register: generate token", zap.Error(err))
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and returns a signed session token.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.log.Error("login: generate token", zap.Error(err))
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}
