package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/cache"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
	"userhub/internal/validation"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes the user-management domain operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, upd *validation.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	hasher auth.PasswordHasher
	log    *zap.Logger
}

// NewUserService builds a UserService with repository, cache and hasher.
func NewUserService(repo repository.UserRepository, cache *cache.Client, hasher auth.PasswordHasher, log *zap.Logger) UserService {
	return &userService{repo: repo, cache: cache, hasher: hasher, log: log}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.log.Error("get user", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// UpdateUser merges the validated partial update into the stored row.
// A present password is replaced by its digest before persisting, and
// UpdatedAt is refreshed on every successful mutation.
func (s *userService) UpdateUser(ctx context.Context, id uint, upd *validation.UserUpdate) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.log.Error("update user: lookup", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.Password != nil {
		hash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			s.log.Error("update user: hash password", zap.Uint("id", id), zap.Error(err))
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, user); err != nil {
		s.log.Error("update user: persist", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.log.Error("delete user", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}
