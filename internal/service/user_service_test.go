package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/validation"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestUserService(repo *MockUserRepository) UserService {
	// nil cache is valid: the wrapper degrades to a no-op.
	return NewUserService(repo, nil, auth.NewBcryptHasher(), zap.NewNop())
}

func strptr(s string) *string { return &s }

func TestUserService_ListUsers_EmptyStore(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything).Return([]model.User{}, nil)

	users, err := newTestUserService(mockRepo).ListUsers(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUser(t *testing.T) {
	tests := []struct {
		name          string
		id            uint
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "found",
			id:   3,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(3)).Return(&model.User{ID: 3, Name: "Alice"}, nil)
			},
		},
		{
			name: "not found maps to typed error",
			id:   7,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			user, err := newTestUserService(mockRepo).GetUser(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, user.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	existing := func() *model.User {
		return &model.User{
			ID:           3,
			Name:         "Alice",
			Email:        "alice@example.com",
			PasswordHash: "old-hash",
			Role:         model.RoleUser,
			UpdatedAt:    time.Now().Add(-time.Hour),
		}
	}

	t.Run("merges fields and stamps updated_at", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		before := existing().UpdatedAt
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		upd := &validation.UserUpdate{Name: strptr("Al"), Email: strptr("al@example.com")}
		user, err := newTestUserService(mockRepo).UpdateUser(context.Background(), 3, upd)

		require.NoError(t, err)
		assert.Equal(t, "Al", user.Name)
		assert.Equal(t, "al@example.com", user.Email)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.Equal(t, "old-hash", user.PasswordHash)
		assert.True(t, user.UpdatedAt.After(before))
		mockRepo.AssertExpectations(t)
	})

	t.Run("hashes password before persisting", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		hasher := auth.NewBcryptHasher()
		svc := NewUserService(mockRepo, nil, hasher, zap.NewNop())
		upd := &validation.UserUpdate{Password: strptr("newpassword1")}
		user, err := svc.UpdateUser(context.Background(), 3, upd)

		require.NoError(t, err)
		assert.NotEqual(t, "newpassword1", user.PasswordHash)
		assert.NotEqual(t, "old-hash", user.PasswordHash)
		assert.True(t, hasher.Compare(user.PasswordHash, "newpassword1"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)

		user, err := newTestUserService(mockRepo).UpdateUser(context.Background(), 7, &validation.UserUpdate{Name: strptr("Al")})

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Nil(t, user)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("same update twice yields same fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(existing(), nil).Twice()
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil).Twice()

		svc := newTestUserService(mockRepo)
		upd := &validation.UserUpdate{Name: strptr("Al")}
		first, err := svc.UpdateUser(context.Background(), 3, upd)
		require.NoError(t, err)
		second, err := svc.UpdateUser(context.Background(), 3, upd)
		require.NoError(t, err)

		assert.Equal(t, first.Name, second.Name)
		assert.Equal(t, first.Email, second.Email)
		assert.Equal(t, first.Role, second.Role)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Run("returns removed row", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Delete", mock.Anything, uint(5)).Return(&model.User{ID: 5, Name: "Bob"}, nil)

		user, err := newTestUserService(mockRepo).DeleteUser(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, uint(5), user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("delete is not idempotent", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Delete", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

		user, err := newTestUserService(mockRepo).DeleteUser(context.Background(), 5)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.Nil(t, user)
	})
}
