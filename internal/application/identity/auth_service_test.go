package identity

import (
	"context"
	"testing"
	"time"

	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/auth"
	"github.com/schoolfund/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockUserRepo is a mock implementation of identity.UserRepository
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *mockUserRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newAuthFixture(t *testing.T) (*mockUserRepo, *AuthService, *identity.User) {
	t.Helper()

	user, err := identity.NewUser("treasurer@school.test", "Ana Souza", "correct-horse", identity.RoleTreasurer, uuid.New())
	require.NoError(t, err)

	users := new(mockUserRepo)
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-test-access-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "schoolfund-test",
		MaxRefreshCount:        5,
	})
	svc := NewAuthService(users, tokens, auth.NewRevocationList(), 5*time.Second, zap.NewNop())
	return users, svc, user
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues tokens for valid credentials", func(t *testing.T) {
		users, svc, user := newAuthFixture(t)
		users.On("FindByEmail", mock.Anything, "treasurer@school.test").Return(user, nil)

		pair, got, err := svc.Login(context.Background(), "Treasurer@School.test ", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		users, svc, user := newAuthFixture(t)
		users.On("FindByEmail", mock.Anything, "treasurer@school.test").Return(user, nil)

		_, _, err := svc.Login(context.Background(), "treasurer@school.test", "wrong")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("unknown account fails the same way as a wrong password", func(t *testing.T) {
		users, svc, _ := newAuthFixture(t)
		users.On("FindByEmail", mock.Anything, "nobody@school.test").Return(nil, shared.ErrNotFound)

		_, _, err := svc.Login(context.Background(), "nobody@school.test", "correct-horse")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("deactivated account is unauthorized", func(t *testing.T) {
		users, svc, user := newAuthFixture(t)
		user.Deactivate(uuid.New())
		users.On("FindByEmail", mock.Anything, "treasurer@school.test").Return(user, nil)

		_, _, err := svc.Login(context.Background(), "treasurer@school.test", "correct-horse")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("re-resolves the current role", func(t *testing.T) {
		users, svc, user := newAuthFixture(t)
		users.On("FindByEmail", mock.Anything, "treasurer@school.test").Return(user, nil)
		users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		pair, _, err := svc.Login(context.Background(), "treasurer@school.test", "correct-horse")
		require.NoError(t, err)

		user.Role = identity.RoleAdmin
		refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.tokens.ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		_, svc, _ := newAuthFixture(t)

		_, err := svc.Refresh(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("revoked session cannot refresh", func(t *testing.T) {
		users, svc, user := newAuthFixture(t)
		users.On("FindByEmail", mock.Anything, "treasurer@school.test").Return(user, nil)

		pair, _, err := svc.Login(context.Background(), "treasurer@school.test", "correct-horse")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(context.Background(), pair.AccessToken, pair.RefreshToken))

		_, err = svc.Refresh(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	users, svc, user := newAuthFixture(t)
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	users.On("Save", mock.Anything, user).Return(nil)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "correct-horse", "battery-staple"))
	assert.True(t, user.CheckPassword("battery-staple"))

	err := svc.ChangePassword(context.Background(), user.ID, "correct-horse", "another-pass")
	assert.ErrorIs(t, err, shared.ErrUnauthorized, "old password no longer matches")
}

func TestUserService_Create(t *testing.T) {
	actorID := uuid.New()

	t.Run("rejects a taken email", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := NewUserService(users, 5*time.Second, zap.NewNop())

		existing, err := identity.NewUser("taken@school.test", "Ana Souza", "correct-horse", identity.RoleTeacher, actorID)
		require.NoError(t, err)
		users.On("FindByEmail", mock.Anything, "taken@school.test").Return(existing, nil)

		_, err = svc.Create(context.Background(), CreateUserInput{
			Email:    "taken@school.test",
			FullName: "Outro Nome",
			Password: "long-enough",
			Role:     identity.RoleTeacher,
		}, actorID)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid role fails before any backend call", func(t *testing.T) {
		users := new(mockUserRepo)
		svc := NewUserService(users, 5*time.Second, zap.NewNop())

		_, err := svc.Create(context.Background(), CreateUserInput{
			Email:    "new@school.test",
			FullName: "Novo Usuario",
			Password: "long-enough",
			Role:     identity.Role("janitor"),
		}, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}
