package identity

import (
	"context"
	"errors"
	"time"

	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateUserInput carries the fields for a new account
type CreateUserInput struct {
	Email    string
	FullName string
	Password string
	Role     identity.Role
}

// UserService manages accounts
type UserService struct {
	users     identity.UserRepository
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(users identity.UserRepository, opTimeout time.Duration, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, opTimeout: opTimeout, logger: logger}
}

func (s *UserService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create registers an account. The email must not already be taken.
func (s *UserService) Create(ctx context.Context, input CreateUserInput, actorID uuid.UUID) (*identity.User, error) {
	user, err := identity.NewUser(input.Email, input.FullName, input.Password, input.Role, actorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	existing, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, shared.WrapPersistence("resolve account email", err)
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, shared.WrapPersistence("insert account", err)
	}

	s.logger.Info("account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()),
	)
	return user, nil
}

// Get returns a single account
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch account", err)
	}
	return user, nil
}

// List returns accounts with pagination
func (s *UserService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[identity.User], error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[identity.User]{}, shared.WrapPersistence("list accounts", err)
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[identity.User]{}, shared.WrapPersistence("count accounts", err)
	}
	return shared.NewPaginated(users, total, filter.Page, filter.Limit()), nil
}

// Update merges a partial update into an account's profile
func (s *UserService) Update(ctx context.Context, id uuid.UUID, update identity.UserUpdate, actorID uuid.UUID) (*identity.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch account", err)
	}
	if err := user.Apply(update, actorID); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, shared.WrapPersistence("update account", err)
	}
	return user, nil
}

// Deactivate disables an account without deleting its audit trail
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return shared.WrapPersistence("fetch account", err)
	}
	user.Deactivate(actorID)
	if err := s.users.Save(ctx, user); err != nil {
		return shared.WrapPersistence("update account", err)
	}
	return nil
}

// Delete removes an account
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.users.Delete(ctx, id); err != nil {
		return shared.WrapPersistence("delete account", err)
	}
	return nil
}
