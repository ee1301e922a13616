package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService authenticates accounts and manages token lifecycles
type AuthService struct {
	users     identity.UserRepository
	tokens    *auth.JWTService
	revoked   *auth.RevocationList
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewAuthService creates an AuthService
func NewAuthService(
	users identity.UserRepository,
	tokens *auth.JWTService,
	revoked *auth.RevocationList,
	opTimeout time.Duration,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		revoked:   revoked,
		opTimeout: opTimeout,
		logger:    logger,
	}
}

func (s *AuthService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Login verifies credentials and issues a token pair. Unknown accounts,
// deactivated accounts and wrong passwords all fail the same way so the
// response does not reveal which one happened.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *identity.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrUnauthorized
		}
		return nil, nil, shared.WrapPersistence("resolve account", err)
	}
	if !user.Active || !user.CheckPassword(password) {
		return nil, nil, shared.ErrUnauthorized
	}

	pair, err := s.tokens.GenerateTokenPair(tokenInput(user))
	if err != nil {
		return nil, nil, shared.WrapPersistence("issue tokens", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()),
	)
	return pair, user, nil
}

// Refresh exchanges a refresh token for a new pair. Role and permissions are
// re-read from the account, so a role change takes effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug("refresh token rejected", zap.Error(err))
		return nil, shared.ErrUnauthorized
	}
	if s.revoked.IsRevoked(claims.ID) {
		return nil, shared.ErrUnauthorized
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, shared.WrapPersistence("resolve account", err)
	}
	if !user.Active {
		return nil, shared.ErrUnauthorized
	}

	pair, err := s.tokens.RefreshTokenPair(refreshToken, tokenInput(user))
	if err != nil {
		s.logger.Debug("refresh rejected", zap.Error(err))
		return nil, shared.ErrUnauthorized
	}
	return pair, nil
}

// Logout revokes both tokens of a session for the rest of their lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.tokens.ValidateAccessToken(accessToken); err == nil {
		s.revoked.Revoke(claims.ID, claims.GetRemainingTTL())
	}
	if claims, err := s.tokens.ValidateRefreshToken(refreshToken); err == nil {
		s.revoked.Revoke(claims.ID, claims.GetRemainingTTL())
		s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	}
	return nil
}

// ChangePassword verifies the old password before storing a new hash
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return shared.WrapPersistence("fetch account", err)
	}
	if err := user.ChangePassword(oldPassword, newPassword, userID); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return shared.WrapPersistence("update account", err)
	}
	return nil
}

func tokenInput(user *identity.User) auth.GenerateTokenInput {
	perms := user.Role.Permissions()
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	return auth.GenerateTokenInput{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role.String(),
		Permissions: names,
	}
}
