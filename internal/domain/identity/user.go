package identity

import (
	"context"
	"strings"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// User is an account that can authenticate against the backend
type User struct {
	shared.AuditedEntity
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Active       bool
}

// NewUser creates a user with a hashed password
func NewUser(email, fullName, password string, role Role, actorID uuid.UUID) (*User, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || strings.TrimSpace(fullName) == "" {
		return nil, shared.ErrInvalidInput
	}
	if !role.IsValid() {
		return nil, shared.ErrInvalidInput
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		AuditedEntity: shared.NewAuditedEntity(actorID),
		Email:         email,
		FullName:      fullName,
		PasswordHash:  hash,
		Role:          role,
		Active:        true,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored hash after verifying the old password
func (u *User) ChangePassword(oldPassword, newPassword string, actorID uuid.UUID) error {
	if !u.CheckPassword(oldPassword) {
		return shared.ErrUnauthorized
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch(actorID)
	return nil
}

// UserUpdate is a partial update of an account's profile
type UserUpdate struct {
	FullName *string
	Role     *Role
	Active   *bool
}

// Empty reports whether the update carries no fields
func (u UserUpdate) Empty() bool {
	return u.FullName == nil && u.Role == nil && u.Active == nil
}

// Apply merges a partial update into the account
func (u *User) Apply(update UserUpdate, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if update.Empty() {
		return shared.ErrInvalidInput
	}
	if update.FullName != nil {
		if strings.TrimSpace(*update.FullName) == "" {
			return shared.ErrInvalidInput
		}
		u.FullName = *update.FullName
	}
	if update.Role != nil {
		if !update.Role.IsValid() {
			return shared.ErrInvalidInput
		}
		u.Role = *update.Role
	}
	if update.Active != nil {
		u.Active = *update.Active
	}
	u.Touch(actorID)
	return nil
}

// Deactivate disables the account without deleting it
func (u *User) Deactivate(actorID uuid.UUID) {
	u.Active = false
	u.Touch(actorID)
}

// HashPassword hashes a plaintext password with bcrypt. Passwords shorter
// than eight characters are rejected.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// UserRepository provides access to user accounts
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
