package models

import (
	"github.com/schoolfund/backend/internal/domain/identity"
)

// UserModel is the persistence model for accounts
type UserModel struct {
	AuditedModel
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	FullName     string `gorm:"type:varchar(200);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		AuditedEntity: m.AuditedModel.ToDomain(),
		Email:         m.Email,
		FullName:      m.FullName,
		PasswordHash:  m.PasswordHash,
		Role:          identity.Role(m.Role),
		Active:        m.Active,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.AuditedModel.FromDomain(u.AuditedEntity)
	m.Email = u.Email
	m.FullName = u.FullName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role.String()
	m.Active = u.Active
}
