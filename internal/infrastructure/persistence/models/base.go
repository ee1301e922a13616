package models

import (
	"time"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AuditedModel extends BaseModel with the identity of the user who created
// and last modified the row. It maps to the domain's AuditedEntity.
type AuditedModel struct {
	BaseModel
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedBy uuid.UUID `gorm:"type:uuid;not null"`
}

// ToDomain converts AuditedModel to a domain AuditedEntity
func (m *AuditedModel) ToDomain() shared.AuditedEntity {
	return shared.AuditedEntity{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CreatedBy: m.CreatedBy,
		UpdatedBy: m.UpdatedBy,
	}
}

// FromDomain populates AuditedModel from a domain AuditedEntity
func (m *AuditedModel) FromDomain(e shared.AuditedEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
	m.CreatedBy = e.CreatedBy
	m.UpdatedBy = e.UpdatedBy
}
