package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AuditedEntity extends BaseEntity with the identity of the user who
// created and last modified the record.
type AuditedEntity struct {
	BaseEntity
	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
}

// NewAuditedEntity creates a new audited entity attributed to the given user
func NewAuditedEntity(actorID uuid.UUID) AuditedEntity {
	return AuditedEntity{
		BaseEntity: NewBaseEntity(),
		CreatedBy:  actorID,
		UpdatedBy:  actorID,
	}
}

// Touch updates the modification timestamp and actor
func (e *AuditedEntity) Touch(actorID uuid.UUID) {
	e.UpdatedBy = actorID
	e.UpdatedAt = time.Now()
}
