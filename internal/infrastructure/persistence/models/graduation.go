package models

import (
	"time"

	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GraduationModel is the persistence model for graduation funds
type GraduationModel struct {
	AuditedModel
	Name           string          `gorm:"type:varchar(200);not null"`
	Year           int             `gorm:"not null;index"`
	TargetAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalCollected decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for GORM
func (GraduationModel) TableName() string {
	return "graduations"
}

// ToDomain converts the persistence model to a domain Graduation
func (m *GraduationModel) ToDomain() *graduation.Graduation {
	return &graduation.Graduation{
		AuditedEntity:  m.AuditedModel.ToDomain(),
		Name:           m.Name,
		Year:           m.Year,
		TargetAmount:   m.TargetAmount,
		TotalCollected: m.TotalCollected,
	}
}

// FromDomain populates the persistence model from a domain Graduation
func (m *GraduationModel) FromDomain(g *graduation.Graduation) {
	m.AuditedModel.FromDomain(g.AuditedEntity)
	m.Name = g.Name
	m.Year = g.Year
	m.TargetAmount = g.TargetAmount
	m.TotalCollected = g.TotalCollected
}

// GraduationPaymentModel is the persistence model for graduation payments
type GraduationPaymentModel struct {
	AuditedModel
	GraduationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	StudentID    *uuid.UUID      `gorm:"type:uuid;index"`
	PayerName    string          `gorm:"type:varchar(200);not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaidAt       time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (GraduationPaymentModel) TableName() string {
	return "graduation_payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *GraduationPaymentModel) ToDomain() *graduation.Payment {
	return &graduation.Payment{
		AuditedEntity: m.AuditedModel.ToDomain(),
		GraduationID:  m.GraduationID,
		StudentID:     m.StudentID,
		PayerName:     m.PayerName,
		Amount:        m.Amount,
		PaidAt:        m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *GraduationPaymentModel) FromDomain(p *graduation.Payment) {
	m.AuditedModel.FromDomain(p.AuditedEntity)
	m.GraduationID = p.GraduationID
	m.StudentID = p.StudentID
	m.PayerName = p.PayerName
	m.Amount = p.Amount
	m.PaidAt = p.PaidAt
}
