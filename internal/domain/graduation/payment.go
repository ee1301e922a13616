package graduation

import (
	"strings"
	"time"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a single payment into a graduation fund. StudentID is optional;
// payments from outside the student body carry only a payer name.
type Payment struct {
	shared.AuditedEntity
	GraduationID uuid.UUID
	StudentID    *uuid.UUID
	PayerName    string
	Amount       decimal.Decimal
	PaidAt       time.Time
}

// NewPayment creates a validated graduation payment
func NewPayment(graduationID uuid.UUID, studentID *uuid.UUID, payerName string, amount decimal.Decimal, paidAt time.Time, actorID uuid.UUID) (*Payment, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if graduationID == uuid.Nil || strings.TrimSpace(payerName) == "" {
		return nil, shared.ErrInvalidInput
	}
	if amount.IsNegative() {
		return nil, shared.ErrInvalidInput
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	return &Payment{
		AuditedEntity: shared.NewAuditedEntity(actorID),
		GraduationID:  graduationID,
		StudentID:     studentID,
		PayerName:     payerName,
		Amount:        amount,
		PaidAt:        paidAt,
	}, nil
}

// PaymentUpdate is a partial update. The owning fund can never be changed.
type PaymentUpdate struct {
	PayerName *string
	Amount    *decimal.Decimal
	PaidAt    *time.Time
}

// Apply merges a partial update into the payment
func (p *Payment) Apply(update PaymentUpdate, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if update.PayerName != nil {
		if strings.TrimSpace(*update.PayerName) == "" {
			return shared.ErrInvalidInput
		}
		p.PayerName = *update.PayerName
	}
	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return shared.ErrInvalidInput
		}
		p.Amount = *update.Amount
	}
	if update.PaidAt != nil && !update.PaidAt.IsZero() {
		p.PaidAt = *update.PaidAt
	}
	p.Touch(actorID)
	return nil
}
