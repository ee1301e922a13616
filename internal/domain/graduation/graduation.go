package graduation

import (
	"strings"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Graduation is a graduation fund. TotalCollected is derived from the fund's
// payments and only ever written by the recalculator.
type Graduation struct {
	shared.AuditedEntity
	Name         string
	Year         int
	TargetAmount decimal.Decimal

	TotalCollected decimal.Decimal
}

// NewGraduation creates a graduation fund with the collected total at zero
func NewGraduation(name string, year int, targetAmount decimal.Decimal, actorID uuid.UUID) (*Graduation, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if strings.TrimSpace(name) == "" || year <= 0 || targetAmount.IsNegative() {
		return nil, shared.ErrInvalidInput
	}
	return &Graduation{
		AuditedEntity:  shared.NewAuditedEntity(actorID),
		Name:           name,
		Year:           year,
		TargetAmount:   targetAmount,
		TotalCollected: decimal.Zero,
	}, nil
}

// UpdateDetails changes the descriptive fields; the collected total is not
// client-writable.
func (g *Graduation) UpdateDetails(name string, year int, targetAmount decimal.Decimal, actorID uuid.UUID) error {
	if strings.TrimSpace(name) == "" || year <= 0 || targetAmount.IsNegative() {
		return shared.ErrInvalidInput
	}
	g.Name = name
	g.Year = year
	g.TargetAmount = targetAmount
	g.Touch(actorID)
	return nil
}

// ApplyCollectedTotal overwrites the derived total from a fresh recomputation
func (g *Graduation) ApplyCollectedTotal(total decimal.Decimal, actorID uuid.UUID) {
	g.TotalCollected = total
	g.Touch(actorID)
}
