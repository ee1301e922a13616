package contribution

import (
	"strings"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contribution is a collection drive split across a fixed number of payers.
// TotalAmount and AvgContribution are derived from the individual
// contributions; DividedBy is the divisor fixed when the drive is created.
type Contribution struct {
	shared.AuditedEntity
	Name        string
	Description string
	DividedBy   int64

	TotalAmount     decimal.Decimal
	AvgContribution decimal.Decimal
}

// NewContribution creates a contribution drive with derived fields at zero
func NewContribution(name, description string, dividedBy int64, actorID uuid.UUID) (*Contribution, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if strings.TrimSpace(name) == "" || dividedBy <= 0 {
		return nil, shared.ErrInvalidInput
	}
	return &Contribution{
		AuditedEntity:   shared.NewAuditedEntity(actorID),
		Name:            name,
		Description:     description,
		DividedBy:       dividedBy,
		TotalAmount:     decimal.Zero,
		AvgContribution: decimal.Zero,
	}, nil
}

// UpdateDetails changes the descriptive fields. The divisor and the derived
// fields are not client-writable.
func (c *Contribution) UpdateDetails(name, description string, actorID uuid.UUID) error {
	if strings.TrimSpace(name) == "" {
		return shared.ErrInvalidInput
	}
	c.Name = name
	c.Description = description
	c.Touch(actorID)
	return nil
}

// ContributionTotals is the derived aggregate written back to a contribution
type ContributionTotals struct {
	TotalAmount     decimal.Decimal
	AvgContribution decimal.Decimal
}

// ComputeTotals derives the aggregate from the summed child amounts and the
// drive's divisor. The average is rounded half up to two decimal places.
func ComputeTotals(totalAmount decimal.Decimal, dividedBy int64) (ContributionTotals, error) {
	if dividedBy <= 0 {
		return ContributionTotals{}, shared.ErrInvalidInput
	}
	avg := totalAmount.DivRound(decimal.NewFromInt(dividedBy), 2)
	return ContributionTotals{TotalAmount: totalAmount, AvgContribution: avg}, nil
}

// ApplyTotals overwrites the derived aggregate from a fresh recomputation
func (c *Contribution) ApplyTotals(totals ContributionTotals, actorID uuid.UUID) {
	c.TotalAmount = totals.TotalAmount
	c.AvgContribution = totals.AvgContribution
	c.Touch(actorID)
}
