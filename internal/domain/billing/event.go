package billing

import (
	"strings"
	"time"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is a fundraising event whose financial totals are wholly derived
// from its billing and stock lines. Spent, TotalAmount and Profit are owned
// by the recalculator: they start at zero and are only ever written through
// ApplyTotals, never from client-supplied values.
type Event struct {
	shared.AuditedEntity
	Name        string
	Description string
	EventDate   time.Time

	Spent       decimal.Decimal
	TotalAmount decimal.Decimal
	Profit      decimal.Decimal
}

// EventTotals is the derived aggregate written back to an event
type EventTotals struct {
	Spent       decimal.Decimal
	TotalAmount decimal.Decimal
	Profit      decimal.Decimal
}

// ZeroTotals returns the aggregate for an event with no lines
func ZeroTotals() EventTotals {
	return EventTotals{
		Spent:       decimal.Zero,
		TotalAmount: decimal.Zero,
		Profit:      decimal.Zero,
	}
}

// NewEvent creates an event with all aggregate fields initialized to zero
func NewEvent(name, description string, eventDate time.Time, actorID uuid.UUID) (*Event, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.ErrInvalidInput
	}
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	return &Event{
		AuditedEntity: shared.NewAuditedEntity(actorID),
		Name:          name,
		Description:   description,
		EventDate:     eventDate,
		Spent:         decimal.Zero,
		TotalAmount:   decimal.Zero,
		Profit:        decimal.Zero,
	}, nil
}

// UpdateDetails changes the descriptive fields. Aggregate fields are not
// touched here.
func (e *Event) UpdateDetails(name, description string, eventDate time.Time, actorID uuid.UUID) error {
	if strings.TrimSpace(name) == "" {
		return shared.ErrInvalidInput
	}
	e.Name = name
	e.Description = description
	e.EventDate = eventDate
	e.Touch(actorID)
	return nil
}

// ApplyTotals overwrites the derived aggregate from a fresh recomputation
func (e *Event) ApplyTotals(totals EventTotals, actorID uuid.UUID) {
	e.Spent = totals.Spent
	e.TotalAmount = totals.TotalAmount
	e.Profit = totals.Profit
	e.Touch(actorID)
}

// LineFinancials is the projection of a child line that contributes to the
// event aggregate. Zero values stand in for missing figures so a line with
// incomplete data never blocks recomputation for its siblings.
type LineFinancials struct {
	SpentIn    decimal.Decimal
	TotalSales decimal.Decimal
}

// SumLineFinancials folds child projections into the event aggregate.
// Profit is total sales minus total spend.
func SumLineFinancials(groups ...[]LineFinancials) EventTotals {
	spent := decimal.Zero
	sales := decimal.Zero
	for _, lines := range groups {
		for _, l := range lines {
			spent = spent.Add(l.SpentIn)
			sales = sales.Add(l.TotalSales)
		}
	}
	return EventTotals{
		Spent:       spent,
		TotalAmount: sales,
		Profit:      sales.Sub(spent),
	}
}
