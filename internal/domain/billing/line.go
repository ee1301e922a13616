package billing

import (
	"strings"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is a financial child record of an event. Billing lines and stock
// lines carry the same figures; they differ only in which table they live in
// and which workflow creates them.
type Line struct {
	shared.AuditedEntity
	EventID        uuid.UUID
	Name           string
	SpentIn        decimal.Decimal
	SellFor        decimal.Decimal
	InitialStock   int64
	RemainingStock int64

	// TotalSales is a pure function of SellFor, InitialStock and
	// RemainingStock. It is rederived on every mutation.
	TotalSales decimal.Decimal
}

// BillingLine is a line on the billing side of an event
type BillingLine struct {
	Line
}

// StockLine is a line on the stock side of an event
type StockLine struct {
	Line
}

// CalculateTotalSales derives the sales figure for a line. Units sold is
// floored at zero so restocking above the initial count never produces a
// negative figure.
func CalculateTotalSales(sellFor decimal.Decimal, initialStock, remainingStock int64) decimal.Decimal {
	sold := initialStock - remainingStock
	if sold < 0 {
		sold = 0
	}
	return sellFor.Mul(decimal.NewFromInt(sold))
}

// LineUpdate is a partial update for a line. Nil fields keep their current
// value; the owning event of a line can never be changed through an update.
type LineUpdate struct {
	Name           *string
	SpentIn        *decimal.Decimal
	SellFor        *decimal.Decimal
	InitialStock   *int64
	RemainingStock *int64
}

// Empty reports whether the update changes nothing
func (u LineUpdate) Empty() bool {
	return u.Name == nil && u.SpentIn == nil && u.SellFor == nil &&
		u.InitialStock == nil && u.RemainingStock == nil
}

// NewLine creates a validated line with its derived sales figure computed
func NewLine(eventID uuid.UUID, name string, spentIn, sellFor decimal.Decimal, initialStock, remainingStock int64, actorID uuid.UUID) (Line, error) {
	if actorID == uuid.Nil {
		return Line{}, shared.ErrUnauthorized
	}
	if eventID == uuid.Nil || strings.TrimSpace(name) == "" {
		return Line{}, shared.ErrInvalidInput
	}
	if spentIn.IsNegative() || sellFor.IsNegative() || initialStock < 0 || remainingStock < 0 {
		return Line{}, shared.ErrInvalidInput
	}
	return Line{
		AuditedEntity:  shared.NewAuditedEntity(actorID),
		EventID:        eventID,
		Name:           name,
		SpentIn:        spentIn,
		SellFor:        sellFor,
		InitialStock:   initialStock,
		RemainingStock: remainingStock,
		TotalSales:     CalculateTotalSales(sellFor, initialStock, remainingStock),
	}, nil
}

// NewBillingLine creates a billing line for an event
func NewBillingLine(eventID uuid.UUID, name string, spentIn, sellFor decimal.Decimal, initialStock, remainingStock int64, actorID uuid.UUID) (*BillingLine, error) {
	l, err := NewLine(eventID, name, spentIn, sellFor, initialStock, remainingStock, actorID)
	if err != nil {
		return nil, err
	}
	return &BillingLine{Line: l}, nil
}

// NewStockLine creates a stock line for an event
func NewStockLine(eventID uuid.UUID, name string, spentIn, sellFor decimal.Decimal, initialStock, remainingStock int64, actorID uuid.UUID) (*StockLine, error) {
	l, err := NewLine(eventID, name, spentIn, sellFor, initialStock, remainingStock, actorID)
	if err != nil {
		return nil, err
	}
	return &StockLine{Line: l}, nil
}

// Apply merges a partial update into the line and rederives TotalSales from
// the merged fields, so changing a single stock figure is enough to refresh
// the sales figure.
func (l *Line) Apply(update LineUpdate, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if update.Empty() {
		return shared.ErrInvalidInput
	}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return shared.ErrInvalidInput
		}
		l.Name = *update.Name
	}
	if update.SpentIn != nil {
		if update.SpentIn.IsNegative() {
			return shared.ErrInvalidInput
		}
		l.SpentIn = *update.SpentIn
	}
	if update.SellFor != nil {
		if update.SellFor.IsNegative() {
			return shared.ErrInvalidInput
		}
		l.SellFor = *update.SellFor
	}
	if update.InitialStock != nil {
		if *update.InitialStock < 0 {
			return shared.ErrInvalidInput
		}
		l.InitialStock = *update.InitialStock
	}
	if update.RemainingStock != nil {
		if *update.RemainingStock < 0 {
			return shared.ErrInvalidInput
		}
		l.RemainingStock = *update.RemainingStock
	}
	l.TotalSales = CalculateTotalSales(l.SellFor, l.InitialStock, l.RemainingStock)
	l.Touch(actorID)
	return nil
}

// Financials returns the line's contribution to the event aggregate
func (l *Line) Financials() LineFinancials {
	return LineFinancials{SpentIn: l.SpentIn, TotalSales: l.TotalSales}
}
