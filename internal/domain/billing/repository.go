package billing

import (
	"context"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventRepository provides access to event aggregates
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Event, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, event *Event) error
	// UpdateTotals writes the derived aggregate in a single update call.
	// It is the only write path for the aggregate fields.
	UpdateTotals(ctx context.Context, id uuid.UUID, totals EventTotals, actorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BillingLineRepository provides access to billing lines
type BillingLineRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillingLine, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]BillingLine, error)
	// FinancialsByEvent reads only the aggregate-contributing columns of
	// every line under the event.
	FinancialsByEvent(ctx context.Context, eventID uuid.UUID) ([]LineFinancials, error)
	Save(ctx context.Context, line *BillingLine) error
	// DeleteReturningEvent removes the line and reports the owning event id
	// taken from the deleted row itself, so callers never have to supply it.
	DeleteReturningEvent(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// StockLineRepository provides access to stock lines
type StockLineRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockLine, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]StockLine, error)
	FinancialsByEvent(ctx context.Context, eventID uuid.UUID) ([]LineFinancials, error)
	Save(ctx context.Context, line *StockLine) error
	DeleteReturningEvent(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}
