package billing

import (
	"context"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventRecalculator rederives an event's financial aggregate from a fresh
// read of all its billing and stock lines. The recomputation is idempotent:
// it overwrites the aggregate from scratch, so running it twice with no
// intervening child mutation produces the same result, and any stale
// aggregate left by an earlier failure is corrected by the next run.
type EventRecalculator struct {
	events       billing.EventRepository
	billingLines billing.BillingLineRepository
	stockLines   billing.StockLineRepository
	logger       *zap.Logger
}

// NewEventRecalculator creates an EventRecalculator
func NewEventRecalculator(
	events billing.EventRepository,
	billingLines billing.BillingLineRepository,
	stockLines billing.StockLineRepository,
	logger *zap.Logger,
) *EventRecalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventRecalculator{
		events:       events,
		billingLines: billingLines,
		stockLines:   stockLines,
		logger:       logger,
	}
}

// Recalculate reads every line under the event, sums spend and sales, and
// writes spent, total amount and profit back to the event in a single
// update. An event with no lines gets all three fields set to zero.
func (r *EventRecalculator) Recalculate(ctx context.Context, eventID uuid.UUID, actorID uuid.UUID) (billing.EventTotals, error) {
	billingFin, err := r.billingLines.FinancialsByEvent(ctx, eventID)
	if err != nil {
		return billing.EventTotals{}, shared.WrapPersistence("read billing lines", err)
	}
	stockFin, err := r.stockLines.FinancialsByEvent(ctx, eventID)
	if err != nil {
		return billing.EventTotals{}, shared.WrapPersistence("read stock lines", err)
	}

	totals := billing.SumLineFinancials(billingFin, stockFin)
	if err := r.events.UpdateTotals(ctx, eventID, totals, actorID); err != nil {
		return billing.EventTotals{}, shared.WrapPersistence("update event totals", err)
	}

	r.logger.Debug("event totals recalculated",
		zap.String("event_id", eventID.String()),
		zap.String("spent", totals.Spent.String()),
		zap.String("total_amount", totals.TotalAmount.String()),
		zap.String("profit", totals.Profit.String()),
	)
	return totals, nil
}
