package billing

import (
	"context"
	"time"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateLineInput carries the validated fields for a new billing or stock
// line. Parsing from the HTTP payload happens at the handler boundary; the
// services never see raw untyped maps.
type CreateLineInput struct {
	EventID        uuid.UUID
	Name           string
	SpentIn        decimal.Decimal
	SellFor        decimal.Decimal
	InitialStock   int64
	RemainingStock int64
}

// eventLockKey scopes the per-parent mutex. Billing and stock mutations on
// the same event share one key so their recomputations serialize.
func eventLockKey(eventID uuid.UUID) string {
	return "event:" + eventID.String()
}

// BillingLineService mutates billing lines. Every successful mutation ends
// with exactly one recomputation of the owning event's aggregate; the write
// and the recompute are two separate backend calls with no enclosing
// transaction, so a failure in between leaves the event stale until the next
// mutation or resync overwrites it.
type BillingLineService struct {
	lines     billing.BillingLineRepository
	events    billing.EventRepository
	recalc    *EventRecalculator
	locks     *shared.KeyedMutex
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewBillingLineService creates a BillingLineService
func NewBillingLineService(
	lines billing.BillingLineRepository,
	events billing.EventRepository,
	recalc *EventRecalculator,
	locks *shared.KeyedMutex,
	opTimeout time.Duration,
	logger *zap.Logger,
) *BillingLineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingLineService{
		lines:     lines,
		events:    events,
		recalc:    recalc,
		locks:     locks,
		opTimeout: opTimeout,
		logger:    logger,
	}
}

func (s *BillingLineService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create inserts a new billing line and recomputes the owning event. The
// caller gets a response only after the recomputation finished; if it fails
// the operation fails even though the line row already exists.
func (s *BillingLineService) Create(ctx context.Context, input CreateLineInput, actorID uuid.UUID) (*billing.BillingLine, error) {
	line, err := billing.NewBillingLine(input.EventID, input.Name, input.SpentIn, input.SellFor, input.InitialStock, input.RemainingStock, actorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.events.FindByID(ctx, input.EventID); err != nil {
		return nil, shared.WrapPersistence("resolve event", err)
	}

	err = s.locks.WithLock(eventLockKey(input.EventID), func() error {
		if err := s.lines.Save(ctx, line); err != nil {
			return shared.WrapPersistence("insert billing line", err)
		}
		if _, err := s.recalc.Recalculate(ctx, line.EventID, actorID); err != nil {
			s.logInconsistency("create", line.ID, line.EventID, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// Update merges a partial update into an existing line, rederives its sales
// figure and recomputes the event. The owning event id always comes from the
// stored row, never from the client.
func (s *BillingLineService) Update(ctx context.Context, id uuid.UUID, update billing.LineUpdate, actorID uuid.UUID) (*billing.BillingLine, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	line, err := s.lines.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch billing line", err)
	}
	if err := line.Apply(update, actorID); err != nil {
		return nil, err
	}

	err = s.locks.WithLock(eventLockKey(line.EventID), func() error {
		if err := s.lines.Save(ctx, line); err != nil {
			return shared.WrapPersistence("update billing line", err)
		}
		if _, err := s.recalc.Recalculate(ctx, line.EventID, actorID); err != nil {
			s.logInconsistency("update", line.ID, line.EventID, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// Delete removes a line and recomputes the event identified by the deleted
// row's own foreign key. Deleting an already-deleted line reports not found
// and triggers no recomputation.
func (s *BillingLineService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	// The fetch only determines the lock key; the event id used for the
	// recompute comes from the delete result itself.
	line, err := s.lines.FindByID(ctx, id)
	if err != nil {
		return shared.WrapPersistence("fetch billing line", err)
	}

	return s.locks.WithLock(eventLockKey(line.EventID), func() error {
		eventID, err := s.lines.DeleteReturningEvent(ctx, id)
		if err != nil {
			return shared.WrapPersistence("delete billing line", err)
		}
		if eventID == uuid.Nil {
			return shared.ErrNotFound
		}
		if _, err := s.recalc.Recalculate(ctx, eventID, actorID); err != nil {
			s.logInconsistency("delete", id, eventID, err)
			return err
		}
		return nil
	})
}

// ListByEvent returns all billing lines under an event
func (s *BillingLineService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]billing.BillingLine, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	lines, err := s.lines.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, shared.WrapPersistence("list billing lines", err)
	}
	return lines, nil
}

func (s *BillingLineService) logInconsistency(op string, lineID, eventID uuid.UUID, err error) {
	s.logger.Warn("inconsistency window: billing line written but event recompute failed",
		zap.String("operation", op),
		zap.String("billing_line_id", lineID.String()),
		zap.String("event_id", eventID.String()),
		zap.Error(err),
	)
}
