package billing

import (
	"context"
	"time"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockLineService mutates stock lines. It mirrors BillingLineService: one
// recomputation of the owning event per successful mutation, serialized per
// event through the shared keyed mutex.
type StockLineService struct {
	lines     billing.StockLineRepository
	events    billing.EventRepository
	recalc    *EventRecalculator
	locks     *shared.KeyedMutex
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewStockLineService creates a StockLineService
func NewStockLineService(
	lines billing.StockLineRepository,
	events billing.EventRepository,
	recalc *EventRecalculator,
	locks *shared.KeyedMutex,
	opTimeout time.Duration,
	logger *zap.Logger,
) *StockLineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLineService{
		lines:     lines,
		events:    events,
		recalc:    recalc,
		locks:     locks,
		opTimeout: opTimeout,
		logger:    logger,
	}
}

func (s *StockLineService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create inserts a new stock line and recomputes the owning event
func (s *StockLineService) Create(ctx context.Context, input CreateLineInput, actorID uuid.UUID) (*billing.StockLine, error) {
	line, err := billing.NewStockLine(input.EventID, input.Name, input.SpentIn, input.SellFor, input.InitialStock, input.RemainingStock, actorID)
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
			return shared.WrapPersistence("insert stock line", err)
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

// Update merges a partial update into an existing stock line and recomputes
// the event resolved from the stored row
func (s *StockLineService) Update(ctx context.Context, id uuid.UUID, update billing.LineUpdate, actorID uuid.UUID) (*billing.StockLine, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	line, err := s.lines.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch stock line", err)
	}
	if err := line.Apply(update, actorID); err != nil {
		return nil, err
	}

	err = s.locks.WithLock(eventLockKey(line.EventID), func() error {
		if err := s.lines.Save(ctx, line); err != nil {
			return shared.WrapPersistence("update stock line", err)
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

// Delete removes a stock line and recomputes the event identified by the
// deleted row's own foreign key
func (s *StockLineService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	line, err := s.lines.FindByID(ctx, id)
	if err != nil {
		return shared.WrapPersistence("fetch stock line", err)
	}

	return s.locks.WithLock(eventLockKey(line.EventID), func() error {
		eventID, err := s.lines.DeleteReturningEvent(ctx, id)
		if err != nil {
			return shared.WrapPersistence("delete stock line", err)
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

// ListByEvent returns all stock lines under an event
func (s *StockLineService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]billing.StockLine, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	lines, err := s.lines.FindByEvent(ctx, eventID)
	if err != nil {
		return nil, shared.WrapPersistence("list stock lines", err)
	}
	return lines, nil
}

func (s *StockLineService) logInconsistency(op string, lineID, eventID uuid.UUID, err error) {
	s.logger.Warn("inconsistency window: stock line written but event recompute failed",
		zap.String("operation", op),
		zap.String("stock_line_id", lineID.String()),
		zap.String("event_id", eventID.String()),
		zap.Error(err),
	)
}
