package billing

import (
	"context"
	"time"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateEventInput carries the fields for a new event. The aggregate fields
// are not part of the input; they start at zero.
type CreateEventInput struct {
	Name        string
	Description string
	EventDate   time.Time
}

// UpdateEventInput carries the client-writable fields of an event
type UpdateEventInput struct {
	Name        string
	Description string
	EventDate   time.Time
}

// EventService manages event aggregates
type EventService struct {
	events    billing.EventRepository
	recalc    *EventRecalculator
	locks     *shared.KeyedMutex
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewEventService creates an EventService
func NewEventService(
	events billing.EventRepository,
	recalc *EventRecalculator,
	locks *shared.KeyedMutex,
	opTimeout time.Duration,
	logger *zap.Logger,
) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		events:    events,
		recalc:    recalc,
		locks:     locks,
		opTimeout: opTimeout,
		logger:    logger,
	}
}

func (s *EventService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create creates an event with zeroed aggregate fields
func (s *EventService) Create(ctx context.Context, input CreateEventInput, actorID uuid.UUID) (*billing.Event, error) {
	event, err := billing.NewEvent(input.Name, input.Description, input.EventDate, actorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.events.Save(ctx, event); err != nil {
		return nil, shared.WrapPersistence("insert event", err)
	}
	return event, nil
}

// Get returns a single event
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*billing.Event, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch event", err)
	}
	return event, nil
}

// List returns events with pagination
func (s *EventService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[billing.Event], error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	events, err := s.events.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Event]{}, shared.WrapPersistence("list events", err)
	}
	total, err := s.events.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[billing.Event]{}, shared.WrapPersistence("count events", err)
	}
	return shared.NewPaginated(events, total, filter.Page, filter.Limit()), nil
}

// Update changes an event's descriptive fields. Aggregate fields cannot be
// written through this path.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput, actorID uuid.UUID) (*billing.Event, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch event", err)
	}
	if err := event.UpdateDetails(input.Name, input.Description, input.EventDate, actorID); err != nil {
		return nil, err
	}
	if err := s.events.Save(ctx, event); err != nil {
		return nil, shared.WrapPersistence("update event", err)
	}
	return event, nil
}

// Delete removes an event. Its lines go with it via the schema's cascading
// foreign keys.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.locks.WithLock(eventLockKey(id), func() error {
		if err := s.events.Delete(ctx, id); err != nil {
			return shared.WrapPersistence("delete event", err)
		}
		return nil
	})
}

// Resync recomputes the event aggregate without a preceding child mutation.
// It exists for operational repair after a failed recomputation left the
// aggregate stale.
func (s *EventService) Resync(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (billing.EventTotals, error) {
	if actorID == uuid.Nil {
		return billing.EventTotals{}, shared.ErrUnauthorized
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var totals billing.EventTotals
	err := s.locks.WithLock(eventLockKey(id), func() error {
		var err error
		totals, err = s.recalc.Recalculate(ctx, id, actorID)
		return err
	})
	if err != nil {
		return billing.EventTotals{}, err
	}

	s.logger.Info("event aggregate resynced",
		zap.String("event_id", id.String()),
		zap.String("actor_id", actorID.String()),
	)
	return totals, nil
}
