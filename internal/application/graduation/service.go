package graduation

import (
	"context"
	"time"

	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func fundLockKey(graduationID uuid.UUID) string {
	return "graduation:" + graduationID.String()
}

// CreateGraduationInput carries the fields for a new graduation fund
type CreateGraduationInput struct {
	Name         string
	Year         int
	TargetAmount decimal.Decimal
}

// Service manages graduation funds
type Service struct {
	graduations graduation.GraduationRepository
	recalc      *Recalculator
	locks       *shared.KeyedMutex
	opTimeout   time.Duration
	logger      *zap.Logger
}

// NewService creates a graduation Service
func NewService(
	graduations graduation.GraduationRepository,
	recalc *Recalculator,
	locks *shared.KeyedMutex,
	opTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		graduations: graduations,
		recalc:      recalc,
		locks:       locks,
		opTimeout:   opTimeout,
		logger:      logger,
	}
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create creates a fund with the collected total at zero
func (s *Service) Create(ctx context.Context, input CreateGraduationInput, actorID uuid.UUID) (*graduation.Graduation, error) {
	fund, err := graduation.NewGraduation(input.Name, input.Year, input.TargetAmount, actorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.graduations.Save(ctx, fund); err != nil {
		return nil, shared.WrapPersistence("insert graduation", err)
	}
	return fund, nil
}

// Get returns a single fund
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*graduation.Graduation, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	fund, err := s.graduations.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch graduation", err)
	}
	return fund, nil
}

// List returns funds with pagination
func (s *Service) List(ctx context.Context, filter shared.Filter) (shared.Paginated[graduation.Graduation], error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	funds, err := s.graduations.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[graduation.Graduation]{}, shared.WrapPersistence("list graduations", err)
	}
	total, err := s.graduations.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[graduation.Graduation]{}, shared.WrapPersistence("count graduations", err)
	}
	return shared.NewPaginated(funds, total, filter.Page, filter.Limit()), nil
}

// Update changes a fund's descriptive fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, name string, year int, targetAmount decimal.Decimal, actorID uuid.UUID) (*graduation.Graduation, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	fund, err := s.graduations.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch graduation", err)
	}
	if err := fund.UpdateDetails(name, year, targetAmount, actorID); err != nil {
		return nil, err
	}
	if err := s.graduations.Save(ctx, fund); err != nil {
		return nil, shared.WrapPersistence("update graduation", err)
	}
	return fund, nil
}

// Delete removes a fund and its payments via cascading foreign keys
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.locks.WithLock(fundLockKey(id), func() error {
		if err := s.graduations.Delete(ctx, id); err != nil {
			return shared.WrapPersistence("delete graduation", err)
		}
		return nil
	})
}

// Resync recomputes the collected total without a preceding mutation
func (s *Service) Resync(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (decimal.Decimal, error) {
	if actorID == uuid.Nil {
		return decimal.Zero, shared.ErrUnauthorized
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var total decimal.Decimal
	err := s.locks.WithLock(fundLockKey(id), func() error {
		var err error
		total, err = s.recalc.Recalculate(ctx, id, actorID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("graduation aggregate resynced",
		zap.String("graduation_id", id.String()),
		zap.String("actor_id", actorID.String()),
	)
	return total, nil
}

// CreatePaymentInput carries the fields for a new graduation payment
type CreatePaymentInput struct {
	GraduationID uuid.UUID
	StudentID    *uuid.UUID
	PayerName    string
	Amount       decimal.Decimal
	PaidAt       time.Time
}

// PaymentService mutates graduation payments. Every successful mutation
// recomputes the owning fund's collected total.
type PaymentService struct {
	payments    graduation.PaymentRepository
	graduations graduation.GraduationRepository
	recalc      *Recalculator
	locks       *shared.KeyedMutex
	opTimeout   time.Duration
	logger      *zap.Logger
}

// NewPaymentService creates a PaymentService
func NewPaymentService(
	payments graduation.PaymentRepository,
	graduations graduation.GraduationRepository,
	recalc *Recalculator,
	locks *shared.KeyedMutex,
	opTimeout time.Duration,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		payments:    payments,
		graduations: graduations,
		recalc:      recalc,
		locks:       locks,
		opTimeout:   opTimeout,
		logger:      logger,
	}
}

func (s *PaymentService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create inserts a payment and recomputes the owning fund before returning
func (s *PaymentService) Create(ctx context.Context, input CreatePaymentInput, actorID uuid.UUID) (*graduation.Payment, error) {
	payment, err := graduation.NewPayment(input.GraduationID, input.StudentID, input.PayerName, input.Amount, input.PaidAt, actorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.graduations.FindByID(ctx, input.GraduationID); err != nil {
		return nil, shared.WrapPersistence("resolve graduation", err)
	}

	err = s.locks.WithLock(fundLockKey(input.GraduationID), func() error {
		if err := s.payments.Save(ctx, payment); err != nil {
			return shared.WrapPersistence("insert graduation payment", err)
		}
		if _, err := s.recalc.Recalculate(ctx, payment.GraduationID, actorID); err != nil {
			s.logInconsistency("create", payment.ID, payment.GraduationID, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Update merges a partial update and recomputes the fund resolved from the
// stored row
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, update graduation.PaymentUpdate, actorID uuid.UUID) (*graduation.Payment, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch graduation payment", err)
	}
	if err := payment.Apply(update, actorID); err != nil {
		return nil, err
	}

	err = s.locks.WithLock(fundLockKey(payment.GraduationID), func() error {
		if err := s.payments.Save(ctx, payment); err != nil {
			return shared.WrapPersistence("update graduation payment", err)
		}
		if _, err := s.recalc.Recalculate(ctx, payment.GraduationID, actorID); err != nil {
			s.logInconsistency("update", payment.ID, payment.GraduationID, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Delete removes a payment and recomputes the fund identified by the deleted
// row's own foreign key
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return shared.WrapPersistence("fetch graduation payment", err)
	}

	return s.locks.WithLock(fundLockKey(payment.GraduationID), func() error {
		graduationID, err := s.payments.DeleteReturningGraduation(ctx, id)
		if err != nil {
			return shared.WrapPersistence("delete graduation payment", err)
		}
		if graduationID == uuid.Nil {
			return shared.ErrNotFound
		}
		if _, err := s.recalc.Recalculate(ctx, graduationID, actorID); err != nil {
			s.logInconsistency("delete", id, graduationID, err)
			return err
		}
		return nil
	})
}

// ListByGraduation returns all payments under a fund
func (s *PaymentService) ListByGraduation(ctx context.Context, graduationID uuid.UUID) ([]graduation.Payment, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	payments, err := s.payments.FindByGraduation(ctx, graduationID)
	if err != nil {
		return nil, shared.WrapPersistence("list graduation payments", err)
	}
	return payments, nil
}

func (s *PaymentService) logInconsistency(op string, paymentID, graduationID uuid.UUID, err error) {
	s.logger.Warn("inconsistency window: graduation payment written but fund recompute failed",
		zap.String("operation", op),
		zap.String("payment_id", paymentID.String()),
		zap.String("graduation_id", graduationID.String()),
		zap.Error(err),
	)
}
