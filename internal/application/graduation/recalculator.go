package graduation

import (
	"context"

	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Recalculator rederives a graduation fund's collected total from a fresh
// database-side sum of its payments. Idempotent by construction.
type Recalculator struct {
	graduations graduation.GraduationRepository
	payments    graduation.PaymentRepository
	logger      *zap.Logger
}

// NewRecalculator creates a graduation Recalculator
func NewRecalculator(
	graduations graduation.GraduationRepository,
	payments graduation.PaymentRepository,
	logger *zap.Logger,
) *Recalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recalculator{
		graduations: graduations,
		payments:    payments,
		logger:      logger,
	}
}

// Recalculate sums the fund's payments and writes the collected total back
// in a single update. A fund with no payments gets zero.
func (r *Recalculator) Recalculate(ctx context.Context, graduationID uuid.UUID, actorID uuid.UUID) (decimal.Decimal, error) {
	total, err := r.payments.SumByGraduation(ctx, graduationID)
	if err != nil {
		return decimal.Zero, shared.WrapPersistence("sum graduation payments", err)
	}

	if err := r.graduations.UpdateCollectedTotal(ctx, graduationID, total, actorID); err != nil {
		return decimal.Zero, shared.WrapPersistence("update collected total", err)
	}

	r.logger.Debug("graduation collected total recalculated",
		zap.String("graduation_id", graduationID.String()),
		zap.String("total_collected", total.String()),
	)
	return total, nil
}
