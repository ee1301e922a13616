package graduation

import (
	"context"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GraduationRepository provides access to graduation funds
type GraduationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Graduation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Graduation, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, g *Graduation) error
	// UpdateCollectedTotal writes the derived total in a single update call
	UpdateCollectedTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal, actorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository provides access to graduation payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByGraduation(ctx context.Context, graduationID uuid.UUID) ([]Payment, error)
	// SumByGraduation folds the amounts database-side; a fund with no
	// payments sums to zero.
	SumByGraduation(ctx context.Context, graduationID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, p *Payment) error
	// DeleteReturningGraduation removes the payment and reports the owning
	// fund id taken from the deleted row itself.
	DeleteReturningGraduation(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}
