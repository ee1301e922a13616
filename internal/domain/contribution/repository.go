package contribution

import (
	"context"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContributionRepository provides access to contribution drives
type ContributionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contribution, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contribution, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, c *Contribution) error
	// UpdateTotals writes the derived aggregate in a single update call
	UpdateTotals(ctx context.Context, id uuid.UUID, totals ContributionTotals, actorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// IndividualContributionRepository provides access to individual payments
type IndividualContributionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*IndividualContribution, error)
	FindByContribution(ctx context.Context, contributionID uuid.UUID) ([]IndividualContribution, error)
	// SumByContribution folds the amounts database-side; an empty drive
	// sums to zero.
	SumByContribution(ctx context.Context, contributionID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, ic *IndividualContribution) error
	// DeleteReturningContribution removes the payment and reports the
	// owning drive id taken from the deleted row itself.
	DeleteReturningContribution(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}
