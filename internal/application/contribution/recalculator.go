package contribution

import (
	"context"

	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recalculator rederives a contribution drive's total and average from a
// fresh database-side sum of its individual contributions. Idempotent: the
// aggregate is overwritten from scratch on every run.
type Recalculator struct {
	contributions contribution.ContributionRepository
	individuals   contribution.IndividualContributionRepository
	logger        *zap.Logger
}

// NewRecalculator creates a contribution Recalculator
func NewRecalculator(
	contributions contribution.ContributionRepository,
	individuals contribution.IndividualContributionRepository,
	logger *zap.Logger,
) *Recalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recalculator{
		contributions: contributions,
		individuals:   individuals,
		logger:        logger,
	}
}

// Recalculate sums the drive's payments, reads the divisor from the drive
// itself and writes total and half-up rounded average back in one update.
// A drive with no payments gets zeros, never an error; a missing drive is
// reported as not found.
func (r *Recalculator) Recalculate(ctx context.Context, contributionID uuid.UUID, actorID uuid.UUID) (contribution.ContributionTotals, error) {
	total, err := r.individuals.SumByContribution(ctx, contributionID)
	if err != nil {
		return contribution.ContributionTotals{}, shared.WrapPersistence("sum individual contributions", err)
	}

	drive, err := r.contributions.FindByID(ctx, contributionID)
	if err != nil {
		return contribution.ContributionTotals{}, shared.WrapPersistence("fetch contribution", err)
	}

	totals, err := contribution.ComputeTotals(total, drive.DividedBy)
	if err != nil {
		return contribution.ContributionTotals{}, err
	}

	if err := r.contributions.UpdateTotals(ctx, contributionID, totals, actorID); err != nil {
		return contribution.ContributionTotals{}, shared.WrapPersistence("update contribution totals", err)
	}

	r.logger.Debug("contribution totals recalculated",
		zap.String("contribution_id", contributionID.String()),
		zap.String("total_amount", totals.TotalAmount.String()),
		zap.String("avg_contribution", totals.AvgContribution.String()),
	)
	return totals, nil
}
