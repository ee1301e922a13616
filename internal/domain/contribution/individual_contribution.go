package contribution

import (
	"strings"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IndividualContribution is a single payment into a contribution drive
type IndividualContribution struct {
	shared.AuditedEntity
	ContributionID  uuid.UUID
	ContributorName string
	Amount          decimal.Decimal
}

// NewIndividualContribution creates a validated individual contribution
func NewIndividualContribution(contributionID uuid.UUID, contributorName string, amount decimal.Decimal, actorID uuid.UUID) (*IndividualContribution, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if contributionID == uuid.Nil || strings.TrimSpace(contributorName) == "" {
		return nil, shared.ErrInvalidInput
	}
	if amount.IsNegative() {
		return nil, shared.ErrInvalidInput
	}
	return &IndividualContribution{
		AuditedEntity:   shared.NewAuditedEntity(actorID),
		ContributionID:  contributionID,
		ContributorName: contributorName,
		Amount:          amount,
	}, nil
}

// IndividualContributionUpdate is a partial update. The owning drive can
// never be changed through an update.
type IndividualContributionUpdate struct {
	ContributorName *string
	Amount          *decimal.Decimal
}

// Apply merges a partial update into the contribution
func (ic *IndividualContribution) Apply(update IndividualContributionUpdate, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if update.ContributorName != nil {
		if strings.TrimSpace(*update.ContributorName) == "" {
			return shared.ErrInvalidInput
		}
		ic.ContributorName = *update.ContributorName
	}
	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return shared.ErrInvalidInput
		}
		ic.Amount = *update.Amount
	}
	ic.Touch(actorID)
	return nil
}
