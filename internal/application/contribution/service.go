package contribution

import (
	"context"
	"time"

	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func driveLockKey(contributionID uuid.UUID) string {
	return "contribution:" + contributionID.String()
}

// CreateContributionInput carries the fields for a new contribution drive
type CreateContributionInput struct {
	Name        string
	Description string
	DividedBy   int64
}

// Service manages contribution drives
type Service struct {
	contributions contribution.ContributionRepository
	recalc        *Recalculator
	locks         *shared.KeyedMutex
	opTimeout     time.Duration
	logger        *zap.Logger
}

// NewService creates a contribution Service
func NewService(
	contributions contribution.ContributionRepository,
	recalc *Recalculator,
	locks *shared.KeyedMutex,
	opTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		contributions: contributions,
		recalc:        recalc,
		locks:         locks,
		opTimeout:     opTimeout,
		logger:        logger,
	}
}

func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create creates a drive with derived fields at zero
func (s *Service) Create(ctx context.Context, input CreateContributionInput, actorID uuid.UUID) (*contribution.Contribution, error) {
	drive, err := contribution.NewContribution(input.Name, input.Description, input.DividedBy, actorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.contributions.Save(ctx, drive); err != nil {
		return nil, shared.WrapPersistence("insert contribution", err)
	}
	return drive, nil
}

// Get returns a single drive
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*contribution.Contribution, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	drive, err := s.contributions.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch contribution", err)
	}
	return drive, nil
}

// List returns drives with pagination
func (s *Service) List(ctx context.Context, filter shared.Filter) (shared.Paginated[contribution.Contribution], error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	drives, err := s.contributions.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[contribution.Contribution]{}, shared.WrapPersistence("list contributions", err)
	}
	total, err := s.contributions.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[contribution.Contribution]{}, shared.WrapPersistence("count contributions", err)
	}
	return shared.NewPaginated(drives, total, filter.Page, filter.Limit()), nil
}

// Update changes a drive's descriptive fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, name, description string, actorID uuid.UUID) (*contribution.Contribution, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	drive, err := s.contributions.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch contribution", err)
	}
	if err := drive.UpdateDetails(name, description, actorID); err != nil {
		return nil, err
	}
	if err := s.contributions.Save(ctx, drive); err != nil {
		return nil, shared.WrapPersistence("update contribution", err)
	}
	return drive, nil
}

// Delete removes a drive and its payments via cascading foreign keys
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return s.locks.WithLock(driveLockKey(id), func() error {
		if err := s.contributions.Delete(ctx, id); err != nil {
			return shared.WrapPersistence("delete contribution", err)
		}
		return nil
	})
}

// Resync recomputes the drive's aggregate without a preceding mutation
func (s *Service) Resync(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (contribution.ContributionTotals, error) {
	if actorID == uuid.Nil {
		return contribution.ContributionTotals{}, shared.ErrUnauthorized
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var totals contribution.ContributionTotals
	err := s.locks.WithLock(driveLockKey(id), func() error {
		var err error
		totals, err = s.recalc.Recalculate(ctx, id, actorID)
		return err
	})
	if err != nil {
		return contribution.ContributionTotals{}, err
	}

	s.logger.Info("contribution aggregate resynced",
		zap.String("contribution_id", id.String()),
		zap.String("actor_id", actorID.String()),
	)
	return totals, nil
}

// CreateIndividualInput carries the fields for a new individual contribution
type CreateIndividualInput struct {
	ContributionID  uuid.UUID
	ContributorName string
	Amount          decimal.Decimal
}

// IndividualService mutates individual contributions. Every successful
// mutation recomputes the owning drive; write and recompute are separate
// backend calls with no enclosing transaction.
type IndividualService struct {
	individuals   contribution.IndividualContributionRepository
	contributions contribution.ContributionRepository
	recalc        *Recalculator
	locks         *shared.KeyedMutex
	opTimeout     time.Duration
	logger        *zap.Logger
}

// NewIndividualService creates an IndividualService
func NewIndividualService(
	individuals contribution.IndividualContributionRepository,
	contributions contribution.ContributionRepository,
	recalc *Recalculator,
	locks *shared.KeyedMutex,
	opTimeout time.Duration,
	logger *zap.Logger,
) *IndividualService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndividualService{
		individuals:   individuals,
		contributions: contributions,
		recalc:        recalc,
		locks:         locks,
		opTimeout:     opTimeout,
		logger:        logger,
	}
}

func (s *IndividualService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create inserts a payment and recomputes the owning drive before returning
func (s *IndividualService) Create(ctx context.Context, input CreateIndividualInput, actorID uuid.UUID) (*contribution.IndividualContribution, error) {
	ic, err := contribution.NewIndividualContribution(input.ContributionID, input.ContributorName, input.Amount, actorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.contributions.FindByID(ctx, input.ContributionID); err != nil {
		return nil, shared.WrapPersistence("resolve contribution", err)
	}

	err = s.locks.WithLock(driveLockKey(input.ContributionID), func() error {
		if err := s.individuals.Save(ctx, ic); err != nil {
			return shared.WrapPersistence("insert individual contribution", err)
		}
		if _, err := s.recalc.Recalculate(ctx, ic.ContributionID, actorID); err != nil {
			s.logInconsistency("create", ic.ID, ic.ContributionID, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ic, nil
}

// Update merges a partial update and recomputes the drive resolved from the
// stored row, never from client input
func (s *IndividualService) Update(ctx context.Context, id uuid.UUID, update contribution.IndividualContributionUpdate, actorID uuid.UUID) (*contribution.IndividualContribution, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	ic, err := s.individuals.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch individual contribution", err)
	}
	if err := ic.Apply(update, actorID); err != nil {
		return nil, err
	}

	err = s.locks.WithLock(driveLockKey(ic.ContributionID), func() error {
		if err := s.individuals.Save(ctx, ic); err != nil {
			return shared.WrapPersistence("update individual contribution", err)
		}
		if _, err := s.recalc.Recalculate(ctx, ic.ContributionID, actorID); err != nil {
			s.logInconsistency("update", ic.ID, ic.ContributionID, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ic, nil
}

// Delete removes a payment and recomputes the drive identified by the
// deleted row's own foreign key
func (s *IndividualService) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	ic, err := s.individuals.FindByID(ctx, id)
	if err != nil {
		return shared.WrapPersistence("fetch individual contribution", err)
	}

	return s.locks.WithLock(driveLockKey(ic.ContributionID), func() error {
		contributionID, err := s.individuals.DeleteReturningContribution(ctx, id)
		if err != nil {
			return shared.WrapPersistence("delete individual contribution", err)
		}
		if contributionID == uuid.Nil {
			return shared.ErrNotFound
		}
		if _, err := s.recalc.Recalculate(ctx, contributionID, actorID); err != nil {
			s.logInconsistency("delete", id, contributionID, err)
			return err
		}
		return nil
	})
}

// ListByContribution returns all payments under a drive
func (s *IndividualService) ListByContribution(ctx context.Context, contributionID uuid.UUID) ([]contribution.IndividualContribution, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	ics, err := s.individuals.FindByContribution(ctx, contributionID)
	if err != nil {
		return nil, shared.WrapPersistence("list individual contributions", err)
	}
	return ics, nil
}

func (s *IndividualService) logInconsistency(op string, icID, contributionID uuid.UUID, err error) {
	s.logger.Warn("inconsistency window: individual contribution written but drive recompute failed",
		zap.String("operation", op),
		zap.String("individual_contribution_id", icID.String()),
		zap.String("contribution_id", contributionID.String()),
		zap.Error(err),
	)
}
