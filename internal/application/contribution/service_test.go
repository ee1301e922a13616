package contribution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockContributionRepo is a mock implementation of contribution.ContributionRepository
type mockContributionRepo struct {
	mock.Mock
}

func (m *mockContributionRepo) FindByID(ctx context.Context, id uuid.UUID) (*contribution.Contribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contribution.Contribution), args.Error(1)
}

func (m *mockContributionRepo) FindAll(ctx context.Context, filter shared.Filter) ([]contribution.Contribution, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contribution.Contribution), args.Error(1)
}

func (m *mockContributionRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockContributionRepo) Save(ctx context.Context, c *contribution.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockContributionRepo) UpdateTotals(ctx context.Context, id uuid.UUID, totals contribution.ContributionTotals, actorID uuid.UUID) error {
	args := m.Called(ctx, id, totals, actorID)
	return args.Error(0)
}

func (m *mockContributionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockIndividualRepo is a mock implementation of contribution.IndividualContributionRepository
type mockIndividualRepo struct {
	mock.Mock
}

func (m *mockIndividualRepo) FindByID(ctx context.Context, id uuid.UUID) (*contribution.IndividualContribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contribution.IndividualContribution), args.Error(1)
}

func (m *mockIndividualRepo) FindByContribution(ctx context.Context, contributionID uuid.UUID) ([]contribution.IndividualContribution, error) {
	args := m.Called(ctx, contributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contribution.IndividualContribution), args.Error(1)
}

func (m *mockIndividualRepo) SumByContribution(ctx context.Context, contributionID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, contributionID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockIndividualRepo) Save(ctx context.Context, ic *contribution.IndividualContribution) error {
	args := m.Called(ctx, ic)
	return args.Error(0)
}

func (m *mockIndividualRepo) DeleteReturningContribution(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func newDrive(t *testing.T, dividedBy int64) *contribution.Contribution {
	t.Helper()
	drive, err := contribution.NewContribution("Class trip", "", dividedBy, uuid.New())
	require.NoError(t, err)
	return drive
}

func TestRecalculator_Recalculate(t *testing.T) {
	actorID := uuid.New()

	t.Run("average uses half-up rounding to two places", func(t *testing.T) {
		contributions := new(mockContributionRepo)
		individuals := new(mockIndividualRepo)
		recalc := NewRecalculator(contributions, individuals, zap.NewNop())

		drive := newDrive(t, 3)
		individuals.On("SumByContribution", mock.Anything, drive.ID).Return(decimal.NewFromInt(100), nil)
		contributions.On("FindByID", mock.Anything, drive.ID).Return(drive, nil)
		contributions.On("UpdateTotals", mock.Anything, drive.ID, mock.MatchedBy(func(tt contribution.ContributionTotals) bool {
			return tt.TotalAmount.Equal(decimal.NewFromInt(100)) &&
				tt.AvgContribution.Equal(decimal.RequireFromString("33.33"))
		}), actorID).Return(nil)

		totals, err := recalc.Recalculate(context.Background(), drive.ID, actorID)
		require.NoError(t, err)
		assert.Equal(t, "33.33", totals.AvgContribution.StringFixed(2))
		contributions.AssertExpectations(t)
	})

	t.Run("empty drive recomputes to zeros", func(t *testing.T) {
		contributions := new(mockContributionRepo)
		individuals := new(mockIndividualRepo)
		recalc := NewRecalculator(contributions, individuals, zap.NewNop())

		drive := newDrive(t, 30)
		individuals.On("SumByContribution", mock.Anything, drive.ID).Return(decimal.Zero, nil)
		contributions.On("FindByID", mock.Anything, drive.ID).Return(drive, nil)
		contributions.On("UpdateTotals", mock.Anything, drive.ID, mock.MatchedBy(func(tt contribution.ContributionTotals) bool {
			return tt.TotalAmount.IsZero() && tt.AvgContribution.IsZero()
		}), actorID).Return(nil)

		_, err := recalc.Recalculate(context.Background(), drive.ID, actorID)
		require.NoError(t, err)
	})

	t.Run("missing drive is not found", func(t *testing.T) {
		contributions := new(mockContributionRepo)
		individuals := new(mockIndividualRepo)
		recalc := NewRecalculator(contributions, individuals, zap.NewNop())

		id := uuid.New()
		individuals.On("SumByContribution", mock.Anything, id).Return(decimal.Zero, nil)
		contributions.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := recalc.Recalculate(context.Background(), id, actorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		contributions.AssertNotCalled(t, "UpdateTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("backend failure on sum is a persistence error", func(t *testing.T) {
		contributions := new(mockContributionRepo)
		individuals := new(mockIndividualRepo)
		recalc := NewRecalculator(contributions, individuals, zap.NewNop())

		id := uuid.New()
		individuals.On("SumByContribution", mock.Anything, id).Return(decimal.Zero, errors.New("timeout"))

		_, err := recalc.Recalculate(context.Background(), id, actorID)
		assert.ErrorIs(t, err, shared.ErrPersistence)
	})
}

func newIndividualFixture() (*mockContributionRepo, *mockIndividualRepo, *IndividualService) {
	contributions := new(mockContributionRepo)
	individuals := new(mockIndividualRepo)
	recalc := NewRecalculator(contributions, individuals, zap.NewNop())
	svc := NewIndividualService(individuals, contributions, recalc, shared.NewKeyedMutex(), 5*time.Second, zap.NewNop())
	return contributions, individuals, svc
}

func TestIndividualService_Create(t *testing.T) {
	actorID := uuid.New()

	t.Run("insert then recompute", func(t *testing.T) {
		contributions, individuals, svc := newIndividualFixture()
		drive := newDrive(t, 4)

		contributions.On("FindByID", mock.Anything, drive.ID).Return(drive, nil)
		individuals.On("Save", mock.Anything, mock.Anything).Return(nil)
		individuals.On("SumByContribution", mock.Anything, drive.ID).Return(decimal.NewFromInt(100), nil)
		contributions.On("UpdateTotals", mock.Anything, drive.ID, mock.MatchedBy(func(tt contribution.ContributionTotals) bool {
			return tt.AvgContribution.Equal(decimal.NewFromInt(25))
		}), actorID).Return(nil)

		ic, err := svc.Create(context.Background(), CreateIndividualInput{
			ContributionID:  drive.ID,
			ContributorName: "Fam. Silva",
			Amount:          decimal.NewFromInt(100),
		}, actorID)
		require.NoError(t, err)
		assert.Equal(t, drive.ID, ic.ContributionID)
		contributions.AssertExpectations(t)
	})

	t.Run("recompute failure surfaces after the insert", func(t *testing.T) {
		contributions, individuals, svc := newIndividualFixture()
		drive := newDrive(t, 4)

		contributions.On("FindByID", mock.Anything, drive.ID).Return(drive, nil)
		individuals.On("Save", mock.Anything, mock.Anything).Return(nil)
		individuals.On("SumByContribution", mock.Anything, drive.ID).Return(decimal.Zero, errors.New("broken pipe"))

		_, err := svc.Create(context.Background(), CreateIndividualInput{
			ContributionID:  drive.ID,
			ContributorName: "Fam. Silva",
			Amount:          decimal.NewFromInt(100),
		}, actorID)
		assert.ErrorIs(t, err, shared.ErrPersistence)
		individuals.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestIndividualService_Delete(t *testing.T) {
	actorID := uuid.New()

	t.Run("uses the drive id returned by the delete", func(t *testing.T) {
		contributions, individuals, svc := newIndividualFixture()
		drive := newDrive(t, 2)
		ic, err := contribution.NewIndividualContribution(drive.ID, "Fam. Silva", decimal.NewFromInt(40), actorID)
		require.NoError(t, err)

		individuals.On("FindByID", mock.Anything, ic.ID).Return(ic, nil)
		individuals.On("DeleteReturningContribution", mock.Anything, ic.ID).Return(drive.ID, nil)
		individuals.On("SumByContribution", mock.Anything, drive.ID).Return(decimal.NewFromInt(60), nil)
		contributions.On("FindByID", mock.Anything, drive.ID).Return(drive, nil)
		contributions.On("UpdateTotals", mock.Anything, drive.ID, mock.MatchedBy(func(tt contribution.ContributionTotals) bool {
			return tt.TotalAmount.Equal(decimal.NewFromInt(60)) &&
				tt.AvgContribution.Equal(decimal.NewFromInt(30))
		}), actorID).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), ic.ID, actorID))
		contributions.AssertExpectations(t)
	})

	t.Run("second delete is not found and skips recompute", func(t *testing.T) {
		contributions, individuals, svc := newIndividualFixture()
		id := uuid.New()
		individuals.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		err := svc.Delete(context.Background(), id, actorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		contributions.AssertNotCalled(t, "UpdateTotals", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Resync(t *testing.T) {
	actorID := uuid.New()

	t.Run("recomputes without a preceding mutation", func(t *testing.T) {
		contributions := new(mockContributionRepo)
		individuals := new(mockIndividualRepo)
		recalc := NewRecalculator(contributions, individuals, zap.NewNop())
		svc := NewService(contributions, recalc, shared.NewKeyedMutex(), 5*time.Second, zap.NewNop())

		drive := newDrive(t, 3)
		individuals.On("SumByContribution", mock.Anything, drive.ID).Return(decimal.NewFromInt(200), nil)
		contributions.On("FindByID", mock.Anything, drive.ID).Return(drive, nil)
		contributions.On("UpdateTotals", mock.Anything, drive.ID, mock.Anything, actorID).Return(nil).Twice()

		first, err := svc.Resync(context.Background(), drive.ID, actorID)
		require.NoError(t, err)
		second, err := svc.Resync(context.Background(), drive.ID, actorID)
		require.NoError(t, err)
		assert.True(t, first.AvgContribution.Equal(second.AvgContribution))
		assert.Equal(t, "66.67", first.AvgContribution.StringFixed(2))
	})

	t.Run("missing actor is unauthorized", func(t *testing.T) {
		contributions := new(mockContributionRepo)
		individuals := new(mockIndividualRepo)
		recalc := NewRecalculator(contributions, individuals, zap.NewNop())
		svc := NewService(contributions, recalc, shared.NewKeyedMutex(), 5*time.Second, zap.NewNop())

		_, err := svc.Resync(context.Background(), uuid.New(), uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}
