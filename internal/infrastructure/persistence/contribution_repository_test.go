package persistence

import (
	"context"
	"testing"

	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedContribution(t *testing.T, repo *GormContributionRepository, actorID uuid.UUID) *contribution.Contribution {
	t.Helper()
	drive, err := contribution.NewContribution("Class trip", "spring term", 3, actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), drive))
	return drive
}

func TestGormContributionRepository_UpdateTotals(t *testing.T) {
	db := testDB(t)
	repo := NewGormContributionRepository(db)
	actorID := uuid.New()
	drive := seedContribution(t, repo, actorID)

	totals, err := contribution.ComputeTotals(decimal.NewFromInt(100), drive.DividedBy)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateTotals(context.Background(), drive.ID, totals, actorID))

	got, err := repo.FindByID(context.Background(), drive.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, got.AvgContribution.Equal(decimal.RequireFromString("33.33")), "avg %s", got.AvgContribution)
}

func TestGormIndividualContributionRepository_Sum(t *testing.T) {
	db := testDB(t)
	drives := NewGormContributionRepository(db)
	payments := NewGormIndividualContributionRepository(db)
	actorID := uuid.New()
	drive := seedContribution(t, drives, actorID)

	total, err := payments.SumByContribution(context.Background(), drive.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "empty drive sums to zero, got %s", total)

	for _, amount := range []int64{30, 45, 25} {
		p, err := contribution.NewIndividualContribution(drive.ID, "Fam. Lima", decimal.NewFromInt(amount), actorID)
		require.NoError(t, err)
		require.NoError(t, payments.Save(context.Background(), p))
	}

	total, err = payments.SumByContribution(context.Background(), drive.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(100)), "sum %s", total)
}

func TestGormIndividualContributionRepository_DeleteReturning(t *testing.T) {
	db := testDB(t)
	drives := NewGormContributionRepository(db)
	payments := NewGormIndividualContributionRepository(db)
	actorID := uuid.New()
	drive := seedContribution(t, drives, actorID)

	p, err := contribution.NewIndividualContribution(drive.ID, "Fam. Lima", decimal.NewFromInt(30), actorID)
	require.NoError(t, err)
	require.NoError(t, payments.Save(context.Background(), p))

	driveID, err := payments.DeleteReturningContribution(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, drive.ID, driveID)

	driveID, err = payments.DeleteReturningContribution(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, driveID)
}

func TestGormContributionRepository_List(t *testing.T) {
	db := testDB(t)
	repo := NewGormContributionRepository(db)
	actorID := uuid.New()

	seedContribution(t, repo, actorID)
	other, err := contribution.NewContribution("Library fund", "", 10, actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), other))

	filter := shared.DefaultFilter()
	filter.Search = "library"
	drives, err := repo.FindAll(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, drives, 1)
	assert.Equal(t, "Library fund", drives[0].Name)

	count, err := repo.Count(context.Background(), shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
