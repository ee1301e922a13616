package contribution

import (
	"testing"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name      string
		total     string
		dividedBy int64
		wantAvg   string
	}{
		{"exact division", "100", 4, "25"},
		{"repeating decimal rounds half up to two places", "100", 3, "33.33"},
		{"half rounds up", "0.125", 1, "0.13"},
		{"two thirds rounds up", "200", 3, "66.67"},
		{"zero total", "0", 5, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := ComputeTotals(decimal.RequireFromString(tt.total), tt.dividedBy)
			require.NoError(t, err)
			assert.True(t, totals.AvgContribution.Equal(decimal.RequireFromString(tt.wantAvg)),
				"got %s, want %s", totals.AvgContribution, tt.wantAvg)
			assert.True(t, totals.TotalAmount.Equal(decimal.RequireFromString(tt.total)))
		})
	}

	t.Run("rejects non-positive divisor", func(t *testing.T) {
		_, err := ComputeTotals(decimal.NewFromInt(100), 0)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestNewContribution(t *testing.T) {
	actorID := uuid.New()

	t.Run("derived fields start at zero", func(t *testing.T) {
		c, err := NewContribution("Class trip", "", 30, actorID)
		require.NoError(t, err)
		assert.True(t, c.TotalAmount.IsZero())
		assert.True(t, c.AvgContribution.IsZero())
		assert.Equal(t, int64(30), c.DividedBy)
	})

	t.Run("rejects zero divisor", func(t *testing.T) {
		_, err := NewContribution("Class trip", "", 0, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects missing actor", func(t *testing.T) {
		_, err := NewContribution("Class trip", "", 30, uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestIndividualContribution(t *testing.T) {
	actorID := uuid.New()
	driveID := uuid.New()

	t.Run("create validates amount", func(t *testing.T) {
		_, err := NewIndividualContribution(driveID, "Fam. Silva", decimal.NewFromInt(-5), actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("update cannot move the payment to another drive", func(t *testing.T) {
		ic, err := NewIndividualContribution(driveID, "Fam. Silva", decimal.NewFromInt(50), actorID)
		require.NoError(t, err)

		amount := decimal.NewFromInt(75)
		require.NoError(t, ic.Apply(IndividualContributionUpdate{Amount: &amount}, actorID))
		assert.Equal(t, driveID, ic.ContributionID)
		assert.True(t, ic.Amount.Equal(decimal.NewFromInt(75)))
	})

	t.Run("update rejects blank contributor", func(t *testing.T) {
		ic, err := NewIndividualContribution(driveID, "Fam. Silva", decimal.NewFromInt(50), actorID)
		require.NoError(t, err)
		blank := " "
		assert.ErrorIs(t, ic.Apply(IndividualContributionUpdate{ContributorName: &blank}, actorID), shared.ErrInvalidInput)
	})
}
