package billing

import (
	"testing"
	"time"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	actorID := uuid.New()

	t.Run("aggregate fields start at zero", func(t *testing.T) {
		event, err := NewEvent("Spring fair", "Annual fundraiser", time.Now(), actorID)
		require.NoError(t, err)
		assert.True(t, event.Spent.IsZero())
		assert.True(t, event.TotalAmount.IsZero())
		assert.True(t, event.Profit.IsZero())
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewEvent("", "", time.Now(), actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects missing actor", func(t *testing.T) {
		_, err := NewEvent("Spring fair", "", time.Now(), uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestSumLineFinancials(t *testing.T) {
	d := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	t.Run("sums spend and sales across groups", func(t *testing.T) {
		billings := []LineFinancials{
			{SpentIn: d(10), TotalSales: d(20)},
			{SpentIn: d(5), TotalSales: d(15)},
		}
		stocks := []LineFinancials{
			{SpentIn: d(7), TotalSales: d(3)},
		}
		totals := SumLineFinancials(billings, stocks)
		assert.True(t, totals.Spent.Equal(d(22)))
		assert.True(t, totals.TotalAmount.Equal(d(38)))
		assert.True(t, totals.Profit.Equal(d(16)))
	})

	t.Run("no children yields zeros", func(t *testing.T) {
		totals := SumLineFinancials(nil, nil)
		assert.True(t, totals.Spent.IsZero())
		assert.True(t, totals.TotalAmount.IsZero())
		assert.True(t, totals.Profit.IsZero())
	})

	t.Run("missing figures count as zero", func(t *testing.T) {
		lines := []LineFinancials{{}, {SpentIn: d(4)}}
		totals := SumLineFinancials(lines)
		assert.True(t, totals.Spent.Equal(d(4)))
		assert.True(t, totals.TotalAmount.IsZero())
		assert.True(t, totals.Profit.Equal(d(-4)))
	})

	t.Run("is deterministic", func(t *testing.T) {
		lines := []LineFinancials{{SpentIn: d(1), TotalSales: d(9)}}
		first := SumLineFinancials(lines)
		second := SumLineFinancials(lines)
		assert.True(t, first.Profit.Equal(second.Profit))
		assert.True(t, first.Spent.Equal(second.Spent))
	})
}

func TestEvent_ApplyTotals(t *testing.T) {
	actorID := uuid.New()
	event, err := NewEvent("Spring fair", "", time.Now(), actorID)
	require.NoError(t, err)

	other := uuid.New()
	event.ApplyTotals(EventTotals{
		Spent:       decimal.NewFromInt(15),
		TotalAmount: decimal.NewFromInt(35),
		Profit:      decimal.NewFromInt(20),
	}, other)

	assert.True(t, event.Spent.Equal(decimal.NewFromInt(15)))
	assert.True(t, event.TotalAmount.Equal(decimal.NewFromInt(35)))
	assert.True(t, event.Profit.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, other, event.UpdatedBy)
}
