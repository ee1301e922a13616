package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, repo *GormEventRepository, actorID uuid.UUID) *billing.Event {
	t.Helper()
	event, err := billing.NewEvent("Festa Junina", "annual fair", time.Now(), actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), event))
	return event
}

func TestGormEventRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewGormEventRepository(db)
	actorID := uuid.New()

	event := seedEvent(t, repo, actorID)

	got, err := repo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Name, got.Name)
	assert.True(t, got.Spent.IsZero())
	assert.True(t, got.Profit.IsZero())

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEventRepository_UpdateTotals(t *testing.T) {
	db := testDB(t)
	repo := NewGormEventRepository(db)
	actorID := uuid.New()
	event := seedEvent(t, repo, actorID)

	totals := billing.EventTotals{
		Spent:       decimal.NewFromInt(200),
		TotalAmount: decimal.NewFromInt(600),
		Profit:      decimal.NewFromInt(400),
	}
	require.NoError(t, repo.UpdateTotals(context.Background(), event.ID, totals, actorID))

	got, err := repo.FindByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.True(t, got.Spent.Equal(decimal.NewFromInt(200)))
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, got.Profit.Equal(decimal.NewFromInt(400)))

	err = repo.UpdateTotals(context.Background(), uuid.New(), totals, actorID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormBillingLineRepository_Financials(t *testing.T) {
	db := testDB(t)
	events := NewGormEventRepository(db)
	lines := NewGormBillingLineRepository(db)
	actorID := uuid.New()
	event := seedEvent(t, events, actorID)

	l1, err := billing.NewBillingLine(event.ID, "cups", decimal.NewFromInt(50), decimal.NewFromInt(3), 100, 40, actorID)
	require.NoError(t, err)
	l2, err := billing.NewBillingLine(event.ID, "cake", decimal.NewFromInt(150), decimal.NewFromInt(10), 30, 0, actorID)
	require.NoError(t, err)
	require.NoError(t, lines.Save(context.Background(), l1))
	require.NoError(t, lines.Save(context.Background(), l2))

	fins, err := lines.FinancialsByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, fins, 2)

	totals := billing.SumLineFinancials(fins)
	assert.True(t, totals.Spent.Equal(decimal.NewFromInt(200)), "spent %s", totals.Spent)
	assert.True(t, totals.TotalAmount.Equal(decimal.NewFromInt(480)), "sales %s", totals.TotalAmount)
	assert.True(t, totals.Profit.Equal(decimal.NewFromInt(280)), "profit %s", totals.Profit)

	empty, err := lines.FinancialsByEvent(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormBillingLineRepository_DeleteReturningEvent(t *testing.T) {
	db := testDB(t)
	events := NewGormEventRepository(db)
	lines := NewGormBillingLineRepository(db)
	actorID := uuid.New()
	event := seedEvent(t, events, actorID)

	line, err := billing.NewBillingLine(event.ID, "cups", decimal.NewFromInt(50), decimal.NewFromInt(3), 100, 40, actorID)
	require.NoError(t, err)
	require.NoError(t, lines.Save(context.Background(), line))

	eventID, err := lines.DeleteReturningEvent(context.Background(), line.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, eventID, "delete must report the owning event from the deleted row")

	eventID, err = lines.DeleteReturningEvent(context.Background(), line.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, eventID, "a second delete hits no row")
}

func TestGormStockLineRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	events := NewGormEventRepository(db)
	lines := NewGormStockLineRepository(db)
	actorID := uuid.New()
	event := seedEvent(t, events, actorID)

	line, err := billing.NewStockLine(event.ID, "soda crates", decimal.NewFromInt(80), decimal.NewFromInt(5), 20, 5, actorID)
	require.NoError(t, err)
	require.NoError(t, lines.Save(context.Background(), line))

	got, err := lines.FindByID(context.Background(), line.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.EventID)
	assert.True(t, got.TotalSales.Equal(decimal.NewFromInt(75)))

	byEvent, err := lines.FindByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, byEvent, 1)
}
