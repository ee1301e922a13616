package graduation

import (
	"testing"
	"time"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraduation(t *testing.T) {
	actorID := uuid.New()

	t.Run("collected total starts at zero", func(t *testing.T) {
		g, err := NewGraduation("Class of 2026", 2026, decimal.NewFromInt(5000), actorID)
		require.NoError(t, err)
		assert.True(t, g.TotalCollected.IsZero())
	})

	t.Run("rejects invalid year", func(t *testing.T) {
		_, err := NewGraduation("Class of 2026", 0, decimal.Zero, actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects negative target", func(t *testing.T) {
		_, err := NewGraduation("Class of 2026", 2026, decimal.NewFromInt(-1), actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestNewPayment(t *testing.T) {
	actorID := uuid.New()
	fundID := uuid.New()

	t.Run("defaults paid-at to now", func(t *testing.T) {
		p, err := NewPayment(fundID, nil, "Fam. Oliveira", decimal.NewFromInt(120), time.Time{}, actorID)
		require.NoError(t, err)
		assert.False(t, p.PaidAt.IsZero())
		assert.Nil(t, p.StudentID)
	})

	t.Run("carries optional student link", func(t *testing.T) {
		studentID := uuid.New()
		p, err := NewPayment(fundID, &studentID, "Fam. Oliveira", decimal.NewFromInt(120), time.Now(), actorID)
		require.NoError(t, err)
		require.NotNil(t, p.StudentID)
		assert.Equal(t, studentID, *p.StudentID)
	})

	t.Run("rejects missing fund", func(t *testing.T) {
		_, err := NewPayment(uuid.Nil, nil, "Fam. Oliveira", decimal.NewFromInt(120), time.Now(), actorID)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestPayment_Apply(t *testing.T) {
	actorID := uuid.New()
	fundID := uuid.New()
	p, err := NewPayment(fundID, nil, "Fam. Oliveira", decimal.NewFromInt(120), time.Now(), actorID)
	require.NoError(t, err)

	t.Run("owning fund is untouched by updates", func(t *testing.T) {
		amount := decimal.NewFromInt(150)
		require.NoError(t, p.Apply(PaymentUpdate{Amount: &amount}, actorID))
		assert.Equal(t, fundID, p.GraduationID)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(150)))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		bad := decimal.NewFromInt(-1)
		assert.ErrorIs(t, p.Apply(PaymentUpdate{Amount: &bad}, actorID), shared.ErrInvalidInput)
	})
}
