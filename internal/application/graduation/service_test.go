package graduation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockGraduationRepo is a mock implementation of graduation.GraduationRepository
type mockGraduationRepo struct {
	mock.Mock
}

func (m *mockGraduationRepo) FindByID(ctx context.Context, id uuid.UUID) (*graduation.Graduation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graduation.Graduation), args.Error(1)
}

func (m *mockGraduationRepo) FindAll(ctx context.Context, filter shared.Filter) ([]graduation.Graduation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graduation.Graduation), args.Error(1)
}

func (m *mockGraduationRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGraduationRepo) Save(ctx context.Context, g *graduation.Graduation) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGraduationRepo) UpdateCollectedTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal, actorID uuid.UUID) error {
	args := m.Called(ctx, id, total, actorID)
	return args.Error(0)
}

func (m *mockGraduationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockPaymentRepo is a mock implementation of graduation.PaymentRepository
type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*graduation.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graduation.Payment), args.Error(1)
}

func (m *mockPaymentRepo) FindByGraduation(ctx context.Context, graduationID uuid.UUID) ([]graduation.Payment, error) {
	args := m.Called(ctx, graduationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graduation.Payment), args.Error(1)
}

func (m *mockPaymentRepo) SumByGraduation(ctx context.Context, graduationID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, graduationID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *graduation.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPaymentRepo) DeleteReturningGraduation(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func newPaymentFixture() (*mockGraduationRepo, *mockPaymentRepo, *PaymentService) {
	graduations := new(mockGraduationRepo)
	payments := new(mockPaymentRepo)
	recalc := NewRecalculator(graduations, payments, zap.NewNop())
	svc := NewPaymentService(payments, graduations, recalc, shared.NewKeyedMutex(), 5*time.Second, zap.NewNop())
	return graduations, payments, svc
}

func amountEqual(v int64) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(v))
	})
}

func TestPaymentService_Create(t *testing.T) {
	actorID := uuid.New()
	fundID := uuid.New()

	input := CreatePaymentInput{
		GraduationID: fundID,
		PayerName:    "Fam. Oliveira",
		Amount:       decimal.NewFromInt(120),
		PaidAt:       time.Now(),
	}

	t.Run("insert then recompute collected total", func(t *testing.T) {
		graduations, payments, svc := newPaymentFixture()
		graduations.On("FindByID", mock.Anything, fundID).Return(&graduation.Graduation{}, nil)
		payments.On("Save", mock.Anything, mock.Anything).Return(nil)
		payments.On("SumByGraduation", mock.Anything, fundID).Return(decimal.NewFromInt(320), nil)
		graduations.On("UpdateCollectedTotal", mock.Anything, fundID, amountEqual(320), actorID).Return(nil)

		p, err := svc.Create(context.Background(), input, actorID)
		require.NoError(t, err)
		assert.Equal(t, fundID, p.GraduationID)
		graduations.AssertExpectations(t)
	})

	t.Run("unresolvable fund fails before any write", func(t *testing.T) {
		graduations, payments, svc := newPaymentFixture()
		graduations.On("FindByID", mock.Anything, fundID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(context.Background(), input, actorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("recompute failure surfaces after the insert", func(t *testing.T) {
		graduations, payments, svc := newPaymentFixture()
		graduations.On("FindByID", mock.Anything, fundID).Return(&graduation.Graduation{}, nil)
		payments.On("Save", mock.Anything, mock.Anything).Return(nil)
		payments.On("SumByGraduation", mock.Anything, fundID).Return(decimal.Zero, errors.New("timeout"))

		_, err := svc.Create(context.Background(), input, actorID)
		assert.ErrorIs(t, err, shared.ErrPersistence)
		payments.AssertCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Delete(t *testing.T) {
	actorID := uuid.New()
	fundID := uuid.New()

	t.Run("recomputes from the fund id returned by the delete", func(t *testing.T) {
		graduations, payments, svc := newPaymentFixture()
		p, err := graduation.NewPayment(fundID, nil, "Fam. Oliveira", decimal.NewFromInt(120), time.Now(), actorID)
		require.NoError(t, err)

		payments.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		payments.On("DeleteReturningGraduation", mock.Anything, p.ID).Return(fundID, nil)
		payments.On("SumByGraduation", mock.Anything, fundID).Return(decimal.NewFromInt(200), nil)
		graduations.On("UpdateCollectedTotal", mock.Anything, fundID, amountEqual(200), actorID).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), p.ID, actorID))
		graduations.AssertExpectations(t)
	})

	t.Run("second delete is not found and skips recompute", func(t *testing.T) {
		graduations, payments, svc := newPaymentFixture()
		id := uuid.New()
		payments.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		err := svc.Delete(context.Background(), id, actorID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		graduations.AssertNotCalled(t, "UpdateCollectedTotal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Resync(t *testing.T) {
	actorID := uuid.New()
	fundID := uuid.New()

	t.Run("idempotent with no intervening mutation", func(t *testing.T) {
		graduations := new(mockGraduationRepo)
		payments := new(mockPaymentRepo)
		recalc := NewRecalculator(graduations, payments, zap.NewNop())
		svc := NewService(graduations, recalc, shared.NewKeyedMutex(), 5*time.Second, zap.NewNop())

		payments.On("SumByGraduation", mock.Anything, fundID).Return(decimal.NewFromInt(500), nil)
		graduations.On("UpdateCollectedTotal", mock.Anything, fundID, amountEqual(500), actorID).Return(nil).Twice()

		first, err := svc.Resync(context.Background(), fundID, actorID)
		require.NoError(t, err)
		second, err := svc.Resync(context.Background(), fundID, actorID)
		require.NoError(t, err)
		assert.True(t, first.Equal(second))
	})

	t.Run("empty fund resyncs to zero", func(t *testing.T) {
		graduations := new(mockGraduationRepo)
		payments := new(mockPaymentRepo)
		recalc := NewRecalculator(graduations, payments, zap.NewNop())
		svc := NewService(graduations, recalc, shared.NewKeyedMutex(), 5*time.Second, zap.NewNop())

		payments.On("SumByGraduation", mock.Anything, fundID).Return(decimal.Zero, nil)
		graduations.On("UpdateCollectedTotal", mock.Anything, fundID, amountEqual(0), actorID).Return(nil)

		total, err := svc.Resync(context.Background(), fundID, actorID)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}
