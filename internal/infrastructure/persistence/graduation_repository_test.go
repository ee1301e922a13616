package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/schoolfund/backend/internal/domain/school"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGraduation(t *testing.T, repo *GormGraduationRepository, actorID uuid.UUID) *graduation.Graduation {
	t.Helper()
	fund, err := graduation.NewGraduation("Class of 2027", 2027, decimal.NewFromInt(5000), actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), fund))
	return fund
}

func TestGormGraduationPaymentRepository_SumAndDelete(t *testing.T) {
	db := testDB(t)
	funds := NewGormGraduationRepository(db)
	payments := NewGormGraduationPaymentRepository(db)
	actorID := uuid.New()
	fund := seedGraduation(t, funds, actorID)

	p1, err := graduation.NewPayment(fund.ID, nil, "Fam. Oliveira", decimal.NewFromInt(120), time.Now(), actorID)
	require.NoError(t, err)
	p2, err := graduation.NewPayment(fund.ID, nil, "Fam. Costa", decimal.NewFromInt(80), time.Now(), actorID)
	require.NoError(t, err)
	require.NoError(t, payments.Save(context.Background(), p1))
	require.NoError(t, payments.Save(context.Background(), p2))

	total, err := payments.SumByGraduation(context.Background(), fund.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(200)), "sum %s", total)

	fundID, err := payments.DeleteReturningGraduation(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, fund.ID, fundID)

	total, err = payments.SumByGraduation(context.Background(), fund.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(80)), "sum after delete %s", total)
}

func TestGormGraduationPaymentRepository_StudentLink(t *testing.T) {
	db := testDB(t)
	funds := NewGormGraduationRepository(db)
	payments := NewGormGraduationPaymentRepository(db)
	students := NewGormStudentRepository(db)
	actorID := uuid.New()
	fund := seedGraduation(t, funds, actorID)

	student, err := school.NewStudent("Joana Prado", "3B", 2027, "Rui Prado", "+55 11 91234", actorID)
	require.NoError(t, err)
	require.NoError(t, students.Save(context.Background(), student))

	p, err := graduation.NewPayment(fund.ID, &student.ID, "Fam. Prado", decimal.NewFromInt(150), time.Now(), actorID)
	require.NoError(t, err)
	require.NoError(t, payments.Save(context.Background(), p))

	got, err := payments.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StudentID)
	assert.Equal(t, student.ID, *got.StudentID)
}

func TestGormGraduationRepository_UpdateCollectedTotal(t *testing.T) {
	db := testDB(t)
	funds := NewGormGraduationRepository(db)
	actorID := uuid.New()
	fund := seedGraduation(t, funds, actorID)

	require.NoError(t, funds.UpdateCollectedTotal(context.Background(), fund.ID, decimal.NewFromInt(320), actorID))

	got, err := funds.FindByID(context.Background(), fund.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalCollected.Equal(decimal.NewFromInt(320)))
	assert.True(t, got.TargetAmount.Equal(decimal.NewFromInt(5000)), "target is not touched by the recompute")
}
