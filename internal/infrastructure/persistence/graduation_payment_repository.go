package persistence

import (
	"context"
	"errors"

	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGraduationPaymentRepository implements graduation.PaymentRepository
// using GORM
type GormGraduationPaymentRepository struct {
	db *gorm.DB
}

// NewGormGraduationPaymentRepository creates a new repository
func NewGormGraduationPaymentRepository(db *gorm.DB) *GormGraduationPaymentRepository {
	return &GormGraduationPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormGraduationPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*graduation.Payment, error) {
	var model models.GraduationPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGraduation finds all payments under a fund
func (r *GormGraduationPaymentRepository) FindByGraduation(ctx context.Context, graduationID uuid.UUID) ([]graduation.Payment, error) {
	var rows []models.GraduationPaymentModel
	if err := r.db.WithContext(ctx).
		Where("graduation_id = ?", graduationID).
		Order("paid_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]graduation.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

// SumByGraduation folds the amounts database-side. A fund with no payments
// sums to zero rather than NULL.
func (r *GormGraduationPaymentRepository) SumByGraduation(ctx context.Context, graduationID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.GraduationPaymentModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("graduation_id = ?", graduationID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save creates or updates a payment
func (r *GormGraduationPaymentRepository) Save(ctx context.Context, p *graduation.Payment) error {
	var model models.GraduationPaymentModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(&model).Error
}

// DeleteReturningGraduation removes the payment and reports the owning fund
// id taken from the deleted row. A missing row yields uuid.Nil with no error.
func (r *GormGraduationPaymentRepository) DeleteReturningGraduation(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted []models.GraduationPaymentModel
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "graduation_id"}}}).
		Where("id = ?", id).
		Delete(&deleted)
	if result.Error != nil {
		return uuid.Nil, result.Error
	}
	if len(deleted) == 0 {
		return uuid.Nil, nil
	}
	return deleted[0].GraduationID, nil
}

var _ graduation.PaymentRepository = (*GormGraduationPaymentRepository)(nil)
