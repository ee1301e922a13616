package persistence

import (
	"context"
	"errors"

	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormIndividualContributionRepository implements
// contribution.IndividualContributionRepository using GORM
type GormIndividualContributionRepository struct {
	db *gorm.DB
}

// NewGormIndividualContributionRepository creates a new repository
func NewGormIndividualContributionRepository(db *gorm.DB) *GormIndividualContributionRepository {
	return &GormIndividualContributionRepository{db: db}
}

// FindByID finds an individual contribution by its ID
func (r *GormIndividualContributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*contribution.IndividualContribution, error) {
	var model models.IndividualContributionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContribution finds all payments under a drive
func (r *GormIndividualContributionRepository) FindByContribution(ctx context.Context, contributionID uuid.UUID) ([]contribution.IndividualContribution, error) {
	var rows []models.IndividualContributionModel
	if err := r.db.WithContext(ctx).
		Where("contribution_id = ?", contributionID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]contribution.IndividualContribution, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments, nil
}

// SumByContribution folds the amounts database-side. An empty drive sums to
// zero rather than NULL.
func (r *GormIndividualContributionRepository) SumByContribution(ctx context.Context, contributionID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.IndividualContributionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("contribution_id = ?", contributionID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save creates or updates an individual contribution
func (r *GormIndividualContributionRepository) Save(ctx context.Context, ic *contribution.IndividualContribution) error {
	var model models.IndividualContributionModel
	model.FromDomain(ic)
	return r.db.WithContext(ctx).Save(&model).Error
}

// DeleteReturningContribution removes the payment and reports the owning
// drive id taken from the deleted row. A missing row yields uuid.Nil with no
// error.
func (r *GormIndividualContributionRepository) DeleteReturningContribution(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted []models.IndividualContributionModel
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "contribution_id"}}}).
		Where("id = ?", id).
		Delete(&deleted)
	if result.Error != nil {
		return uuid.Nil, result.Error
	}
	if len(deleted) == 0 {
		return uuid.Nil, nil
	}
	return deleted[0].ContributionID, nil
}

var _ contribution.IndividualContributionRepository = (*GormIndividualContributionRepository)(nil)
