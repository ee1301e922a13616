package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContributionRepository implements contribution.ContributionRepository
// using GORM
type GormContributionRepository struct {
	db *gorm.DB
}

// NewGormContributionRepository creates a new GormContributionRepository
func NewGormContributionRepository(db *gorm.DB) *GormContributionRepository {
	return &GormContributionRepository{db: db}
}

var contributionSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// FindByID finds a contribution drive by its ID
func (r *GormContributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*contribution.Contribution, error) {
	var model models.ContributionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds drives matching the filter
func (r *GormContributionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contribution.Contribution, error) {
	query := r.db.WithContext(ctx).Model(&models.ContributionModel{})
	query = applySearch(query, filter, "name", "description")
	query = applySort(query, filter, contributionSortColumns)
	query = applyPagination(query, filter)

	var rows []models.ContributionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	drives := make([]contribution.Contribution, len(rows))
	for i := range rows {
		drives[i] = *rows[i].ToDomain()
	}
	return drives, nil
}

// Count counts drives matching the filter
func (r *GormContributionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&models.ContributionModel{}), filter, "name", "description")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a drive
func (r *GormContributionRepository) Save(ctx context.Context, c *contribution.Contribution) error {
	var model models.ContributionModel
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(&model).Error
}

// UpdateTotals writes the derived aggregate columns in a single update
func (r *GormContributionRepository) UpdateTotals(ctx context.Context, id uuid.UUID, totals contribution.ContributionTotals, actorID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ContributionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_amount":     totals.TotalAmount,
			"avg_contribution": totals.AvgContribution,
			"updated_at":       time.Now(),
			"updated_by":       actorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a drive. Its individual contributions go with it via
// cascading foreign keys.
func (r *GormContributionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContributionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ contribution.ContributionRepository = (*GormContributionRepository)(nil)
