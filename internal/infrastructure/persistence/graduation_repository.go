package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormGraduationRepository implements graduation.GraduationRepository using GORM
type GormGraduationRepository struct {
	db *gorm.DB
}

// NewGormGraduationRepository creates a new GormGraduationRepository
func NewGormGraduationRepository(db *gorm.DB) *GormGraduationRepository {
	return &GormGraduationRepository{db: db}
}

var graduationSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"year":       true,
}

// FindByID finds a graduation fund by its ID
func (r *GormGraduationRepository) FindByID(ctx context.Context, id uuid.UUID) (*graduation.Graduation, error) {
	var model models.GraduationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds funds matching the filter
func (r *GormGraduationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]graduation.Graduation, error) {
	query := r.db.WithContext(ctx).Model(&models.GraduationModel{})
	query = applySearch(query, filter, "name")
	query = applySort(query, filter, graduationSortColumns)
	query = applyPagination(query, filter)

	var rows []models.GraduationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	funds := make([]graduation.Graduation, len(rows))
	for i := range rows {
		funds[i] = *rows[i].ToDomain()
	}
	return funds, nil
}

// Count counts funds matching the filter
func (r *GormGraduationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&models.GraduationModel{}), filter, "name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a fund
func (r *GormGraduationRepository) Save(ctx context.Context, g *graduation.Graduation) error {
	var model models.GraduationModel
	model.FromDomain(g)
	return r.db.WithContext(ctx).Save(&model).Error
}

// UpdateCollectedTotal writes the derived total in a single update
func (r *GormGraduationRepository) UpdateCollectedTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal, actorID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.GraduationModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_collected": total,
			"updated_at":      time.Now(),
			"updated_by":      actorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a fund. Its payments go with it via cascading foreign keys.
func (r *GormGraduationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.GraduationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ graduation.GraduationRepository = (*GormGraduationRepository)(nil)
