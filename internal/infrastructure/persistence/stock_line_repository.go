package persistence

import (
	"context"
	"errors"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLineRepository implements billing.StockLineRepository using GORM
type GormStockLineRepository struct {
	db *gorm.DB
}

// NewGormStockLineRepository creates a new GormStockLineRepository
func NewGormStockLineRepository(db *gorm.DB) *GormStockLineRepository {
	return &GormStockLineRepository{db: db}
}

// FindByID finds a stock line by its ID
func (r *GormStockLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.StockLine, error) {
	var model models.StockLineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEvent finds all stock lines under an event
func (r *GormStockLineRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]billing.StockLine, error) {
	var rows []models.StockLineModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]billing.StockLine, len(rows))
	for i := range rows {
		lines[i] = *rows[i].ToDomain()
	}
	return lines, nil
}

// FinancialsByEvent reads only the aggregate-contributing columns of every
// stock line under the event
func (r *GormStockLineRepository) FinancialsByEvent(ctx context.Context, eventID uuid.UUID) ([]billing.LineFinancials, error) {
	var rows []financialsRow
	if err := r.db.WithContext(ctx).
		Model(&models.StockLineModel{}).
		Select("spent_in", "total_sales").
		Where("event_id = ?", eventID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toLineFinancials(rows), nil
}

// Save creates or updates a stock line
func (r *GormStockLineRepository) Save(ctx context.Context, line *billing.StockLine) error {
	var model models.StockLineModel
	model.FromDomain(line)
	return r.db.WithContext(ctx).Save(&model).Error
}

// DeleteReturningEvent removes the line and reports the owning event id taken
// from the deleted row. A missing row yields uuid.Nil with no error.
func (r *GormStockLineRepository) DeleteReturningEvent(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted []models.StockLineModel
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "event_id"}}}).
		Where("id = ?", id).
		Delete(&deleted)
	if result.Error != nil {
		return uuid.Nil, result.Error
	}
	if len(deleted) == 0 {
		return uuid.Nil, nil
	}
	return deleted[0].EventID, nil
}

var _ billing.StockLineRepository = (*GormStockLineRepository)(nil)
