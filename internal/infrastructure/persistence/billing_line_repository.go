package persistence

import (
	"context"
	"errors"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// financialsRow is the aggregate-contributing projection of a line
type financialsRow struct {
	SpentIn    decimal.Decimal
	TotalSales decimal.Decimal
}

func toLineFinancials(rows []financialsRow) []billing.LineFinancials {
	out := make([]billing.LineFinancials, len(rows))
	for i, row := range rows {
		out[i] = billing.LineFinancials{SpentIn: row.SpentIn, TotalSales: row.TotalSales}
	}
	return out
}

// GormBillingLineRepository implements billing.BillingLineRepository using GORM
type GormBillingLineRepository struct {
	db *gorm.DB
}

// NewGormBillingLineRepository creates a new GormBillingLineRepository
func NewGormBillingLineRepository(db *gorm.DB) *GormBillingLineRepository {
	return &GormBillingLineRepository{db: db}
}

// FindByID finds a billing line by its ID
func (r *GormBillingLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingLine, error) {
	var model models.BillingLineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEvent finds all billing lines under an event
func (r *GormBillingLineRepository) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]billing.BillingLine, error) {
	var rows []models.BillingLineModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	lines := make([]billing.BillingLine, len(rows))
	for i := range rows {
		lines[i] = *rows[i].ToDomain()
	}
	return lines, nil
}

// FinancialsByEvent reads only the aggregate-contributing columns of every
// billing line under the event
func (r *GormBillingLineRepository) FinancialsByEvent(ctx context.Context, eventID uuid.UUID) ([]billing.LineFinancials, error) {
	var rows []financialsRow
	if err := r.db.WithContext(ctx).
		Model(&models.BillingLineModel{}).
		Select("spent_in", "total_sales").
		Where("event_id = ?", eventID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toLineFinancials(rows), nil
}

// Save creates or updates a billing line
func (r *GormBillingLineRepository) Save(ctx context.Context, line *billing.BillingLine) error {
	var model models.BillingLineModel
	model.FromDomain(line)
	return r.db.WithContext(ctx).Save(&model).Error
}

// DeleteReturningEvent removes the line and reports the owning event id taken
// from the deleted row. A missing row yields uuid.Nil with no error.
func (r *GormBillingLineRepository) DeleteReturningEvent(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted []models.BillingLineModel
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

var _ billing.BillingLineRepository = (*GormBillingLineRepository)(nil)
