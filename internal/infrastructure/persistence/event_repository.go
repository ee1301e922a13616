package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEventRepository implements billing.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

var eventSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"event_date": true,
}

// FindByID finds an event by its ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Event, error) {
	var model models.EventModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds events matching the filter
func (r *GormEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Event, error) {
	query := r.db.WithContext(ctx).Model(&models.EventModel{})
	query = applySearch(query, filter, "name", "description")
	query = applySort(query, filter, eventSortColumns)
	query = applyPagination(query, filter)

	var rows []models.EventModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]billing.Event, len(rows))
	for i := range rows {
		events[i] = *rows[i].ToDomain()
	}
	return events, nil
}

// Count counts events matching the filter
func (r *GormEventRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&models.EventModel{}), filter, "name", "description")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, event *billing.Event) error {
	var model models.EventModel
	model.FromDomain(event)
	return r.db.WithContext(ctx).Save(&model).Error
}

// UpdateTotals writes the derived aggregate columns in a single update
func (r *GormEventRepository) UpdateTotals(ctx context.Context, id uuid.UUID, totals billing.EventTotals, actorID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.EventModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"spent":        totals.Spent,
			"total_amount": totals.TotalAmount,
			"profit":       totals.Profit,
			"updated_at":   time.Now(),
			"updated_by":   actorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an event. Its lines go with it via cascading foreign keys.
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EventModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ billing.EventRepository = (*GormEventRepository)(nil)
