package persistence

import (
	"context"
	"errors"

	"github.com/schoolfund/backend/internal/domain/school"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStudentRepository implements school.StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

var studentSortColumns = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"full_name":       true,
	"class_name":      true,
	"graduation_year": true,
}

// FindByID finds a student by their ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.Student, error) {
	var model models.StudentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds students matching the filter
func (r *GormStudentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]school.Student, error) {
	query := r.applyStudentFilters(r.db.WithContext(ctx).Model(&models.StudentModel{}), filter)
	query = applySort(query, filter, studentSortColumns)
	query = applyPagination(query, filter)

	var rows []models.StudentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	students := make([]school.Student, len(rows))
	for i := range rows {
		students[i] = *rows[i].ToDomain()
	}
	return students, nil
}

// Count counts students matching the filter
func (r *GormStudentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyStudentFilters(r.db.WithContext(ctx).Model(&models.StudentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, s *school.Student) error {
	var model models.StudentModel
	model.FromDomain(s)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete deletes a student. Graduation payments referencing the student keep
// their row; the link column is set to NULL by the foreign key.
func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StudentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormStudentRepository) applyStudentFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter, "full_name", "guardian_name")
	for key, value := range filter.Filters {
		switch key {
		case "class_name":
			query = query.Where("class_name = ?", value)
		case "graduation_year":
			query = query.Where("graduation_year = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

var _ school.StudentRepository = (*GormStudentRepository)(nil)
