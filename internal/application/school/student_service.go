package school

import (
	"context"
	"time"

	"github.com/schoolfund/backend/internal/domain/school"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateStudentInput carries the fields for a new student record
type CreateStudentInput struct {
	FullName       string
	ClassName      string
	GraduationYear int
	GuardianName   string
	GuardianPhone  string
}

// StudentService manages student records
type StudentService struct {
	students  school.StudentRepository
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewStudentService creates a StudentService
func NewStudentService(students school.StudentRepository, opTimeout time.Duration, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, opTimeout: opTimeout, logger: logger}
}

func (s *StudentService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Create registers a student
func (s *StudentService) Create(ctx context.Context, input CreateStudentInput, actorID uuid.UUID) (*school.Student, error) {
	student, err := school.NewStudent(input.FullName, input.ClassName, input.GraduationYear, input.GuardianName, input.GuardianPhone, actorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.students.Save(ctx, student); err != nil {
		return nil, shared.WrapPersistence("insert student", err)
	}
	return student, nil
}

// Get returns a single student
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*school.Student, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch student", err)
	}
	return student, nil
}

// List returns students with pagination
func (s *StudentService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[school.Student], error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	students, err := s.students.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[school.Student]{}, shared.WrapPersistence("list students", err)
	}
	total, err := s.students.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[school.Student]{}, shared.WrapPersistence("count students", err)
	}
	return shared.NewPaginated(students, total, filter.Page, filter.Limit()), nil
}

// Update merges a partial update into a student record
func (s *StudentService) Update(ctx context.Context, id uuid.UUID, update school.StudentUpdate, actorID uuid.UUID) (*school.Student, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, shared.WrapPersistence("fetch student", err)
	}
	if err := student.Apply(update, actorID); err != nil {
		return nil, err
	}
	if err := s.students.Save(ctx, student); err != nil {
		return nil, shared.WrapPersistence("update student", err)
	}
	return student, nil
}

// Delete removes a student record
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.students.Delete(ctx, id); err != nil {
		return shared.WrapPersistence("delete student", err)
	}
	return nil
}
