package school

import (
	"context"
	"strings"

	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Student is a student record managed by coordinators. Graduation payments
// may reference a student, but students carry no financial state themselves.
type Student struct {
	shared.AuditedEntity
	FullName       string
	ClassName      string
	GraduationYear int
	GuardianName   string
	GuardianPhone  string
	Active         bool
}

// NewStudent creates a validated student record
func NewStudent(fullName, className string, graduationYear int, guardianName, guardianPhone string, actorID uuid.UUID) (*Student, error) {
	if actorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if strings.TrimSpace(fullName) == "" || graduationYear <= 0 {
		return nil, shared.ErrInvalidInput
	}
	return &Student{
		AuditedEntity:  shared.NewAuditedEntity(actorID),
		FullName:       fullName,
		ClassName:      className,
		GraduationYear: graduationYear,
		GuardianName:   guardianName,
		GuardianPhone:  guardianPhone,
		Active:         true,
	}, nil
}

// StudentUpdate is a partial update for a student record
type StudentUpdate struct {
	FullName       *string
	ClassName      *string
	GraduationYear *int
	GuardianName   *string
	GuardianPhone  *string
	Active         *bool
}

// Apply merges a partial update into the student record
func (s *Student) Apply(update StudentUpdate, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if update.FullName != nil {
		if strings.TrimSpace(*update.FullName) == "" {
			return shared.ErrInvalidInput
		}
		s.FullName = *update.FullName
	}
	if update.ClassName != nil {
		s.ClassName = *update.ClassName
	}
	if update.GraduationYear != nil {
		if *update.GraduationYear <= 0 {
			return shared.ErrInvalidInput
		}
		s.GraduationYear = *update.GraduationYear
	}
	if update.GuardianName != nil {
		s.GuardianName = *update.GuardianName
	}
	if update.GuardianPhone != nil {
		s.GuardianPhone = *update.GuardianPhone
	}
	if update.Active != nil {
		s.Active = *update.Active
	}
	s.Touch(actorID)
	return nil
}

// StudentRepository provides access to student records
type StudentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Student, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}
