package models

import (
	"github.com/schoolfund/backend/internal/domain/school"
)

// StudentModel is the persistence model for student records
type StudentModel struct {
	AuditedModel
	FullName       string `gorm:"type:varchar(200);not null"`
	ClassName      string `gorm:"type:varchar(100)"`
	GraduationYear int    `gorm:"not null;index"`
	GuardianName   string `gorm:"type:varchar(200)"`
	GuardianPhone  string `gorm:"type:varchar(50)"`
	Active         bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student
func (m *StudentModel) ToDomain() *school.Student {
	return &school.Student{
		AuditedEntity:  m.AuditedModel.ToDomain(),
		FullName:       m.FullName,
		ClassName:      m.ClassName,
		GraduationYear: m.GraduationYear,
		GuardianName:   m.GuardianName,
		GuardianPhone:  m.GuardianPhone,
		Active:         m.Active,
	}
}

// FromDomain populates the persistence model from a domain Student
func (m *StudentModel) FromDomain(s *school.Student) {
	m.AuditedModel.FromDomain(s.AuditedEntity)
	m.FullName = s.FullName
	m.ClassName = s.ClassName
	m.GraduationYear = s.GraduationYear
	m.GuardianName = s.GuardianName
	m.GuardianPhone = s.GuardianPhone
	m.Active = s.Active
}
