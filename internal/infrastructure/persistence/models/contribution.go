package models

import (
	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContributionModel is the persistence model for contribution drives
type ContributionModel struct {
	AuditedModel
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	DividedBy       int64           `gorm:"not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	AvgContribution decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for GORM
func (ContributionModel) TableName() string {
	return "contributions"
}

// ToDomain converts the persistence model to a domain Contribution
func (m *ContributionModel) ToDomain() *contribution.Contribution {
	return &contribution.Contribution{
		AuditedEntity:   m.AuditedModel.ToDomain(),
		Name:            m.Name,
		Description:     m.Description,
		DividedBy:       m.DividedBy,
		TotalAmount:     m.TotalAmount,
		AvgContribution: m.AvgContribution,
	}
}

// FromDomain populates the persistence model from a domain Contribution
func (m *ContributionModel) FromDomain(c *contribution.Contribution) {
	m.AuditedModel.FromDomain(c.AuditedEntity)
	m.Name = c.Name
	m.Description = c.Description
	m.DividedBy = c.DividedBy
	m.TotalAmount = c.TotalAmount
	m.AvgContribution = c.AvgContribution
}

// IndividualContributionModel is the persistence model for individual payments
// into a drive
type IndividualContributionModel struct {
	AuditedModel
	ContributionID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContributorName string          `gorm:"type:varchar(200);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for GORM
func (IndividualContributionModel) TableName() string {
	return "individual_contributions"
}

// ToDomain converts the persistence model to a domain IndividualContribution
func (m *IndividualContributionModel) ToDomain() *contribution.IndividualContribution {
	return &contribution.IndividualContribution{
		AuditedEntity:   m.AuditedModel.ToDomain(),
		ContributionID:  m.ContributionID,
		ContributorName: m.ContributorName,
		Amount:          m.Amount,
	}
}

// FromDomain populates the persistence model from a domain IndividualContribution
func (m *IndividualContributionModel) FromDomain(ic *contribution.IndividualContribution) {
	m.AuditedModel.FromDomain(ic.AuditedEntity)
	m.ContributionID = ic.ContributionID
	m.ContributorName = ic.ContributorName
	m.Amount = ic.Amount
}
