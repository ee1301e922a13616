package models

import (
	"time"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventModel is the persistence model for the Event aggregate
type EventModel struct {
	AuditedModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	EventDate   time.Time       `gorm:"not null;index"`
	Spent       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Profit      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts the persistence model to a domain Event
func (m *EventModel) ToDomain() *billing.Event {
	return &billing.Event{
		AuditedEntity: m.AuditedModel.ToDomain(),
		Name:          m.Name,
		Description:   m.Description,
		EventDate:     m.EventDate,
		Spent:         m.Spent,
		TotalAmount:   m.TotalAmount,
		Profit:        m.Profit,
	}
}

// FromDomain populates the persistence model from a domain Event
func (m *EventModel) FromDomain(e *billing.Event) {
	m.AuditedModel.FromDomain(e.AuditedEntity)
	m.Name = e.Name
	m.Description = e.Description
	m.EventDate = e.EventDate
	m.Spent = e.Spent
	m.TotalAmount = e.TotalAmount
	m.Profit = e.Profit
}

// LineColumns holds the shared columns of billing and stock lines
type LineColumns struct {
	AuditedModel
	EventID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	SpentIn        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	SellFor        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	InitialStock   int64           `gorm:"not null"`
	RemainingStock int64           `gorm:"not null"`
	TotalSales     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (c *LineColumns) toDomainLine() billing.Line {
	return billing.Line{
		AuditedEntity:  c.AuditedModel.ToDomain(),
		EventID:        c.EventID,
		Name:           c.Name,
		SpentIn:        c.SpentIn,
		SellFor:        c.SellFor,
		InitialStock:   c.InitialStock,
		RemainingStock: c.RemainingStock,
		TotalSales:     c.TotalSales,
	}
}

func (c *LineColumns) fromDomainLine(l billing.Line) {
	c.AuditedModel.FromDomain(l.AuditedEntity)
	c.EventID = l.EventID
	c.Name = l.Name
	c.SpentIn = l.SpentIn
	c.SellFor = l.SellFor
	c.InitialStock = l.InitialStock
	c.RemainingStock = l.RemainingStock
	c.TotalSales = l.TotalSales
}

// BillingLineModel is the persistence model for billing lines
type BillingLineModel struct {
	LineColumns
}

// TableName returns the table name for GORM
func (BillingLineModel) TableName() string {
	return "billing_lines"
}

// ToDomain converts the persistence model to a domain BillingLine
func (m *BillingLineModel) ToDomain() *billing.BillingLine {
	return &billing.BillingLine{Line: m.toDomainLine()}
}

// FromDomain populates the persistence model from a domain BillingLine
func (m *BillingLineModel) FromDomain(l *billing.BillingLine) {
	m.fromDomainLine(l.Line)
}

// StockLineModel is the persistence model for stock lines
type StockLineModel struct {
	LineColumns
}

// TableName returns the table name for GORM
func (StockLineModel) TableName() string {
	return "stock_lines"
}

// ToDomain converts the persistence model to a domain StockLine
func (m *StockLineModel) ToDomain() *billing.StockLine {
	return &billing.StockLine{Line: m.toDomainLine()}
}

// FromDomain populates the persistence model from a domain StockLine
func (m *StockLineModel) FromDomain(l *billing.StockLine) {
	m.fromDomainLine(l.Line)
}
