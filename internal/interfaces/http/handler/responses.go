package handler

import (
	"time"

	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/domain/school"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventResponse is the API shape of an event
type EventResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	EventDate   time.Time       `json:"event_date"`
	Spent       decimal.Decimal `json:"spent"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Profit      decimal.Decimal `json:"profit"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newEventResponse(e *billing.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		EventDate:   e.EventDate,
		Spent:       e.Spent,
		TotalAmount: e.TotalAmount,
		Profit:      e.Profit,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EventTotalsResponse is the API shape of a recomputed event aggregate
type EventTotalsResponse struct {
	Spent       decimal.Decimal `json:"spent"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Profit      decimal.Decimal `json:"profit"`
}

// LineResponse is the API shape of a billing or stock line
type LineResponse struct {
	ID             uuid.UUID       `json:"id"`
	EventID        uuid.UUID       `json:"event_id"`
	Name           string          `json:"name"`
	SpentIn        decimal.Decimal `json:"spent_in"`
	SellFor        decimal.Decimal `json:"sell_for"`
	InitialStock   int64           `json:"initial_stock"`
	RemainingStock int64           `json:"remaining_stock"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func newLineResponse(l billing.Line) LineResponse {
	return LineResponse{
		ID:             l.ID,
		EventID:        l.EventID,
		Name:           l.Name,
		SpentIn:        l.SpentIn,
		SellFor:        l.SellFor,
		InitialStock:   l.InitialStock,
		RemainingStock: l.RemainingStock,
		TotalSales:     l.TotalSales,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ContributionResponse is the API shape of a contribution drive
type ContributionResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DividedBy       int64           `json:"divided_by"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AvgContribution decimal.Decimal `json:"avg_contribution"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func newContributionResponse(d *contribution.Contribution) ContributionResponse {
	return ContributionResponse{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		DividedBy:       d.DividedBy,
		TotalAmount:     d.TotalAmount,
		AvgContribution: d.AvgContribution,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ContributionTotalsResponse is the API shape of a recomputed drive aggregate
type ContributionTotalsResponse struct {
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AvgContribution decimal.Decimal `json:"avg_contribution"`
}

// IndividualContributionResponse is the API shape of an individual payment
type IndividualContributionResponse struct {
	ID              uuid.UUID       `json:"id"`
	ContributionID  uuid.UUID       `json:"contribution_id"`
	ContributorName string          `json:"contributor_name"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func newIndividualContributionResponse(ic *contribution.IndividualContribution) IndividualContributionResponse {
	return IndividualContributionResponse{
		ID:              ic.ID,
		ContributionID:  ic.ContributionID,
		ContributorName: ic.ContributorName,
		Amount:          ic.Amount,
		CreatedAt:       ic.CreatedAt,
		UpdatedAt:       ic.UpdatedAt,
	}
}

// GraduationResponse is the API shape of a graduation fund
type GraduationResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Year           int             `json:"year"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func newGraduationResponse(g *graduation.Graduation) GraduationResponse {
	return GraduationResponse{
		ID:             g.ID,
		Name:           g.Name,
		Year:           g.Year,
		TargetAmount:   g.TargetAmount,
		TotalCollected: g.TotalCollected,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// PaymentResponse is the API shape of a graduation payment
type PaymentResponse struct {
	ID           uuid.UUID       `json:"id"`
	GraduationID uuid.UUID       `json:"graduation_id"`
	StudentID    *uuid.UUID      `json:"student_id,omitempty"`
	PayerName    string          `json:"payer_name"`
	Amount       decimal.Decimal `json:"amount"`
	PaidAt       time.Time       `json:"paid_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func newPaymentResponse(p *graduation.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		GraduationID: p.GraduationID,
		StudentID:    p.StudentID,
		PayerName:    p.PayerName,
		Amount:       p.Amount,
		PaidAt:       p.PaidAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// StudentResponse is the API shape of a student record
type StudentResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	ClassName      string    `json:"class_name"`
	GraduationYear int       `json:"graduation_year"`
	GuardianName   string    `json:"guardian_name"`
	GuardianPhone  string    `json:"guardian_phone"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newStudentResponse(s *school.Student) StudentResponse {
	return StudentResponse{
		ID:             s.ID,
		FullName:       s.FullName,
		ClassName:      s.ClassName,
		GraduationYear: s.GraduationYear,
		GuardianName:   s.GuardianName,
		GuardianPhone:  s.GuardianPhone,
		Active:         s.Active,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// UserResponse is the API shape of a user account. The password hash never
// leaves the service.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
