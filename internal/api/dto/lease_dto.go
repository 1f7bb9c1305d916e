package dto

import (
	"time"

	"github.com/mwhayford/rental-service/internal/domain"
)

// CreateLeaseRequest payload.
type CreateLeaseRequest struct {
	PropertyID            string                  `json:"property_id"`
	TenantID              string                  `json:"tenant_id"`
	StartDate             time.Time               `json:"start_date"`
	EndDate               time.Time               `json:"end_date"`
	MonthlyRent           MoneyPayload            `json:"monthly_rent"`
	SecurityDeposit       MoneyPayload            `json:"security_deposit"`
	PaymentFrequency      domain.PaymentFrequency `json:"payment_frequency"`
	PaymentDayOfMonth     int                     `json:"payment_day_of_month"`
	SpecialTerms          string                  `json:"special_terms"`
	PropertyApplicationID *string                 `json:"property_application_id"`
}

// TerminateLeaseRequest payload.
type TerminateLeaseRequest struct {
	Reason string `json:"reason"`
}

// RenewLeaseRequest payload.
type RenewLeaseRequest struct {
	NewEndDate     time.Time     `json:"new_end_date"`
	NewMonthlyRent *MoneyPayload `json:"new_monthly_rent"`
}

// UpdateRentRequest payload.
type UpdateRentRequest struct {
	MonthlyRent MoneyPayload `json:"monthly_rent"`
}

// LeaseResponse is the public shape of a lease.
type LeaseResponse struct {
	ID                    string                  `json:"id"`
	PropertyID            string                  `json:"property_id"`
	TenantID              string                  `json:"tenant_id"`
	LandlordID            string                  `json:"landlord_id"`
	Status                domain.LeaseStatus      `json:"status"`
	StartDate             time.Time               `json:"start_date"`
	EndDate               time.Time               `json:"end_date"`
	MonthlyRent           MoneyPayload            `json:"monthly_rent"`
	SecurityDeposit       MoneyPayload            `json:"security_deposit"`
	PaymentFrequency      domain.PaymentFrequency `json:"payment_frequency"`
	PaymentDayOfMonth     int                     `json:"payment_day_of_month"`
	SpecialTerms          string                  `json:"special_terms,omitempty"`
	PropertyApplicationID *string                 `json:"property_application_id,omitempty"`
	TerminationReason     string                  `json:"termination_reason,omitempty"`
	ActivatedAt           *time.Time              `json:"activated_at,omitempty"`
	TerminatedAt          *time.Time              `json:"terminated_at,omitempty"`
	DurationDays          int                     `json:"duration_days"`
	RemainingDays         int                     `json:"remaining_days"`
	CreatedAt             time.Time               `json:"created_at"`
	UpdatedAt             time.Time               `json:"updated_at"`
}
