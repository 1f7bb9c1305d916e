package dto

import (
	"time"

	"github.com/mwhayford/rental-service/internal/domain"
)

// CreateApplicationRequest payload.
type CreateApplicationRequest struct {
	PropertyID      string `json:"property_id"`
	ApplicationData string `json:"application_data"`
}

// DecisionRequest carries reviewer notes for approve/reject.
type DecisionRequest struct {
	Notes string `json:"notes"`
}

// ApplicationResponse is the public shape of an application.
type ApplicationResponse struct {
	ID                      string                   `json:"id"`
	PropertyID              string                   `json:"property_id"`
	ApplicantID             string                   `json:"applicant_id"`
	Status                  domain.ApplicationStatus `json:"status"`
	ApplicationData         string                   `json:"application_data"`
	ApplicationFee          MoneyPayload             `json:"application_fee"`
	ApplicationFeePaymentID *string                  `json:"application_fee_payment_id,omitempty"`
	SubmittedAt             *time.Time               `json:"submitted_at,omitempty"`
	ReviewedAt              *time.Time               `json:"reviewed_at,omitempty"`
	ReviewedBy              *string                  `json:"reviewed_by,omitempty"`
	DecisionNotes           string                   `json:"decision_notes,omitempty"`
	CreatedAt               time.Time                `json:"created_at"`
	UpdatedAt               time.Time                `json:"updated_at"`
}

// FeeIntentResponse carries the gateway handle for paying the fee.
type FeeIntentResponse struct {
	PaymentID    string       `json:"payment_id"`
	IntentID     string       `json:"intent_id"`
	ClientSecret string       `json:"client_secret"`
	Amount       MoneyPayload `json:"amount"`
}
