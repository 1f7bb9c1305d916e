package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// ApplicationStatus enumerates lifecycle states for tenant applications.
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "PENDING"
	ApplicationStatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationStatusApproved    ApplicationStatus = "APPROVED"
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn   ApplicationStatus = "WITHDRAWN"
)

// PropertyApplication is the aggregate for a prospective tenant's
// application to rent a property. ApplicationData is an opaque blob
// owned by the frontend; the core never inspects it.
type PropertyApplication struct {
	AggregateRoot

	ID                      string
	PropertyID              string
	ApplicantID             string
	Status                  ApplicationStatus
	ApplicationData         string
	ApplicationFee          Money
	ApplicationFeePaymentID *string
	SubmittedAt             *time.Time
	ReviewedAt              *time.Time
	ReviewedBy              *string
	DecisionNotes           string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// NewPropertyApplication validates input and returns a Pending,
// not-yet-submitted application.
func NewPropertyApplication(propertyID, applicantID, applicationData string, applicationFee Money) (*PropertyApplication, error) {
	if propertyID == "" || applicantID == "" {
		return nil, apperrors.NewValidationError("property and applicant are required", nil)
	}
	if strings.TrimSpace(applicationData) == "" {
		return nil, apperrors.NewValidationError("application data is required", nil)
	}
	if applicationFee.IsZero() {
		return nil, apperrors.NewValidationError("application fee is required", nil)
	}
	return &PropertyApplication{
		ID:              uuid.NewString(),
		PropertyID:      propertyID,
		ApplicantID:     applicantID,
		Status:          ApplicationStatusPending,
		ApplicationData: applicationData,
		ApplicationFee:  applicationFee,
	}, nil
}

// Submit marks the application as submitted. A second submit fails.
func (a *PropertyApplication) Submit(now time.Time) error {
	if a.SubmittedAt != nil {
		return apperrors.NewInvalidState("application has already been submitted")
	}
	submittedAt := now
	a.SubmittedAt = &submittedAt
	a.Status = ApplicationStatusPending
	a.record("property_application_submitted", a.ID, map[string]any{
		"property_id":  a.PropertyID,
		"applicant_id": a.ApplicantID,
		"fee_amount":   a.ApplicationFee.Amount,
		"fee_currency": a.ApplicationFee.Currency,
	})
	return nil
}

// AttachPayment records the gateway payment reference for the paid fee.
func (a *PropertyApplication) AttachPayment(paymentID string) error {
	if paymentID == "" {
		return apperrors.NewValidationError("payment id is required", nil)
	}
	a.ApplicationFeePaymentID = &paymentID
	return nil
}

// Review moves a submitted application under review.
func (a *PropertyApplication) Review(reviewedBy string, now time.Time) error {
	if err := a.ensureReviewable(reviewedBy); err != nil {
		return err
	}
	reviewedAt := now
	a.Status = ApplicationStatusUnderReview
	a.ReviewedBy = &reviewedBy
	a.ReviewedAt = &reviewedAt
	return nil
}

// Approve records an approval decision on a submitted application.
func (a *PropertyApplication) Approve(reviewedBy, notes string, now time.Time) error {
	if err := a.ensureReviewable(reviewedBy); err != nil {
		return err
	}
	reviewedAt := now
	a.Status = ApplicationStatusApproved
	a.ReviewedBy = &reviewedBy
	a.ReviewedAt = &reviewedAt
	a.DecisionNotes = strings.TrimSpace(notes)
	a.record("property_application_approved", a.ID, map[string]any{
		"reviewed_by": reviewedBy,
		"notes":       a.DecisionNotes,
	})
	return nil
}

// Reject records a rejection decision on a submitted application.
func (a *PropertyApplication) Reject(reviewedBy, notes string, now time.Time) error {
	if err := a.ensureReviewable(reviewedBy); err != nil {
		return err
	}
	reviewedAt := now
	a.Status = ApplicationStatusRejected
	a.ReviewedBy = &reviewedBy
	a.ReviewedAt = &reviewedAt
	a.DecisionNotes = strings.TrimSpace(notes)
	a.record("property_application_rejected", a.ID, map[string]any{
		"reviewed_by": reviewedBy,
		"notes":       a.DecisionNotes,
	})
	return nil
}

// Withdraw retracts the application. Approved applications cannot be
// withdrawn.
func (a *PropertyApplication) Withdraw() error {
	if a.Status == ApplicationStatusApproved {
		return apperrors.NewInvalidState("an approved application cannot be withdrawn")
	}
	if a.Status == ApplicationStatusWithdrawn {
		return apperrors.NewInvalidState("application has already been withdrawn")
	}
	a.Status = ApplicationStatusWithdrawn
	a.record("property_application_withdrawn", a.ID, nil)
	return nil
}

func (a *PropertyApplication) ensureReviewable(reviewedBy string) error {
	if reviewedBy == "" {
		return apperrors.NewValidationError("reviewer is required", nil)
	}
	if a.SubmittedAt == nil {
		return apperrors.NewInvalidState("application has not been submitted")
	}
	if a.Status == ApplicationStatusWithdrawn {
		return apperrors.NewInvalidState("application has been withdrawn")
	}
	return nil
}
