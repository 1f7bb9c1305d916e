package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// LeaseStatus enumerates lifecycle states for leases.
type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "DRAFT"
	LeaseStatusActive     LeaseStatus = "ACTIVE"
	LeaseStatusTerminated LeaseStatus = "TERMINATED"
	LeaseStatusExpired    LeaseStatus = "EXPIRED"
	LeaseStatusRenewed    LeaseStatus = "RENEWED"
)

// PaymentFrequency enumerates rent collection cadence.
type PaymentFrequency string

const (
	PaymentFrequencyMonthly   PaymentFrequency = "MONTHLY"
	PaymentFrequencyQuarterly PaymentFrequency = "QUARTERLY"
	PaymentFrequencyAnnual    PaymentFrequency = "ANNUAL"
)

// Leases may be activated up to this long before their start date, and
// renewed starting this long before their end date.
const (
	leaseActivationWindow = 30 * 24 * time.Hour
	leaseRenewalWindow    = 60 * 24 * time.Hour
)

// Lease is the aggregate for a tenancy agreement. Status moves one way
// only; renewal spawns a new Lease rather than mutating in place.
type Lease struct {
	AggregateRoot

	ID                    string
	PropertyID            string
	TenantID              string
	LandlordID            string
	StartDate             time.Time
	EndDate               time.Time
	MonthlyRent           Money
	SecurityDeposit       Money
	PaymentFrequency      PaymentFrequency
	PaymentDayOfMonth     int
	Status                LeaseStatus
	SpecialTerms          string
	ActivatedAt           *time.Time
	TerminatedAt          *time.Time
	TerminationReason     string
	PropertyApplicationID *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// LeaseParams carries the initial terms for a new lease.
type LeaseParams struct {
	PropertyID            string
	TenantID              string
	LandlordID            string
	StartDate             time.Time
	EndDate               time.Time
	MonthlyRent           Money
	SecurityDeposit       Money
	PaymentFrequency      PaymentFrequency
	PaymentDayOfMonth     int
	SpecialTerms          string
	PropertyApplicationID *string
}

// NewLease validates the initial terms and returns a Draft lease.
func NewLease(p LeaseParams) (*Lease, error) {
	if p.PropertyID == "" || p.TenantID == "" || p.LandlordID == "" {
		return nil, apperrors.NewValidationError("property, tenant and landlord are required", nil)
	}
	if !p.EndDate.After(p.StartDate) {
		return nil, apperrors.NewValidationError("lease end date must be after start date", map[string]any{
			"start_date": p.StartDate,
			"end_date":   p.EndDate,
		})
	}
	if p.PaymentDayOfMonth < 1 || p.PaymentDayOfMonth > 28 {
		return nil, apperrors.NewValidationError("payment day of month must be between 1 and 28", map[string]any{
			"payment_day_of_month": p.PaymentDayOfMonth,
		})
	}
	if p.MonthlyRent.IsZero() || p.SecurityDeposit.IsZero() {
		return nil, apperrors.NewValidationError("monthly rent and security deposit are required", nil)
	}
	if p.PaymentFrequency == "" {
		p.PaymentFrequency = PaymentFrequencyMonthly
	}

	lease := &Lease{
		ID:                    uuid.NewString(),
		PropertyID:            p.PropertyID,
		TenantID:              p.TenantID,
		LandlordID:            p.LandlordID,
		StartDate:             p.StartDate,
		EndDate:               p.EndDate,
		MonthlyRent:           p.MonthlyRent,
		SecurityDeposit:       p.SecurityDeposit,
		PaymentFrequency:      p.PaymentFrequency,
		PaymentDayOfMonth:     p.PaymentDayOfMonth,
		Status:                LeaseStatusDraft,
		SpecialTerms:          strings.TrimSpace(p.SpecialTerms),
		PropertyApplicationID: p.PropertyApplicationID,
	}
	lease.record("lease_created", lease.ID, map[string]any{
		"property_id":  lease.PropertyID,
		"tenant_id":    lease.TenantID,
		"landlord_id":  lease.LandlordID,
		"start_date":   lease.StartDate,
		"end_date":     lease.EndDate,
		"monthly_rent": lease.MonthlyRent,
	})
	return lease, nil
}

// Activate moves a Draft lease to Active. Allowed no earlier than 30 days
// before the start date.
func (l *Lease) Activate(now time.Time) error {
	if l.Status != LeaseStatusDraft {
		return apperrors.NewInvalidState("only a draft lease can be activated")
	}
	if now.Before(l.StartDate.Add(-leaseActivationWindow)) {
		return apperrors.NewInvalidState("lease cannot be activated more than 30 days before its start date")
	}
	activatedAt := now
	l.Status = LeaseStatusActive
	l.ActivatedAt = &activatedAt
	l.record("lease_activated", l.ID, map[string]any{
		"activated_at": activatedAt,
	})
	return nil
}

// Terminate ends an Active lease for the given reason.
func (l *Lease) Terminate(reason string, now time.Time) error {
	if l.Status != LeaseStatusActive {
		return apperrors.NewInvalidState("only an active lease can be terminated")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.NewValidationError("termination reason is required", nil)
	}
	terminatedAt := now
	l.Status = LeaseStatusTerminated
	l.TerminatedAt = &terminatedAt
	l.TerminationReason = reason
	l.record("lease_terminated", l.ID, map[string]any{
		"terminated_at": terminatedAt,
		"reason":        reason,
	})
	return nil
}

// MarkAsExpired materializes expiry of an Active lease. Invoked by an
// external time-based sweep; no scheduling happens here.
func (l *Lease) MarkAsExpired() error {
	if l.Status != LeaseStatusActive {
		return apperrors.NewInvalidState("only an active lease can expire")
	}
	l.Status = LeaseStatusExpired
	l.record("lease_expired", l.ID, map[string]any{
		"end_date": l.EndDate,
	})
	return nil
}

// Renew flips the current lease to Renewed and returns a new Draft lease
// starting the day after the current end date. Both must be persisted
// together. Renewal opens 60 days before the end date.
func (l *Lease) Renew(newEndDate time.Time, newMonthlyRent *Money, now time.Time) (*Lease, error) {
	if !newEndDate.After(l.EndDate) {
		return nil, apperrors.NewValidationError("new end date must be after the current end date", map[string]any{
			"end_date":     l.EndDate,
			"new_end_date": newEndDate,
		})
	}
	if l.Status != LeaseStatusActive && l.Status != LeaseStatusExpired {
		return nil, apperrors.NewInvalidState("only an active or expired lease can be renewed")
	}
	if now.Before(l.EndDate.Add(-leaseRenewalWindow)) {
		return nil, apperrors.NewInvalidState("lease cannot be renewed more than 60 days before its end date")
	}

	rent := l.MonthlyRent
	if newMonthlyRent != nil {
		rent = *newMonthlyRent
	}
	renewal, err := NewLease(LeaseParams{
		PropertyID:        l.PropertyID,
		TenantID:          l.TenantID,
		LandlordID:        l.LandlordID,
		StartDate:         l.EndDate.AddDate(0, 0, 1),
		EndDate:           newEndDate,
		MonthlyRent:       rent,
		SecurityDeposit:   l.SecurityDeposit,
		PaymentFrequency:  l.PaymentFrequency,
		PaymentDayOfMonth: l.PaymentDayOfMonth,
		SpecialTerms:      l.SpecialTerms,
	})
	if err != nil {
		return nil, err
	}

	l.Status = LeaseStatusRenewed
	l.record("lease_renewed", l.ID, map[string]any{
		"renewal_lease_id": renewal.ID,
		"new_end_date":     newEndDate,
		"monthly_rent":     rent,
	})
	return renewal, nil
}

// UpdateRent changes the monthly rent of a Draft or Active lease.
func (l *Lease) UpdateRent(newMonthlyRent Money) error {
	if newMonthlyRent.IsZero() {
		return apperrors.NewValidationError("monthly rent is required", nil)
	}
	if l.Status != LeaseStatusActive && l.Status != LeaseStatusDraft {
		return apperrors.NewInvalidState("rent can only be updated on a draft or active lease")
	}
	old := l.MonthlyRent
	l.MonthlyRent = newMonthlyRent
	l.record("lease_rent_updated", l.ID, map[string]any{
		"old_rent": old,
		"new_rent": newMonthlyRent,
	})
	return nil
}

// IsActive reports whether the lease is currently Active.
func (l *Lease) IsActive() bool {
	return l.Status == LeaseStatusActive
}

// IsExpired reports expiry, including the lazily detected case of an
// Active lease whose end date has passed but was not yet swept.
func (l *Lease) IsExpired(now time.Time) bool {
	if l.Status == LeaseStatusExpired {
		return true
	}
	return l.Status == LeaseStatusActive && now.After(l.EndDate)
}

// GetDurationInDays returns the lease term length in days.
func (l *Lease) GetDurationInDays() int {
	return int(l.EndDate.Sub(l.StartDate).Hours() / 24)
}

// GetRemainingDays returns days left on an Active lease, zero otherwise.
func (l *Lease) GetRemainingDays(now time.Time) int {
	if l.Status != LeaseStatusActive {
		return 0
	}
	remaining := int(l.EndDate.Sub(now).Hours() / 24)
	if remaining < 0 {
		return 0
	}
	return remaining
}
