package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/jobs"
	"github.com/mwhayford/rental-service/internal/repository"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// LeaseService coordinates lease workflows.
type LeaseService struct {
	leases     repository.LeaseRepository
	properties repository.PropertyRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	enqueuer   jobs.Enqueuer
	logger     *zap.Logger
}

// LeaseDependencies bundles collaborators for the lease service.
type LeaseDependencies struct {
	LeaseRepo    repository.LeaseRepository
	PropertyRepo repository.PropertyRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
	Enqueuer     jobs.Enqueuer
	Logger       *zap.Logger
}

// NewLeaseService constructs the service.
func NewLeaseService(deps LeaseDependencies) *LeaseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaseService{
		leases:     deps.LeaseRepo,
		properties: deps.PropertyRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		enqueuer:   deps.Enqueuer,
		logger:     logger,
	}
}

// LeaseCreateInput describes lease creation payload.
type LeaseCreateInput struct {
	PropertyID            string
	TenantID              string
	StartDate             time.Time
	EndDate               time.Time
	MonthlyRent           domain.Money
	SecurityDeposit       domain.Money
	PaymentFrequency      domain.PaymentFrequency
	PaymentDayOfMonth     int
	SpecialTerms          string
	PropertyApplicationID *string
}

// CreateLease drafts a lease on a property the actor owns.
func (s *LeaseService) CreateLease(ctx context.Context, actor *domain.User, input LeaseCreateInput) (*domain.Lease, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	property, err := s.getProperty(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && property.OwnerID != actor.ID {
		return nil, apperrors.NewForbidden("only the property owner can create a lease")
	}
	if _, err := s.users.GetByID(ctx, input.TenantID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tenant", map[string]any{"tenant_id": input.TenantID})
		}
		return nil, err
	}

	lease, err := domain.NewLease(domain.LeaseParams{
		PropertyID:            property.ID,
		TenantID:              input.TenantID,
		LandlordID:            property.OwnerID,
		StartDate:             input.StartDate,
		EndDate:               input.EndDate,
		MonthlyRent:           input.MonthlyRent,
		SecurityDeposit:       input.SecurityDeposit,
		PaymentFrequency:      input.PaymentFrequency,
		PaymentDayOfMonth:     input.PaymentDayOfMonth,
		SpecialTerms:          input.SpecialTerms,
		PropertyApplicationID: input.PropertyApplicationID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.leases.Create(ctx, lease); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, lease, actor.ID)
	return lease, nil
}

// ActivateLease moves a draft lease to active and takes the unit off
// the market.
func (s *LeaseService) ActivateLease(ctx context.Context, actor *domain.User, leaseID string) (*domain.Lease, error) {
	lease, err := s.getAuthorizedLease(ctx, actor, leaseID)
	if err != nil {
		return nil, err
	}
	if err := lease.Activate(time.Now()); err != nil {
		return nil, err
	}
	if err := s.leases.Update(ctx, lease); err != nil {
		return nil, err
	}
	if err := s.setUnitAvailability(ctx, lease.PropertyID, false); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, lease, actor.ID)
	s.enqueueEmail(ctx, jobs.JobLeaseActivated, map[string]any{
		"lease_id":  lease.ID,
		"tenant_id": lease.TenantID,
	})
	return lease, nil
}

// TerminateLease ends an active lease and puts the unit back on the
// market.
func (s *LeaseService) TerminateLease(ctx context.Context, actor *domain.User, leaseID, reason string) (*domain.Lease, error) {
	lease, err := s.getAuthorizedLease(ctx, actor, leaseID)
	if err != nil {
		return nil, err
	}
	if err := lease.Terminate(reason, time.Now()); err != nil {
		return nil, err
	}
	if err := s.leases.Update(ctx, lease); err != nil {
		return nil, err
	}
	if err := s.setUnitAvailability(ctx, lease.PropertyID, true); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, lease, actor.ID)
	return lease, nil
}

// ExpireLease materializes expiry of an active lease. Exposed for the
// external sweep; no scheduling lives in this service.
func (s *LeaseService) ExpireLease(ctx context.Context, actor *domain.User, leaseID string) (*domain.Lease, error) {
	lease, err := s.getAuthorizedLease(ctx, actor, leaseID)
	if err != nil {
		return nil, err
	}
	if err := lease.MarkAsExpired(); err != nil {
		return nil, err
	}
	if err := s.leases.Update(ctx, lease); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, lease, actor.ID)
	return lease, nil
}

// RenewLease flips the current lease to renewed and persists the
// replacement draft in the same transaction.
func (s *LeaseService) RenewLease(ctx context.Context, actor *domain.User, leaseID string, newEndDate time.Time, newMonthlyRent *domain.Money) (*domain.Lease, error) {
	lease, err := s.getAuthorizedLease(ctx, actor, leaseID)
	if err != nil {
		return nil, err
	}
	renewal, err := lease.Renew(newEndDate, newMonthlyRent, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.leases.CreateRenewal(ctx, lease, renewal); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, lease, actor.ID)
	publishEvents(ctx, s.dispatcher, renewal, actor.ID)
	return renewal, nil
}

// UpdateRent changes the monthly rent of a draft or active lease.
func (s *LeaseService) UpdateRent(ctx context.Context, actor *domain.User, leaseID string, newRent domain.Money) (*domain.Lease, error) {
	lease, err := s.getAuthorizedLease(ctx, actor, leaseID)
	if err != nil {
		return nil, err
	}
	if err := lease.UpdateRent(newRent); err != nil {
		return nil, err
	}
	if err := s.leases.Update(ctx, lease); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, lease, actor.ID)
	return lease, nil
}

// GetLease fetches a lease visible to the actor.
func (s *LeaseService) GetLease(ctx context.Context, actor *domain.User, leaseID string) (*domain.Lease, error) {
	lease, err := s.fetchLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.RoleAdmin && lease.LandlordID != actor.ID && lease.TenantID != actor.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return lease, nil
}

// ListLeases returns leases scoped to the actor.
func (s *LeaseService) ListLeases(ctx context.Context, actor *domain.User, filter repository.LeaseFilter) ([]domain.Lease, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RolePropertyOwner:
		filter.LandlordID = &actor.ID
	default:
		filter.TenantID = &actor.ID
	}
	return s.leases.ListWithFilter(ctx, filter)
}

func (s *LeaseService) getAuthorizedLease(ctx context.Context, actor *domain.User, leaseID string) (*domain.Lease, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	lease, err := s.fetchLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && lease.LandlordID != actor.ID {
		return nil, apperrors.NewForbidden("only the landlord can manage this lease")
	}
	return lease, nil
}

func (s *LeaseService) fetchLease(ctx context.Context, leaseID string) (*domain.Lease, error) {
	lease, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("lease", map[string]any{"lease_id": leaseID})
		}
		return nil, err
	}
	return lease, nil
}

// setUnitAvailability mirrors the lease state onto the property's
// availability flag. A missing property is logged and skipped; a failed
// save surfaces so the caller's lease update and this toggle are retried
// together.
func (s *LeaseService) setUnitAvailability(ctx context.Context, propertyID string, available bool) error {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		s.logger.Warn("availability toggle skipped, property not loadable",
			zap.String("property_id", propertyID),
			zap.Error(err),
		)
		return nil
	}
	if available {
		property.MarkAvailable()
	} else {
		property.MarkUnavailable()
	}
	return s.properties.Update(ctx, property)
}

func (s *LeaseService) getProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("property", map[string]any{"property_id": propertyID})
		}
		return nil, err
	}
	return property, nil
}

func (s *LeaseService) enqueueEmail(ctx context.Context, jobType string, payload map[string]any) {
	if s.enqueuer == nil {
		return
	}
	_, _ = s.enqueuer.Enqueue(ctx, jobType, payload)
}
