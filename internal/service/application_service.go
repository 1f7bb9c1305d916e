package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/jobs"
	"github.com/mwhayford/rental-service/internal/repository"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// ApplicationService coordinates tenant application workflows.
type ApplicationService struct {
	applications repository.ApplicationRepository
	properties   repository.PropertyRepository
	settings     repository.SettingsRepository
	dispatcher   events.Dispatcher
	enqueuer     jobs.Enqueuer
	currency     string
}

// ApplicationDependencies bundles collaborators for the application service.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	PropertyRepo    repository.PropertyRepository
	SettingsRepo    repository.SettingsRepository
	Dispatcher      events.Dispatcher
	Enqueuer        jobs.Enqueuer
	DefaultCurrency string
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		properties:   deps.PropertyRepo,
		settings:     deps.SettingsRepo,
		dispatcher:   deps.Dispatcher,
		enqueuer:     deps.Enqueuer,
		currency:     deps.DefaultCurrency,
	}
}

// CreateApplication opens an application for the actor on a listed
// property. The fee is resolved at creation time: property override,
// then org default, then the hardcoded fallback.
func (s *ApplicationService) CreateApplication(ctx context.Context, actor *domain.User, propertyID, applicationData string) (*domain.PropertyApplication, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("property", map[string]any{"property_id": propertyID})
		}
		return nil, err
	}
	if !property.IsListed || !property.IsAvailable {
		return nil, apperrors.NewInvalidState("property is not accepting applications")
	}

	fee, err := s.resolveFee(ctx, property)
	if err != nil {
		return nil, err
	}
	app, err := domain.NewPropertyApplication(property.ID, actor.ID, applicationData, fee)
	if err != nil {
		return nil, err
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// SubmitApplication marks the application submitted and queues the
// confirmation email.
func (s *ApplicationService) SubmitApplication(ctx context.Context, actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
	app, err := s.getApplicationForApplicant(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.Submit(time.Now()); err != nil {
		return nil, err
	}
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, app, actor.ID)
	s.enqueueEmail(ctx, jobs.JobApplicationSubmitted, map[string]any{
		"application_id": app.ID,
		"applicant_id":   app.ApplicantID,
		"fee":            app.ApplicationFee.String(),
	})
	return app, nil
}

// ReviewApplication moves a submitted application under review.
func (s *ApplicationService) ReviewApplication(ctx context.Context, actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
	app, err := s.getApplicationForOwner(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.Review(actor.ID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, app, actor.ID)
	return app, nil
}

// ApproveApplication records an approval decision.
func (s *ApplicationService) ApproveApplication(ctx context.Context, actor *domain.User, applicationID, notes string) (*domain.PropertyApplication, error) {
	return s.decide(ctx, actor, applicationID, notes, true)
}

// RejectApplication records a rejection decision.
func (s *ApplicationService) RejectApplication(ctx context.Context, actor *domain.User, applicationID, notes string) (*domain.PropertyApplication, error) {
	return s.decide(ctx, actor, applicationID, notes, false)
}

func (s *ApplicationService) decide(ctx context.Context, actor *domain.User, applicationID, notes string, approve bool) (*domain.PropertyApplication, error) {
	app, err := s.getApplicationForOwner(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if approve {
		err = app.Approve(actor.ID, notes, time.Now())
	} else {
		err = app.Reject(actor.ID, notes, time.Now())
	}
	if err != nil {
		return nil, err
	}
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, app, actor.ID)
	s.enqueueEmail(ctx, jobs.JobApplicationDecided, map[string]any{
		"application_id": app.ID,
		"applicant_id":   app.ApplicantID,
		"status":         app.Status,
	})
	return app, nil
}

// WithdrawApplication retracts the actor's own application.
func (s *ApplicationService) WithdrawApplication(ctx context.Context, actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
	app, err := s.getApplicationForApplicant(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if err := app.Withdraw(); err != nil {
		return nil, err
	}
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, app, actor.ID)
	return app, nil
}

// AttachFeePayment records the settled gateway payment on the
// application. Invoked by the payment workflow, not the HTTP surface.
func (s *ApplicationService) AttachFeePayment(ctx context.Context, applicationID, paymentID string) error {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := app.AttachPayment(paymentID); err != nil {
		return err
	}
	return s.applications.Update(ctx, app)
}

// GetApplication fetches an application visible to the actor.
func (s *ApplicationService) GetApplication(ctx context.Context, actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleAdmin || app.ApplicantID == actor.ID {
		return app, nil
	}
	if allowed, err := s.actorOwnsProperty(ctx, actor, app.PropertyID); err != nil {
		return nil, err
	} else if allowed {
		return app, nil
	}
	return nil, apperrors.NewForbidden("access denied")
}

// ListApplications returns applications scoped to the actor.
func (s *ApplicationService) ListApplications(ctx context.Context, actor *domain.User, filter repository.ApplicationFilter) ([]domain.PropertyApplication, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RolePropertyOwner:
		filter.PropertyOwnerID = &actor.ID
	default:
		filter.ApplicantID = &actor.ID
	}
	return s.applications.ListWithFilter(ctx, filter)
}

// resolveFee applies the fee policy: property-specific fee if set, else
// the org-wide default, else the hardcoded fallback.
func (s *ApplicationService) resolveFee(ctx context.Context, property *domain.Property) (domain.Money, error) {
	if property.ApplicationFee != nil {
		return *property.ApplicationFee, nil
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Money{}, err
	}
	if settings != nil && settings.DefaultApplicationFee != nil {
		return *settings.DefaultApplicationFee, nil
	}
	currency := s.currency
	if settings != nil && settings.DefaultCurrency != "" {
		currency = settings.DefaultCurrency
	}
	return domain.FallbackApplicationFee(currency), nil
}

func (s *ApplicationService) getApplication(ctx context.Context, applicationID string) (*domain.PropertyApplication, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("application", map[string]any{"application_id": applicationID})
		}
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) getApplicationForApplicant(ctx context.Context, actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && app.ApplicantID != actor.ID {
		return nil, apperrors.NewForbidden("only the applicant can perform this step")
	}
	return app, nil
}

func (s *ApplicationService) getApplicationForOwner(ctx context.Context, actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin {
		if allowed, err := s.actorOwnsProperty(ctx, actor, app.PropertyID); err != nil {
			return nil, err
		} else if !allowed {
			return nil, apperrors.NewForbidden("only the property owner can review applications")
		}
	}
	return app, nil
}

func (s *ApplicationService) actorOwnsProperty(ctx context.Context, actor *domain.User, propertyID string) (bool, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return property.OwnerID == actor.ID, nil
}

func (s *ApplicationService) enqueueEmail(ctx context.Context, jobType string, payload map[string]any) {
	if s.enqueuer == nil {
		return
	}
	_, _ = s.enqueuer.Enqueue(ctx, jobType, payload)
}
