package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/repository"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// PropertyService coordinates property inventory and listing workflows.
type PropertyService struct {
	properties repository.PropertyRepository
	settings   repository.SettingsRepository
	dispatcher events.Dispatcher
}

// PropertyDependencies bundles collaborators for the property service.
type PropertyDependencies struct {
	PropertyRepo repository.PropertyRepository
	SettingsRepo repository.SettingsRepository
	Dispatcher   events.Dispatcher
}

// NewPropertyService constructs the service.
func NewPropertyService(deps PropertyDependencies) *PropertyService {
	return &PropertyService{
		properties: deps.PropertyRepo,
		settings:   deps.SettingsRepo,
		dispatcher: deps.Dispatcher,
	}
}

// PropertyCreateInput describes a new rental unit.
type PropertyCreateInput struct {
	Title          string
	Description    string
	Address        domain.PropertyAddress
	Type           domain.PropertyType
	Bedrooms       int
	Bathrooms      int
	MonthlyRent    domain.Money
	ApplicationFee *domain.Money
	MetroArea      string
}

// CreateProperty registers a unit under the actor's ownership.
func (s *PropertyService) CreateProperty(ctx context.Context, actor *domain.User, input PropertyCreateInput) (*domain.Property, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RolePropertyOwner {
		return nil, apperrors.NewForbidden("only property owners can register units")
	}
	address, err := domain.NewPropertyAddress(input.Address.Street, input.Address.City,
		input.Address.State, input.Address.PostalCode, input.Address.Country)
	if err != nil {
		return nil, err
	}
	property, err := domain.NewProperty(domain.PropertyParams{
		OwnerID:        actor.ID,
		Title:          input.Title,
		Description:    input.Description,
		Address:        address,
		Type:           input.Type,
		Bedrooms:       input.Bedrooms,
		Bathrooms:      input.Bathrooms,
		MonthlyRent:    input.MonthlyRent,
		ApplicationFee: input.ApplicationFee,
		MetroArea:      input.MetroArea,
	})
	if err != nil {
		return nil, err
	}
	if err := s.properties.Create(ctx, property); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, property, actor.ID)
	return property, nil
}

// ListProperty publishes the unit to the public surface.
func (s *PropertyService) ListProperty(ctx context.Context, actor *domain.User, propertyID string) (*domain.Property, error) {
	property, err := s.getOwnedProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}
	if err := property.List(); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, property, actor.ID)
}

// UnlistProperty removes the unit from the public surface.
func (s *PropertyService) UnlistProperty(ctx context.Context, actor *domain.User, propertyID string) (*domain.Property, error) {
	property, err := s.getOwnedProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}
	if err := property.Unlist(); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, property, actor.ID)
}

// UpdateRent changes the advertised rent.
func (s *PropertyService) UpdateRent(ctx context.Context, actor *domain.User, propertyID string, rent domain.Money) (*domain.Property, error) {
	property, err := s.getOwnedProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}
	if err := property.UpdateRent(rent); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, property, actor.ID)
}

// SetApplicationFee overrides the org-wide fee for this unit; nil clears
// the override.
func (s *PropertyService) SetApplicationFee(ctx context.Context, actor *domain.User, propertyID string, fee *domain.Money) (*domain.Property, error) {
	property, err := s.getOwnedProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}
	property.SetApplicationFee(fee)
	return s.saveAndPublish(ctx, property, actor.ID)
}

// AddImage attaches an image URL; duplicates are ignored.
func (s *PropertyService) AddImage(ctx context.Context, actor *domain.User, propertyID, url string) (*domain.Property, error) {
	property, err := s.getOwnedProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}
	if err := property.AddImage(url); err != nil {
		return nil, err
	}
	return s.saveAndPublish(ctx, property, actor.ID)
}

// RemoveImage detaches an image URL if present.
func (s *PropertyService) RemoveImage(ctx context.Context, actor *domain.User, propertyID, url string) (*domain.Property, error) {
	property, err := s.getOwnedProperty(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}
	property.RemoveImage(url)
	return s.saveAndPublish(ctx, property, actor.ID)
}

// GetProperty fetches a unit. Unlisted units are visible only to their
// owner and admins.
func (s *PropertyService) GetProperty(ctx context.Context, actor *domain.User, propertyID string) (*domain.Property, error) {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.IsListed {
		return property, nil
	}
	if actor != nil && (actor.Role == domain.RoleAdmin || property.OwnerID == actor.ID) {
		return property, nil
	}
	return nil, apperrors.NewNotFound("property", map[string]any{"property_id": propertyID})
}

// SearchListings returns listed units matching the filter. Public.
func (s *PropertyService) SearchListings(ctx context.Context, filter repository.PropertyFilter) ([]domain.Property, error) {
	filter.ListedOnly = true
	return s.properties.ListWithFilter(ctx, filter)
}

// ListOwned returns the actor's own inventory, listed or not.
func (s *PropertyService) ListOwned(ctx context.Context, actor *domain.User, filter repository.PropertyFilter) ([]domain.Property, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.RoleAdmin {
		filter.OwnerID = &actor.ID
	}
	return s.properties.ListWithFilter(ctx, filter)
}

// GetSettings returns the org-wide defaults, if any were saved.
func (s *PropertyService) GetSettings(ctx context.Context) (*domain.ApplicationSettings, error) {
	return s.settings.Get(ctx)
}

// UpdateSettings saves org-wide defaults. Admin only.
func (s *PropertyService) UpdateSettings(ctx context.Context, actor *domain.User, settings *domain.ApplicationSettings) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("only admins can change org settings")
	}
	if settings.ID == "" {
		settings.ID = "default"
	}
	return s.settings.Upsert(ctx, settings)
}

func (s *PropertyService) saveAndPublish(ctx context.Context, property *domain.Property, actorID string) (*domain.Property, error) {
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.dispatcher, property, actorID)
	return property, nil
}

func (s *PropertyService) getProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("property", map[string]any{"property_id": propertyID})
		}
		return nil, err
	}
	return property, nil
}

func (s *PropertyService) getOwnedProperty(ctx context.Context, actor *domain.User, propertyID string) (*domain.Property, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && property.OwnerID != actor.ID {
		return nil, apperrors.NewForbidden("only the property owner can manage this unit")
	}
	return property, nil
}
