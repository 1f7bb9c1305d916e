package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mwhayford/rental-service/internal/api/dto"
	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/repository"
	"github.com/mwhayford/rental-service/internal/service"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// PropertiesHandler manages property inventory and listing endpoints.
type PropertiesHandler struct {
	service *service.PropertyService
}

// NewPropertiesHandler constructs handler.
func NewPropertiesHandler(propertyService *service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{service: propertyService}
}

// CreateProperty POST /properties.
func (h *PropertiesHandler) CreateProperty(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rent, err := req.MonthlyRent.ToMoney()
	if err != nil {
		return err
	}
	var fee *domain.Money
	if req.ApplicationFee != nil {
		value, err := req.ApplicationFee.ToMoney()
		if err != nil {
			return err
		}
		fee = &value
	}
	property, err := h.service.CreateProperty(c.Context(), principal.User, service.PropertyCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Address: domain.PropertyAddress{
			Street:     req.Address.Street,
			City:       req.Address.City,
			State:      req.Address.State,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		},
		Type:           req.Type,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		MonthlyRent:    rent,
		ApplicationFee: fee,
		MetroArea:      req.MetroArea,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": propertyResponse(property)})
}

// SearchProperties GET /properties. Public listing search.
func (h *PropertiesHandler) SearchProperties(c *fiber.Ctx) error {
	filter := parsePropertyQuery(c)
	properties, err := h.service.SearchListings(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": propertyResponses(properties)})
}

// ListOwned GET /properties/mine.
func (h *PropertiesHandler) ListOwned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := parsePropertyQuery(c)
	properties, err := h.service.ListOwned(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": propertyResponses(properties)})
}

// GetProperty GET /properties/:id.
func (h *PropertiesHandler) GetProperty(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var actor *domain.User
	if principal != nil {
		actor = principal.User
	}
	property, err := h.service.GetProperty(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": propertyResponse(property)})
}

// UpdateProperty PATCH /properties/:id.
func (h *PropertiesHandler) UpdateProperty(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	propertyID := c.Params("id")
	var property *domain.Property
	var err error

	if req.MonthlyRent != nil {
		rent, convErr := req.MonthlyRent.ToMoney()
		if convErr != nil {
			return convErr
		}
		if property, err = h.service.UpdateRent(c.Context(), principal.User, propertyID, rent); err != nil {
			return err
		}
	}
	if req.ApplicationFee != nil || req.ClearFee {
		var fee *domain.Money
		if req.ApplicationFee != nil {
			value, convErr := req.ApplicationFee.ToMoney()
			if convErr != nil {
				return convErr
			}
			fee = &value
		}
		if property, err = h.service.SetApplicationFee(c.Context(), principal.User, propertyID, fee); err != nil {
			return err
		}
	}
	if req.Listed != nil {
		if *req.Listed {
			property, err = h.service.ListProperty(c.Context(), principal.User, propertyID)
		} else {
			property, err = h.service.UnlistProperty(c.Context(), principal.User, propertyID)
		}
		if err != nil {
			return err
		}
	}
	if property == nil {
		if property, err = h.service.GetProperty(c.Context(), principal.User, propertyID); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": propertyResponse(property)})
}

// AddImage POST /properties/:id/images.
func (h *PropertiesHandler) AddImage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	property, err := h.service.AddImage(c.Context(), principal.User, c.Params("id"), req.URL)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": propertyResponse(property)})
}

// RemoveImage DELETE /properties/:id/images.
func (h *PropertiesHandler) RemoveImage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	property, err := h.service.RemoveImage(c.Context(), principal.User, c.Params("id"), req.URL)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": propertyResponse(property)})
}

// GetSettings GET /settings.
func (h *PropertiesHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings(c.Context())
	if err != nil {
		return err
	}
	response := dto.SettingsResponse{}
	if settings != nil {
		response.DefaultApplicationFee = dto.MoneyPtrFromDomain(settings.DefaultApplicationFee)
		response.DefaultCurrency = settings.DefaultCurrency
	}
	return c.JSON(fiber.Map{"data": response})
}

// UpdateSettings PUT /settings.
func (h *PropertiesHandler) UpdateSettings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	settings := &domain.ApplicationSettings{DefaultCurrency: req.DefaultCurrency}
	if req.DefaultApplicationFee != nil {
		fee, err := req.DefaultApplicationFee.ToMoney()
		if err != nil {
			return err
		}
		settings.DefaultApplicationFee = &fee
	}
	if err := h.service.UpdateSettings(c.Context(), principal.User, settings); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SettingsResponse{
		DefaultApplicationFee: dto.MoneyPtrFromDomain(settings.DefaultApplicationFee),
		DefaultCurrency:       settings.DefaultCurrency,
	}})
}

func parsePropertyQuery(c *fiber.Ctx) repository.PropertyFilter {
	filter := repository.PropertyFilter{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if v := c.Query("metro_area"); v != "" {
		filter.MetroArea = &v
	}
	if v := c.Query("city"); v != "" {
		filter.City = &v
	}
	if v := c.Query("type"); v != "" {
		propertyType := domain.PropertyType(v)
		filter.Type = &propertyType
	}
	if v := c.Query("min_bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinBedrooms = &n
		}
	}
	if v := c.Query("max_rent"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.MaxRent = &n
		}
	}
	if v := c.Query("available"); v != "" {
		available := v == "true"
		filter.Available = &available
	}
	return filter
}

func propertyResponse(property *domain.Property) dto.PropertyResponse {
	return dto.PropertyResponse{
		ID:          property.ID,
		OwnerID:     property.OwnerID,
		Title:       property.Title,
		Description: property.Description,
		Address: dto.AddressPayload{
			Street:     property.Address.Street,
			City:       property.Address.City,
			State:      property.Address.State,
			PostalCode: property.Address.PostalCode,
			Country:    property.Address.Country,
		},
		Type:           property.Type,
		Bedrooms:       property.Bedrooms,
		Bathrooms:      property.Bathrooms,
		MonthlyRent:    dto.MoneyFromDomain(property.MonthlyRent),
		ApplicationFee: dto.MoneyPtrFromDomain(property.ApplicationFee),
		MetroArea:      property.MetroArea,
		IsListed:       property.IsListed,
		IsAvailable:    property.IsAvailable,
		Images:         property.Images,
		CreatedAt:      property.CreatedAt,
		UpdatedAt:      property.UpdatedAt,
	}
}

func propertyResponses(properties []domain.Property) []dto.PropertyResponse {
	items := make([]dto.PropertyResponse, 0, len(properties))
	for i := range properties {
		items = append(items, propertyResponse(&properties[i]))
	}
	return items
}
