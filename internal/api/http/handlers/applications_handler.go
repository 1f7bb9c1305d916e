package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mwhayford/rental-service/internal/api/dto"
	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/repository"
	"github.com/mwhayford/rental-service/internal/service"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// ApplicationsHandler manages tenant application endpoints.
type ApplicationsHandler struct {
	service  *service.ApplicationService
	payments *service.PaymentService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applicationService *service.ApplicationService, paymentService *service.PaymentService) *ApplicationsHandler {
	return &ApplicationsHandler{service: applicationService, payments: paymentService}
}

// CreateApplication POST /applications.
func (h *ApplicationsHandler) CreateApplication(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PropertyID == "" {
		return apperrors.NewValidationError("property_id required", nil)
	}
	app, err := h.service.CreateApplication(c.Context(), principal.User, req.PropertyID, req.ApplicationData)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": applicationResponse(app)})
}

// SubmitApplication POST /applications/:id/submit.
func (h *ApplicationsHandler) SubmitApplication(c *fiber.Ctx) error {
	return h.transition(c, func(actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
		return h.service.SubmitApplication(c.Context(), actor, applicationID)
	})
}

// ReviewApplication POST /applications/:id/review.
func (h *ApplicationsHandler) ReviewApplication(c *fiber.Ctx) error {
	return h.transition(c, func(actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
		return h.service.ReviewApplication(c.Context(), actor, applicationID)
	})
}

// ApproveApplication POST /applications/:id/approve.
func (h *ApplicationsHandler) ApproveApplication(c *fiber.Ctx) error {
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.transition(c, func(actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
		return h.service.ApproveApplication(c.Context(), actor, applicationID, req.Notes)
	})
}

// RejectApplication POST /applications/:id/reject.
func (h *ApplicationsHandler) RejectApplication(c *fiber.Ctx) error {
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.transition(c, func(actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
		return h.service.RejectApplication(c.Context(), actor, applicationID, req.Notes)
	})
}

// WithdrawApplication POST /applications/:id/withdraw.
func (h *ApplicationsHandler) WithdrawApplication(c *fiber.Ctx) error {
	return h.transition(c, func(actor *domain.User, applicationID string) (*domain.PropertyApplication, error) {
		return h.service.WithdrawApplication(c.Context(), actor, applicationID)
	})
}

// CreateFeeIntent POST /applications/:id/fee-intent.
func (h *ApplicationsHandler) CreateFeeIntent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	app, err := h.service.GetApplication(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	if app.ApplicantID != principal.User.ID && principal.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("only the applicant can pay the fee")
	}
	result, err := h.payments.CreateIntent(c.Context(), principal.User,
		domain.PaymentPurposeApplicationFee, app.ID, app.ApplicationFee)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FeeIntentResponse{
		PaymentID:    result.Payment.ID,
		IntentID:     result.Payment.GatewayIntentID,
		ClientSecret: result.ClientSecret,
		Amount:       dto.MoneyFromDomain(result.Payment.Amount),
	}})
}

// GetApplication GET /applications/:id.
func (h *ApplicationsHandler) GetApplication(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	app, err := h.service.GetApplication(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(app)})
}

// ListApplications GET /applications.
func (h *ApplicationsHandler) ListApplications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := repository.ApplicationFilter{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if v := c.Query("property_id"); v != "" {
		filter.PropertyID = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Statuses = []domain.ApplicationStatus{domain.ApplicationStatus(v)}
	}
	apps, err := h.service.ListApplications(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, applicationResponse(&apps[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ApplicationsHandler) transition(c *fiber.Ctx, apply func(*domain.User, string) (*domain.PropertyApplication, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	app, err := apply(principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(app)})
}

func applicationResponse(app *domain.PropertyApplication) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:                      app.ID,
		PropertyID:              app.PropertyID,
		ApplicantID:             app.ApplicantID,
		Status:                  app.Status,
		ApplicationData:         app.ApplicationData,
		ApplicationFee:          dto.MoneyFromDomain(app.ApplicationFee),
		ApplicationFeePaymentID: app.ApplicationFeePaymentID,
		SubmittedAt:             app.SubmittedAt,
		ReviewedAt:              app.ReviewedAt,
		ReviewedBy:              app.ReviewedBy,
		DecisionNotes:           app.DecisionNotes,
		CreatedAt:               app.CreatedAt,
		UpdatedAt:               app.UpdatedAt,
	}
}
