package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mwhayford/rental-service/internal/api/dto"
	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/repository"
	"github.com/mwhayford/rental-service/internal/service"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// LeasesHandler manages lease lifecycle endpoints.
type LeasesHandler struct {
	service *service.LeaseService
}

// NewLeasesHandler constructs handler.
func NewLeasesHandler(leaseService *service.LeaseService) *LeasesHandler {
	return &LeasesHandler{service: leaseService}
}

// CreateLease POST /leases.
func (h *LeasesHandler) CreateLease(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateLeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rent, err := req.MonthlyRent.ToMoney()
	if err != nil {
		return err
	}
	deposit, err := req.SecurityDeposit.ToMoney()
	if err != nil {
		return err
	}
	lease, err := h.service.CreateLease(c.Context(), principal.User, service.LeaseCreateInput{
		PropertyID:            req.PropertyID,
		TenantID:              req.TenantID,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		MonthlyRent:           rent,
		SecurityDeposit:       deposit,
		PaymentFrequency:      req.PaymentFrequency,
		PaymentDayOfMonth:     req.PaymentDayOfMonth,
		SpecialTerms:          req.SpecialTerms,
		PropertyApplicationID: req.PropertyApplicationID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": leaseResponse(lease)})
}

// ActivateLease POST /leases/:id/activate.
func (h *LeasesHandler) ActivateLease(c *fiber.Ctx) error {
	return h.transition(c, func(actor *domain.User, leaseID string) (*domain.Lease, error) {
		return h.service.ActivateLease(c.Context(), actor, leaseID)
	})
}

// TerminateLease POST /leases/:id/terminate.
func (h *LeasesHandler) TerminateLease(c *fiber.Ctx) error {
	var req dto.TerminateLeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return h.transition(c, func(actor *domain.User, leaseID string) (*domain.Lease, error) {
		return h.service.TerminateLease(c.Context(), actor, leaseID, req.Reason)
	})
}

// ExpireLease POST /leases/:id/expire.
func (h *LeasesHandler) ExpireLease(c *fiber.Ctx) error {
	return h.transition(c, func(actor *domain.User, leaseID string) (*domain.Lease, error) {
		return h.service.ExpireLease(c.Context(), actor, leaseID)
	})
}

// RenewLease POST /leases/:id/renew.
func (h *LeasesHandler) RenewLease(c *fiber.Ctx) error {
	var req dto.RenewLeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	var newRent *domain.Money
	if req.NewMonthlyRent != nil {
		rent, err := req.NewMonthlyRent.ToMoney()
		if err != nil {
			return err
		}
		newRent = &rent
	}
	return h.transition(c, func(actor *domain.User, leaseID string) (*domain.Lease, error) {
		return h.service.RenewLease(c.Context(), actor, leaseID, req.NewEndDate, newRent)
	})
}

// UpdateRent POST /leases/:id/rent.
func (h *LeasesHandler) UpdateRent(c *fiber.Ctx) error {
	var req dto.UpdateRentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rent, err := req.MonthlyRent.ToMoney()
	if err != nil {
		return err
	}
	return h.transition(c, func(actor *domain.User, leaseID string) (*domain.Lease, error) {
		return h.service.UpdateRent(c.Context(), actor, leaseID, rent)
	})
}

// GetLease GET /leases/:id.
func (h *LeasesHandler) GetLease(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	lease, err := h.service.GetLease(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leaseResponse(lease)})
}

// ListLeases GET /leases.
func (h *LeasesHandler) ListLeases(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := repository.LeaseFilter{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if v := c.Query("status"); v != "" {
		filter.Statuses = []domain.LeaseStatus{domain.LeaseStatus(v)}
	}
	if v := c.Query("property_id"); v != "" {
		filter.PropertyID = &v
	}
	leases, err := h.service.ListLeases(c.Context(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.LeaseResponse, 0, len(leases))
	for i := range leases {
		items = append(items, leaseResponse(&leases[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *LeasesHandler) transition(c *fiber.Ctx, apply func(*domain.User, string) (*domain.Lease, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	lease, err := apply(principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": leaseResponse(lease)})
}

func leaseResponse(lease *domain.Lease) dto.LeaseResponse {
	return dto.LeaseResponse{
		ID:                    lease.ID,
		PropertyID:            lease.PropertyID,
		TenantID:              lease.TenantID,
		LandlordID:            lease.LandlordID,
		Status:                lease.Status,
		StartDate:             lease.StartDate,
		EndDate:               lease.EndDate,
		MonthlyRent:           dto.MoneyFromDomain(lease.MonthlyRent),
		SecurityDeposit:       dto.MoneyFromDomain(lease.SecurityDeposit),
		PaymentFrequency:      lease.PaymentFrequency,
		PaymentDayOfMonth:     lease.PaymentDayOfMonth,
		SpecialTerms:          lease.SpecialTerms,
		PropertyApplicationID: lease.PropertyApplicationID,
		TerminationReason:     lease.TerminationReason,
		ActivatedAt:           lease.ActivatedAt,
		TerminatedAt:          lease.TerminatedAt,
		DurationDays:          lease.GetDurationInDays(),
		RemainingDays:         lease.GetRemainingDays(time.Now()),
		CreatedAt:             lease.CreatedAt,
		UpdatedAt:             lease.UpdatedAt,
	}
}
