package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mwhayford/rental-service/internal/api/dto"
	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/service"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// PaymentsHandler manages payment and subscription endpoints.
type PaymentsHandler struct {
	service *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{service: paymentService}
}

// ConfirmPayment POST /payments/confirm. Gateway callback surface.
func (h *PaymentsHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req dto.ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.IntentID == "" {
		return apperrors.NewValidationError("intent_id required", nil)
	}
	var payment *domain.Payment
	var err error
	if req.Outcome == "failed" {
		payment, err = h.service.FailPayment(c.Context(), req.IntentID, req.Reason)
	} else {
		payment, err = h.service.ConfirmPayment(c.Context(), req.IntentID)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": paymentResponse(payment)})
}

// CancelPayment POST /payments/:id/cancel.
func (h *PaymentsHandler) CancelPayment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	payment, err := h.service.CancelPayment(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": paymentResponse(payment)})
}

// RefundPayment POST /payments/:id/refund.
func (h *PaymentsHandler) RefundPayment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	amount, err := req.Amount.ToMoney()
	if err != nil {
		return err
	}
	payment, err := h.service.RefundPayment(c.Context(), principal.User, c.Params("id"), amount)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": paymentResponse(payment)})
}

// GetPayment GET /payments/:id.
func (h *PaymentsHandler) GetPayment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	payment, err := h.service.GetPayment(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": paymentResponse(payment)})
}

// ListPayments GET /payments.
func (h *PaymentsHandler) ListPayments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	payments, err := h.service.ListPayments(c.Context(), principal.User, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return err
	}
	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, paymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateSubscription POST /subscriptions.
func (h *PaymentsHandler) CreateSubscription(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	amount, err := req.Amount.ToMoney()
	if err != nil {
		return err
	}
	sub, err := h.service.CreateSubscription(c.Context(), principal.User, req.PlanCode, amount, req.TrialUntil)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// CancelSubscription POST /subscriptions/:id/cancel.
func (h *PaymentsHandler) CancelSubscription(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	sub, err := h.service.CancelSubscription(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// PauseSubscription POST /subscriptions/:id/pause.
func (h *PaymentsHandler) PauseSubscription(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	sub, err := h.service.PauseSubscription(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// ListSubscriptions GET /subscriptions.
func (h *PaymentsHandler) ListSubscriptions(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	subs, err := h.service.ListSubscriptions(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, subscriptionResponse(&subs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func paymentResponse(payment *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:              payment.ID,
		UserID:          payment.UserID,
		Purpose:         payment.Purpose,
		ReferenceID:     payment.ReferenceID,
		Amount:          dto.MoneyFromDomain(payment.Amount),
		RefundedAmount:  dto.MoneyPtrFromDomain(payment.RefundedAmount),
		Status:          payment.Status,
		GatewayIntentID: payment.GatewayIntentID,
		FailureReason:   payment.FailureReason,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
	}
}

func subscriptionResponse(sub *domain.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		ID:               sub.ID,
		UserID:           sub.UserID,
		PlanCode:         sub.PlanCode,
		Amount:           dto.MoneyFromDomain(sub.Amount),
		Status:           sub.Status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		CanceledAt:       sub.CanceledAt,
		CreatedAt:        sub.CreatedAt,
		UpdatedAt:        sub.UpdatedAt,
	}
}
