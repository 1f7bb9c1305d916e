package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mwhayford/rental-service/internal/api/dto"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/service"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// AuthHandler manages registration and login endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	user, err := h.service.Register(c.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		User:      userResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Email:    user.Email.String(),
		FullName: user.FullName,
		Role:     user.Role,
	}
}
