package handler

import (
	"errors"

	"github.com/AnthoniusHendriyanto/authkit/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/authkit/internal/errors"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "Invalid request body",
		})
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Success: true,
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "Invalid request body",
		})
	}

	// Coarse presence check; the full rule set only runs at registration.
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "Email and password are required",
		})
	}

	tokens, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "Invalid request body",
		})
	}

	if input.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "Refresh token is required",
		})
	}

	tokens, err := h.userService.Refresh(c.Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// The body is optional; a missing or empty refresh token still logs out.
	var input dto.LogoutInput
	_ = c.BodyParser(&input)

	if err := h.userService.Logout(c.Context(), input.RefreshToken); err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.MessageResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error:   "UNAUTHORIZED",
			Message: "Access token required",
		})
	}

	profile, err := h.userService.Profile(c.Context(), claims.Subject)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.ProfileResponse{
		Success: true,
		Data:    *profile,
	})
}

func writeServiceError(c *fiber.Ctx, err error) error {
	var vErr *autherror.ValidationError
	var rlErr *autherror.RateLimitError

	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "Validation failed",
			Fields:  vErr.Fields,
		})
	case errors.As(err, &rlErr):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error:      "RATE_LIMITED",
			Message:    "Too many login attempts",
			RetryAfter: rlErr.RetryAfter,
		})
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error:   "EMAIL_EXISTS",
			Message: "An account with this email already exists",
		})
	case errors.Is(err, autherror.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error:   "INVALID_CREDENTIALS",
			Message: "Invalid email or password",
		})
	case errors.Is(err, autherror.ErrRefreshTokenInvalid):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error:   "INVALID_TOKEN",
			Message: "Refresh token is invalid or expired",
		})
	case errors.Is(err, autherror.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "User not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   "SERVER_ERROR",
			Message: "An unexpected error occurred",
		})
	}
}
