package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/authkit/internal/auth/dto"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/service"
	autherror "github.com/AnthoniusHendriyanto/authkit/internal/errors"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const claimsLocalKey = "accessClaims"

// RequireAuth is the gate in front of every endpoint that needs a caller
// identity. Missing and expired tokens answer 401 (the caller can log in or
// refresh); a token that fails verification answers 403 and is terminal.
func RequireAuth(tokens service.TokenGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Access token required",
			})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   "UNAUTHORIZED",
				Message: "Access token required",
			})
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			if errors.Is(err, autherror.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error:   "TOKEN_EXPIRED",
					Message: "Access token has expired",
				})
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   "FORBIDDEN",
				Message: "Access token is invalid",
			})
		}

		c.Locals(claimsLocalKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext returns the verified claims attached by RequireAuth.
func ClaimsFromContext(c *fiber.Ctx) (*service.AccessClaims, bool) {
	claims, ok := c.Locals(claimsLocalKey).(*service.AccessClaims)
	return claims, ok
}

// RequestLogger logs each request with method, path, status, and latency.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)

		return err
	}
}

// NotFound answers any unmatched route with the structured 404 body.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error:   "NOT_FOUND",
		Message: "Endpoint not found",
	})
}

// ErrorHandler translates unhandled fiber errors into the structured 500
// body so every response stays a JSON object.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusNotFound {
		return NotFound(c)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:   "SERVER_ERROR",
		Message: "An unexpected error occurred",
	})
}
