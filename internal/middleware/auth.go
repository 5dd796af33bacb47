package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roomscan-api/internal/services"
	"github.com/localnerve/roomscan-api/internal/types"
)

// SessionValidator validates an Authorizer session cookie for a set of roles
type SessionValidator interface {
	Enabled() bool
	ValidateSession(requestProtocol, requestHost, cookie string, roles []string) (map[string]interface{}, error)
}

var _ SessionValidator = (*services.Authorizer)(nil)

// AuthAdmin validates that the request has admin role authorization.
// Requests pass through untouched when no Authorizer is configured.
func AuthAdmin(az SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if az == nil || !az.Enabled() {
			return c.Next()
		}
		return authorize(c, az, []string{"admin"}, "roomscan.authorization.admin")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, az SessionValidator, roles []string, errorType string) error {
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	data, err := az.ValidateSession(c.Protocol(), c.Hostname(), session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	if user, ok := data["user"]; ok {
		c.Locals("user", user)
	}

	return c.Next()
}
