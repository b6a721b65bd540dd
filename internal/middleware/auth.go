package middleware

import (
	"brickblock-backend/internal/constants"
	"brickblock-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// Actor is the authenticated caller as seen by the services.
type Actor struct {
	Address string
	Role    string
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == constants.Admin
}

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetActor(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", GetUser(c))
		return c.Next()
	}
}

// RequireAdmin is shorthand for RequireAuth followed by an admin role check.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !actor.IsAdmin() {
			return response.Error(c, "User is Forbidden from performing this action", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// GetActor converts the session user into an Actor; nil when there is no usable session.
func GetActor(c *fiber.Ctx) *Actor {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return nil
	}
	addr, _ := m["address"].(string)
	if addr == "" {
		return nil
	}
	role, _ := m["role"].(string)
	return &Actor{Address: addr, Role: role}
}
