package middleware

import (
	"net/http/httptest"
	"testing"

	"brickblock-backend/internal/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appWithUser(user interface{}, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(userLocal, user)
		return c.Next()
	})
	app.Get("/x", guard, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func status(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	return resp.StatusCode
}

func TestGetActor(t *testing.T) {
	app := fiber.New()
	var got *Actor
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(userLocal, map[string]interface{}{"address": "0xabc", "role": "admin"})
		got = GetActor(c)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0xabc", got.Address)
	assert.True(t, got.IsAdmin())
}

func TestRequireAuth(t *testing.T) {
	assert.Equal(t, fiber.StatusUnauthorized, status(t, appWithUser(nil, RequireAuth())))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, appWithUser(map[string]interface{}{"role": "admin"}, RequireAuth())))
	assert.Equal(t, fiber.StatusOK, status(t, appWithUser(map[string]interface{}{"address": "0xabc", "role": "investor"}, RequireAuth())))
}

func TestRequireAdmin(t *testing.T) {
	investor := map[string]interface{}{"address": "0xabc", "role": "investor"}
	admin := map[string]interface{}{"address": "0xadmin", "role": "admin"}
	assert.Equal(t, fiber.StatusUnauthorized, status(t, appWithUser(nil, RequireAdmin())))
	assert.Equal(t, fiber.StatusForbidden, status(t, appWithUser(investor, RequireAdmin())))
	assert.Equal(t, fiber.StatusOK, status(t, appWithUser(admin, RequireAdmin())))
}

func TestAuthorizePermission(t *testing.T) {
	investor := map[string]interface{}{"address": "0xabc", "role": "investor"}
	noRole := map[string]interface{}{"address": "0xabc"}
	assert.Equal(t, fiber.StatusOK, status(t, appWithUser(investor, AuthorizePermission(constants.BuyShares))))
	assert.Equal(t, fiber.StatusForbidden, status(t, appWithUser(investor, AuthorizePermission(constants.SubmitRent))))
	assert.Equal(t, fiber.StatusInternalServerError, status(t, appWithUser(investor, AuthorizePermission("nope"))))
	assert.Equal(t, fiber.StatusInternalServerError, status(t, appWithUser(noRole, AuthorizePermission(constants.BuyShares))))
}
