package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"
	"estate-crm/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSessions map[string]tenancy.Principal

func (s staticSessions) Resolve(_ context.Context, userID string) (tenancy.Principal, error) {
	p, ok := s[userID]
	if !ok {
		return tenancy.Principal{}, errs.ErrNotFound
	}
	return p, nil
}

func TestErrorHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"authorization", errs.Denied("sales", "users", "delete", ""), fiber.StatusForbidden},
		{"wrapped authorization", fmt.Errorf("list: %w", errs.Denied("sales", "users", "read", "tenant")), fiber.StatusForbidden},
		{"tenant mismatch", &errs.TenantMismatchError{SessionTenant: "T1", RequestedTenant: "T2"}, fiber.StatusForbidden},
		{"missing tenant", errs.ErrMissingTenantContext, fiber.StatusForbidden},
		{"platform scope", errs.ErrPlatformScope, fiber.StatusForbidden},
		{"platform tenant", fmt.Errorf("tenants: %w", errs.ErrPlatformTenant), fiber.StatusForbidden},
		{"not found", fmt.Errorf("lead: %w", errs.ErrNotFound), fiber.StatusNotFound},
		{"invalid", errs.Invalid("bad"), fiber.StatusBadRequest},
		{"fiber error", fiber.NewError(fiber.StatusUnauthorized, "nope"), fiber.StatusUnauthorized},
		{"storage", errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop(), nil)})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.code == fiber.StatusInternalServerError {
				assert.Equal(t, "Internal Server Error", body["error"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	table, err := permission.NewDefaultTable()
	require.NoError(t, err)
	resolver := permission.NewResolver(table)
	sessions := staticSessions{
		"U1": {UserID: "U1", Role: permission.RoleSales, TenantID: "T1"},
		"A":  {UserID: "A", Role: permission.RoleAdmin, TenantID: "T1"},
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop(), nil)})
	app.Use(TenantHeaderMiddleware())
	app.Get("/users", AuthMiddleware(sessions), RequirePermission(resolver, permission.ResourceUsers, permission.ActionRead),
		func(c *fiber.Ctx) error {
			caller, err := CurrentCaller(c)
			if err != nil {
				return err
			}
			return c.JSON(fiber.Map{"user": caller.UserID, "requested": caller.RequestedTenant})
		})
	app.Get("/ws", QueryTokenAuth(sessions), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthAndPermissionGate(t *testing.T) {
	utils.SetSecret("middleware-test")
	app := newApp(t)

	req := httptest.NewRequest("GET", "/users", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", bearer(t, "ghost"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", bearer(t, "U1"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", bearer(t, "A"))
	req.Header.Set("X-Tenant-ID", "T2")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "A", body["user"])
	assert.Equal(t, "T2", body["requested"])
}

func TestQueryTokenAuth(t *testing.T) {
	utils.SetSecret("middleware-test")
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := utils.GenerateToken("U1", time.Hour)
	require.NoError(t, err)
	resp, err = app.Test(httptest.NewRequest("GET", "/ws?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRequireRank(t *testing.T) {
	utils.SetSecret("middleware-test")
	sessions := staticSessions{
		"U1": {UserID: "U1", Role: permission.RoleSales, TenantID: "T1"},
		"S":  {UserID: "S", Role: permission.RoleSupervisor, TenantID: "T1"},
	}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop(), nil)})
	app.Get("/", AuthMiddleware(sessions), RequireRank(permission.RoleSupervisor), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	for user, code := range map[string]int{"U1": fiber.StatusForbidden, "S": fiber.StatusNoContent} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", bearer(t, user))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, code, resp.StatusCode, user)
	}
}
