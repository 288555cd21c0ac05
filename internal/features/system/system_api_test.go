package system

import (
	"io"
	"net/http/httptest"
	"testing"

	"estate-crm/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpointExposesCounters(t *testing.T) {
	m := metrics.NewMetrics()
	m.Denied("authorization")
	m.TenantMismatch()

	app := fiber.New()
	(&SystemApi{metrics: m}).Setup(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `crm_access_denials_total{reason="authorization"} 1`)
	assert.Contains(t, string(body), "crm_tenant_mismatches_total 1")
}
