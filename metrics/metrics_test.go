package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(WorkflowTransitions.WithLabelValues("internship_registration", "Disetujui"))
	RecordTransition("internship_registration", "Disetujui")
	after := testutil.ToFloat64(WorkflowTransitions.WithLabelValues("internship_registration", "Disetujui"))

	assert.Equal(t, before+1, after)
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/ping/:id", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/ping/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `pkl_http_requests_total{code="200",method="GET",route="/ping/:id"}`)
}
