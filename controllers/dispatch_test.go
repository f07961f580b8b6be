package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatchApp() *fiber.App {
	app := fiber.New()
	app.Post("/export-orders", ExportOrders)
	app.Get("/oauth2/token", GetOAuthToken)
	return app
}

func setDispatchEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Setenv("DISPATCHTRACK_API_BASE_URL", baseURL)
	t.Setenv("DISPATCHTRACK_CLIENT_ID", "client-id")
	t.Setenv("DISPATCHTRACK_CLIENT_SECRET", "client-secret")
}

func TestExportOrdersRequiresDate(t *testing.T) {
	req := httptest.NewRequest("POST", "/export-orders", strings.NewReader(`{"oneOf":{}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := dispatchApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.False(t, e.Success)
	assert.Contains(t, e.Message, "schedule_date or request_date is required")
}

func TestExportOrdersFallsBackWhenAuthFails(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer upstream.Close()
	setDispatchEnv(t, upstream.URL)

	req := httptest.NewRequest("POST", "/export-orders",
		strings.NewReader(`{"oneOf":{"schedule_date":"08/03/2020"}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := dispatchApp().Test(req)
	require.NoError(t, err)

	// Upstream failure never surfaces; the caller gets the substitute data
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.True(t, e.Success)
	assert.Contains(t, e.Message, "fallback")
	orders := e.Data["service_orders"].([]interface{})
	require.NotEmpty(t, orders)
	assert.Equal(t, "100001", orders[0].(map[string]interface{})["order_number"])
}

func TestExportOrdersFallsBackOnIncompleteResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/oauth2/token") {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "up-token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"note": "no orders key"})
	}))
	defer upstream.Close()
	setDispatchEnv(t, upstream.URL)

	req := httptest.NewRequest("POST", "/export-orders",
		strings.NewReader(`{"oneOf":{"request_date":"08/03/2020"}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := dispatchApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.True(t, e.Success)
	assert.Contains(t, e.Message, "incomplete API response")
	assert.NotEmpty(t, e.Data["service_orders"])
}

func TestExportOrdersPassthrough(t *testing.T) {
	var gotAuth, gotPayload string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/oauth2/token") {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "up-token"})
			return
		}
		gotAuth = r.Header.Get("Authorization")
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		gotPayload, _ = payload["schedule_date"].(string)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"service_orders": []map[string]interface{}{{"order_number": "555123"}},
		})
	}))
	defer upstream.Close()
	setDispatchEnv(t, upstream.URL)

	req := httptest.NewRequest("POST", "/export-orders",
		strings.NewReader(`{"oneOf":{"schedule_date":"08/03/2020"},"status":"New"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := dispatchApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.True(t, e.Success)
	assert.Equal(t, "Orders exported successfully", e.Message)
	assert.Equal(t, "Bearer up-token", gotAuth)
	assert.Equal(t, "08/03/2020", gotPayload)

	orders := e.Data["service_orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, "555123", orders[0].(map[string]interface{})["order_number"])
}

func TestGetOAuthToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "up-token"})
	}))
	defer upstream.Close()
	setDispatchEnv(t, upstream.URL)

	resp, err := dispatchApp().Test(httptest.NewRequest("GET", "/oauth2/token", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.Equal(t, "up-token", e.Data["access_token"])
}

func TestGetOAuthTokenUnconfigured(t *testing.T) {
	t.Setenv("DISPATCHTRACK_API_BASE_URL", "")
	t.Setenv("DISPATCHTRACK_CLIENT_ID", "")
	t.Setenv("DISPATCHTRACK_CLIENT_SECRET", "")

	resp, err := dispatchApp().Test(httptest.NewRequest("GET", "/oauth2/token", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
