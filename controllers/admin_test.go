package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminApp() *fiber.App {
	app := fiber.New()
	app.Get("/total-users", GetTotalUsers)
	app.Get("/get-all-roles", GetAllRoles)
	return app
}

func TestGetTotalUsersMissingRole(t *testing.T) {
	mock := setupMockDB(t)

	// No "user" role in the store: a 404, never a zero count
	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).WillReturnRows(emptyRoleRows())

	resp, err := adminApp().Test(httptest.NewRequest("GET", "/total-users", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.False(t, e.Success)
	assert.Equal(t, "User role not found", e.Message)
}

func TestGetTotalUsers(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).WillReturnRows(roleRows(3, "user", true))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	resp, err := adminApp().Test(httptest.NewRequest("GET", "/total-users", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.True(t, e.Success)
	assert.EqualValues(t, 42, e.Data["totalUsers"])
}

func TestGetAllRolesPopulatesPermissions(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).WillReturnRows(roleRows(2, "staff", true))
	mock.ExpectQuery(`SELECT (.+) FROM "role_permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "permission_id"}).
			AddRow(2, 11).AddRow(2, 14))
	mock.ExpectQuery(`SELECT (.+) FROM "permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "protected", "created_at", "updated_at", "deleted_at"}).
			AddRow(11, "view_roles", "View roles", false, time.Now(), time.Now(), nil).
			AddRow(14, "export_orders", "Export orders from DispatchTrack", false, time.Now(), time.Now(), nil))

	resp, err := adminApp().Test(httptest.NewRequest("GET", "/get-all-roles", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	e := parseEnvelope(t, resp)
	roles := e.Data["roles"].([]interface{})
	require.Len(t, roles, 1)

	// Full permission objects come back, not bare identifiers
	permissions := roles[0].(map[string]interface{})["permissions"].([]interface{})
	require.Len(t, permissions, 2)

	names := map[string]string{}
	for _, p := range permissions {
		permission := p.(map[string]interface{})
		names[permission["name"].(string)] = permission["description"].(string)
	}
	assert.Equal(t, "View roles", names["view_roles"])
	assert.Equal(t, "Export orders from DispatchTrack", names["export_orders"])
}
