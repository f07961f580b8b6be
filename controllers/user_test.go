package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/rbac-console/models"
)

func userApp() *fiber.App {
	app := fiber.New()
	app.Post("/users", CreateUser)
	app.Get("/get-role-from-user-id/:userId", GetRoleFromUserID)
	return app
}

func mockUserRows(userID, roleID uint) *sqlmock.Rows {
	hash, _ := bcrypt.GenerateFromPassword([]byte("irrelevant"), bcrypt.MinCost)
	return sqlmock.NewRows([]string{"id", "name", "email", "password", "gender", "role_id", "created_at", "updated_at"}).
		AddRow(userID, "Maya", "maya@example.com", string(hash), models.GenderFemale, roleID, time.Now(), time.Now())
}

func TestGetRoleFromUserID(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).WillReturnRows(mockUserRows(7, 2))
	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).WillReturnRows(roleRows(2, "staff", true))
	mock.ExpectQuery(`SELECT (.+) FROM "role_permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "permission_id"}).AddRow(2, 11))
	mock.ExpectQuery(`SELECT (.+) FROM "permissions"`).
		WillReturnRows(permissionRows(11, "view_roles", false))

	resp, err := userApp().Test(httptest.NewRequest("GET", "/get-role-from-user-id/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	e := parseEnvelope(t, resp)
	role := e.Data["role"].(map[string]interface{})
	assert.Equal(t, "staff", role["name"])

	permissions := role["permissions"].([]interface{})
	require.Len(t, permissions, 1)
	assert.Equal(t, "view_roles", permissions[0].(map[string]interface{})["name"])
}

func TestGetRoleFromUserIDUnknownUser(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "gender", "role_id", "created_at", "updated_at"}))

	resp, err := userApp().Test(httptest.NewRequest("GET", "/get-role-from-user-id/999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).WillReturnRows(mockUserRows(7, 2))

	req := httptest.NewRequest("POST", "/users", strings.NewReader(
		`{"name":"Maya","email":"maya@example.com","gender":"female","role":"staff"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := userApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.Equal(t, "User with this email already exists", e.Message)
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	setupMockDB(t)

	for _, body := range []string{
		`{"email":"maya@example.com","gender":"female","role":"staff"}`,
		`{"name":"Maya","email":"not-an-email","gender":"female","role":"staff"}`,
		`{"name":"Maya","email":"maya@example.com","gender":"unknown","role":"staff"}`,
		`{"name":"Maya","email":"maya@example.com","gender":"female"}`,
	} {
		req := httptest.NewRequest("POST", "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := userApp().Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestCreateUserUnknownRole(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "gender", "role_id", "created_at", "updated_at"}))
	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).WillReturnRows(emptyRoleRows())

	req := httptest.NewRequest("POST", "/users", strings.NewReader(
		`{"name":"Maya","email":"maya@example.com","gender":"female","role":"nosuchrole"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := userApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	e := parseEnvelope(t, resp)
	assert.Equal(t, "Role not found", e.Message)
}
