package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/adminhub/rbac-console/db"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	mock.MatchExpectationsInOrder(false)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	db.DB = gormDB
	return mock
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
}

func parseEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func roleRows(roleID uint, name string, isProtected bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "protected", "created_at", "updated_at", "deleted_at"}).
		AddRow(roleID, name, "", isProtected, time.Now(), time.Now(), nil)
}

func permissionRows(id uint, name string, isProtected bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "protected", "created_at", "updated_at", "deleted_at"}).
		AddRow(id, name, "", isProtected, time.Now(), time.Now(), nil)
}

func emptyRoleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "protected", "created_at", "updated_at", "deleted_at"})
}
