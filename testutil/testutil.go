// Package testutil wires an in-memory database and request helpers for
// controller tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"helpdesk/config"
	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// SetupDB points the global database at a fresh in-memory store and
// installs a test configuration.
func SetupDB(t *testing.T) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:      "test-secret",
		SaltRound:   bcrypt.MinCost,
		FrontendURL: "http://localhost:3000",
		BaseURL:     "http://localhost:9000",
		UploadDir:   t.TempDir(),
	}

	// A named in-memory database keeps every pooled connection on the
	// same store while isolating tests from each other
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
}

// CreateUser inserts a user with the password "password123"
func CreateUser(t *testing.T, username, role string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

// TokenFor issues a JWT for the given user
func TokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

// DoJSON performs a request against the app and decodes the response
// envelope. An empty token leaves the Authorization header off.
func DoJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed Response
	require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	return resp, parsed
}
