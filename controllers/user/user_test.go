package userController_test

import (
	"encoding/json"
	"testing"
	"time"

	"helpdesk/database"
	"helpdesk/models"
	authRoutes "helpdesk/routers/authRoutes"
	"helpdesk/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	testutil.SetupDB(t)

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	resp, body := testutil.DoJSON(t, app, "POST", "/api/users/register", "", fiber.Map{
		"username":  "alice",
		"email":     "alice@example.com",
		"password":  "sup3rsecret",
		"full_name": "Alice Example",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var registered struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
			IsActive bool   `json:"is_active"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &registered))
	assert.NotEmpty(t, registered.Token, "registration must return a session token")
	assert.Equal(t, "alice", registered.User.Username)
	assert.Equal(t, models.RoleUser, registered.User.Role)
	assert.True(t, registered.User.IsActive)

	// The registration token works as-is
	resp, _ = testutil.DoJSON(t, app, "GET", "/api/users/profile", registered.Token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = testutil.DoJSON(t, app, "POST", "/api/users/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "sup3rsecret",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &login))
	assert.NotEmpty(t, login.Token)
}

func TestAuthAliasRoutes(t *testing.T) {
	app := setupApp(t)
	testutil.CreateUser(t, "alias", models.RoleUser)

	resp, _ := testutil.DoJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{
		"email":    "alias@example.com",
		"password": "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	app := setupApp(t)
	testutil.CreateUser(t, "bob", models.RoleUser)

	resp, _ := testutil.DoJSON(t, app, "POST", "/api/users/register", "", fiber.Map{
		"username": "bob",
		"email":    "other@example.com",
		"password": "sup3rsecret",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

// Every login failure must be indistinguishable from the outside
func TestLoginFailuresLookTheSame(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "carol", models.RoleUser)

	inactive := testutil.CreateUser(t, "dave", models.RoleUser)
	require.NoError(t, database.Database.Db.Model(&inactive).Update("is_active", false).Error)

	cases := []fiber.Map{
		{"email": "nobody@example.com", "password": "password123"},
		{"email": user.Email, "password": "wrongpassword"},
		{"email": inactive.Email, "password": "password123"},
	}

	for _, payload := range cases {
		resp, body := testutil.DoJSON(t, app, "POST", "/api/users/login", "", payload)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials!", body.Message)
	}
}

func TestForgotPasswordAntiEnumeration(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "erin", models.RoleUser)

	resp, body := testutil.DoJSON(t, app, "POST", "/api/users/forgot-password", "", fiber.Map{
		"email": "ghost@example.com",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	unknownMessage := body.Message

	resp, body = testutil.DoJSON(t, app, "POST", "/api/users/forgot-password", "", fiber.Map{
		"email": user.Email,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, unknownMessage, body.Message)

	var tokens int64
	database.Database.Db.Model(&models.PasswordResetToken{}).
		Where("user_id = ?", user.ID).Count(&tokens)
	assert.EqualValues(t, 1, tokens)
}

func TestForgotPasswordSupersedesOldToken(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "frank", models.RoleUser)

	for i := 0; i < 2; i++ {
		resp, _ := testutil.DoJSON(t, app, "POST", "/api/users/forgot-password", "", fiber.Map{
			"email": user.Email,
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var tokens []models.PasswordResetToken
	database.Database.Db.Where("user_id = ?", user.ID).Find(&tokens)
	assert.Len(t, tokens, 1)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "grace", models.RoleUser)

	reset := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     "known-test-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, database.Database.Db.Create(&reset).Error)

	resp, _ := testutil.DoJSON(t, app, "POST", "/api/users/reset-password", "", fiber.Map{
		"token":        "known-test-token",
		"new_password": "brandnewpass",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The new password works
	resp, _ = testutil.DoJSON(t, app, "POST", "/api/users/login", "", fiber.Map{
		"email":    user.Email,
		"password": "brandnewpass",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The token does not work twice
	resp, _ = testutil.DoJSON(t, app, "POST", "/api/users/reset-password", "", fiber.Map{
		"token":        "known-test-token",
		"new_password": "anotherpass1",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "heidi", models.RoleUser)

	reset := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     "expired-test-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, database.Database.Db.Create(&reset).Error)

	resp, _ := testutil.DoJSON(t, app, "POST", "/api/users/reset-password", "", fiber.Map{
		"token":        "expired-test-token",
		"new_password": "brandnewpass",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var remaining int64
	database.Database.Db.Model(&models.PasswordResetToken{}).
		Where("token = ?", "expired-test-token").Count(&remaining)
	assert.EqualValues(t, 0, remaining)
}

func TestChangePasswordWritesAuditLog(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "ivan", models.RoleUser)
	token := testutil.TokenFor(t, user)

	resp, _ := testutil.DoJSON(t, app, "POST", "/api/users/change-password", token, fiber.Map{
		"current_password": "wrongpassword",
		"new_password":     "freshpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = testutil.DoJSON(t, app, "POST", "/api/users/change-password", token, fiber.Map{
		"current_password": "password123",
		"new_password":     "freshpassword",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var audits int64
	database.Database.Db.Model(&models.AuditLog{}).
		Where("user_id = ? AND action = ?", user.ID, "password_changed").
		Count(&audits)
	assert.EqualValues(t, 1, audits)

	resp, _ = testutil.DoJSON(t, app, "POST", "/api/users/login", "", fiber.Map{
		"email":    user.Email,
		"password": "freshpassword",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateProfileNeedsCurrentPasswordForNewOne(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "judy", models.RoleUser)
	token := testutil.TokenFor(t, user)

	resp, _ := testutil.DoJSON(t, app, "PUT", "/api/users/profile", token, fiber.Map{
		"new_password": "somethingnew1",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = testutil.DoJSON(t, app, "PUT", "/api/users/profile", token, fiber.Map{
		"full_name": "Judy Renamed",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.User
	require.NoError(t, database.Database.Db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Judy Renamed", reloaded.FullName)
}

func TestProfileRequiresToken(t *testing.T) {
	app := setupApp(t)

	resp, _ := testutil.DoJSON(t, app, "GET", "/api/users/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
