package settingController_test

import (
	"encoding/json"
	"testing"

	"helpdesk/database"
	"helpdesk/models"
	settingRoutes "helpdesk/routers/settingRoutes"
	"helpdesk/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	testutil.SetupDB(t)

	app := fiber.New()
	settingRoutes.SetupSettingRoutes(app)
	return app
}

func TestUpdateSettingsRequiresSuperAdmin(t *testing.T) {
	app := setupApp(t)
	admin := testutil.CreateUser(t, "boss", models.RoleAdmin)

	resp, _ := testutil.DoJSON(t, app, "PUT", "/api/settings/", testutil.TokenFor(t, admin), fiber.Map{
		"site_name": "Helpdesk",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpdateSettingsUpserts(t *testing.T) {
	app := setupApp(t)
	super := testutil.CreateUser(t, "root", models.RoleSuperAdmin)
	token := testutil.TokenFor(t, super)

	resp, _ := testutil.DoJSON(t, app, "PUT", "/api/settings/", token, fiber.Map{
		"site_name":     "Helpdesk",
		"support_email": "help@example.com",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Updating one key leaves the other alone
	resp, _ = testutil.DoJSON(t, app, "PUT", "/api/settings/", token, fiber.Map{
		"site_name": "Renamed Helpdesk",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body := testutil.DoJSON(t, app, "GET", "/api/settings/", token, nil)

	var settings map[string]string
	require.NoError(t, json.Unmarshal(body.Data, &settings))
	assert.Equal(t, "Renamed Helpdesk", settings["site_name"])
	assert.Equal(t, "help@example.com", settings["support_email"])

	var rows int64
	database.Database.Db.Model(&models.SystemSetting{}).Count(&rows)
	assert.EqualValues(t, 2, rows)
}

func TestUpdateSettingsRejectsEmptyBody(t *testing.T) {
	app := setupApp(t)
	super := testutil.CreateUser(t, "root", models.RoleSuperAdmin)

	resp, _ := testutil.DoJSON(t, app, "PUT", "/api/settings/", testutil.TokenFor(t, super), fiber.Map{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
