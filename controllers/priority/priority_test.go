package priorityController_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"helpdesk/database"
	"helpdesk/models"
	priorityRoutes "helpdesk/routers/priorityRoutes"
	"helpdesk/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	testutil.SetupDB(t)

	app := fiber.New()
	priorityRoutes.SetupPriorityRoutes(app)
	return app
}

func TestPriorityListIncludesSeeds(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "viewer", models.RoleUser)

	_, body := testutil.DoJSON(t, app, "GET", "/api/priorities/", testutil.TokenFor(t, user), nil)

	var priorities []models.Priority
	require.NoError(t, json.Unmarshal(body.Data, &priorities))
	require.Len(t, priorities, 4)
	assert.Equal(t, "Low", priorities[0].Name)
	assert.Equal(t, "Urgent", priorities[3].Name)
}

func TestDuplicatePriorityNameConflict(t *testing.T) {
	app := setupApp(t)
	admin := testutil.CreateUser(t, "boss", models.RoleAdmin)

	resp, _ := testutil.DoJSON(t, app, "POST", "/api/priorities/", testutil.TokenFor(t, admin), fiber.Map{
		"name": "Urgent",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDeletePriorityDetachesTickets(t *testing.T) {
	app := setupApp(t)
	admin := testutil.CreateUser(t, "boss", models.RoleAdmin)

	db := database.Database.Db

	var status models.Status
	require.NoError(t, db.Where("name = ?", models.StatusNew).First(&status).Error)
	var urgent models.Priority
	require.NoError(t, db.Where("name = ?", "Urgent").First(&urgent).Error)

	ticket := models.Ticket{
		TicketNumber: "TKT-2026-00001",
		Title:        "Was urgent",
		StatusID:     status.ID,
		CreatedBy:    admin.ID,
		PriorityID:   &urgent.ID,
	}
	require.NoError(t, db.Create(&ticket).Error)

	resp, _ := testutil.DoJSON(t, app, "DELETE",
		fmt.Sprintf("/api/priorities/%d", urgent.ID), testutil.TokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Ticket
	require.NoError(t, db.First(&reloaded, ticket.ID).Error)
	assert.Nil(t, reloaded.PriorityID)
}
