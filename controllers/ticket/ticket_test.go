package ticketController_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"helpdesk/database"
	"helpdesk/models"
	ticketRoutes "helpdesk/routers/ticketRoutes"
	"helpdesk/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	testutil.SetupDB(t)

	app := fiber.New()
	ticketRoutes.SetupTicketRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, testutil.Response) {
	return testutil.DoJSON(t, app, method, path, token, body)
}

func TestCreateTicketNumbering(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "creator", models.RoleUser)
	token := testutil.TokenFor(t, user)

	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		resp, body := doJSON(t, app, "POST", "/api/tickets/", token, fiber.Map{
			"title":       fmt.Sprintf("Printer problem %d", i),
			"description": "It does not print",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var ticket struct {
			TicketNumber string  `json:"ticket_number"`
			StatusName   *string `json:"status_name"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &ticket))
		assert.Equal(t, fmt.Sprintf("TKT-%d-%05d", year, i), ticket.TicketNumber)
		require.NotNil(t, ticket.StatusName)
		assert.Equal(t, models.StatusNew, *ticket.StatusName)
	}

	var history int64
	database.Database.Db.Model(&models.TicketHistory{}).
		Where("action = ?", models.HistoryCreated).
		Count(&history)
	assert.EqualValues(t, 3, history)
}

func TestCreateTicketWithAssigneeWritesAssignedHistory(t *testing.T) {
	app := setupApp(t)
	creator := testutil.CreateUser(t, "creator", models.RoleUser)
	agent := testutil.CreateUser(t, "agent", models.RoleAgent)

	resp, body := doJSON(t, app, "POST", "/api/tickets/", testutil.TokenFor(t, creator), fiber.Map{
		"title":       "VPN down",
		"description": "Cannot connect",
		"assigned_to": agent.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var ticket struct {
		ID         uint  `json:"id"`
		AssignedTo *uint `json:"assigned_to"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &ticket))
	require.NotNil(t, ticket.AssignedTo)
	assert.Equal(t, agent.ID, *ticket.AssignedTo)

	var rows []models.TicketHistory
	database.Database.Db.Where("ticket_id = ?", ticket.ID).Order("id").Find(&rows)
	require.Len(t, rows, 2)
	assert.Equal(t, models.HistoryCreated, rows[0].Action)
	assert.Equal(t, models.HistoryAssigned, rows[1].Action)
}

func TestUpdateTicketWritesPerFieldHistory(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "creator", models.RoleUser)
	token := testutil.TokenFor(t, user)

	_, body := doJSON(t, app, "POST", "/api/tickets/", token, fiber.Map{
		"title":       "Slow laptop",
		"description": "Takes forever to boot",
	})
	var created struct {
		ID       uint `json:"id"`
		StatusID uint `json:"status_id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	var inProgress models.Status
	require.NoError(t, database.Database.Db.
		Where("name = ?", models.StatusInProgress).First(&inProgress).Error)

	resp, _ := doJSON(t, app, "PUT", fmt.Sprintf("/api/tickets/%d", created.ID), token, fiber.Map{
		"title":     "Very slow laptop",
		"status_id": inProgress.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rows []models.TicketHistory
	database.Database.Db.
		Where("ticket_id = ? AND action = ?", created.ID, models.HistoryUpdated).
		Order("field_name").Find(&rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "status_id", rows[0].FieldName)
	assert.Equal(t, "title", rows[1].FieldName)
	require.NotNil(t, rows[1].OldValue)
	assert.Equal(t, "Slow laptop", *rows[1].OldValue)
	require.NotNil(t, rows[1].NewValue)
	assert.Equal(t, "Very slow laptop", *rows[1].NewValue)
}

func TestUpdateTicketNoOpWritesNoHistory(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "creator", models.RoleUser)
	token := testutil.TokenFor(t, user)

	_, body := doJSON(t, app, "POST", "/api/tickets/", token, fiber.Map{
		"title":       "Same title",
		"description": "Same description",
	})
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	resp, _ := doJSON(t, app, "PUT", fmt.Sprintf("/api/tickets/%d", created.ID), token, fiber.Map{
		"title": "Same title",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rows int64
	database.Database.Db.Model(&models.TicketHistory{}).
		Where("ticket_id = ? AND action = ?", created.ID, models.HistoryUpdated).
		Count(&rows)
	assert.EqualValues(t, 0, rows)
}

func TestUpdateMissingTicketReturns404(t *testing.T) {
	app := setupApp(t)
	token := testutil.TokenFor(t, testutil.CreateUser(t, "creator", models.RoleUser))

	resp, _ := doJSON(t, app, "PUT", "/api/tickets/9999", token, fiber.Map{"title": "x"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteTicketCascades(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "creator", models.RoleUser)
	token := testutil.TokenFor(t, user)

	_, body := doJSON(t, app, "POST", "/api/tickets/", token, fiber.Map{
		"title":       "Remove me",
		"description": "Soon gone",
	})
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	_, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/tickets/%d/comments", created.ID), token, fiber.Map{
		"content": "A comment that will disappear",
	})

	resp, _ := doJSON(t, app, "DELETE", fmt.Sprintf("/api/tickets/%d", created.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tickets, comments, history int64
	database.Database.Db.Model(&models.Ticket{}).Where("id = ?", created.ID).Count(&tickets)
	database.Database.Db.Model(&models.Comment{}).Where("ticket_id = ?", created.ID).Count(&comments)
	database.Database.Db.Model(&models.TicketHistory{}).Where("ticket_id = ?", created.ID).Count(&history)
	assert.EqualValues(t, 0, tickets)
	assert.EqualValues(t, 0, comments)
	assert.EqualValues(t, 0, history)

	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/tickets/%d", created.ID), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAssignTicket(t *testing.T) {
	app := setupApp(t)
	creator := testutil.CreateUser(t, "creator", models.RoleUser)
	agent := testutil.CreateUser(t, "agent", models.RoleAgent)
	token := testutil.TokenFor(t, creator)

	_, body := doJSON(t, app, "POST", "/api/tickets/", token, fiber.Map{
		"title":       "Assign me",
		"description": "Needs an owner",
	})
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/api/tickets/%d/assign", created.ID), token, fiber.Map{
		"user_id": uint(9999),
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/tickets/%d/assign", created.ID), token, fiber.Map{
		"user_id": agent.ID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ticket models.Ticket
	require.NoError(t, database.Database.Db.First(&ticket, created.ID).Error)
	require.NotNil(t, ticket.AssignedTo)
	assert.Equal(t, agent.ID, *ticket.AssignedTo)

	var rows int64
	database.Database.Db.Model(&models.TicketHistory{}).
		Where("ticket_id = ? AND action = ?", created.ID, models.HistoryAssigned).
		Count(&rows)
	assert.EqualValues(t, 1, rows)
}

func TestPrivateCommentVisibility(t *testing.T) {
	app := setupApp(t)
	creator := testutil.CreateUser(t, "creator", models.RoleUser)
	agent := testutil.CreateUser(t, "agent", models.RoleAgent)
	outsider := testutil.CreateUser(t, "outsider", models.RoleUser)
	admin := testutil.CreateUser(t, "boss", models.RoleAdmin)

	_, body := doJSON(t, app, "POST", "/api/tickets/", testutil.TokenFor(t, creator), fiber.Map{
		"title":       "Secret stuff",
		"description": "Internal notes live here",
		"assigned_to": agent.ID,
	})
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	commentsPath := fmt.Sprintf("/api/tickets/%d/comments", created.ID)

	resp, _ := doJSON(t, app, "POST", commentsPath, testutil.TokenFor(t, agent), fiber.Map{
		"content":    "Internal note",
		"is_private": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", commentsPath, testutil.TokenFor(t, creator), fiber.Map{
		"content": "Public note",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	countFor := func(user models.User) int {
		_, body := doJSON(t, app, "GET", commentsPath, testutil.TokenFor(t, user), nil)
		var comments []json.RawMessage
		require.NoError(t, json.Unmarshal(body.Data, &comments))
		return len(comments)
	}

	assert.Equal(t, 1, countFor(outsider))
	assert.Equal(t, 2, countFor(creator))
	assert.Equal(t, 2, countFor(agent))
	assert.Equal(t, 2, countFor(admin))
}

func TestWhitespaceCommentRejected(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "creator", models.RoleUser)
	token := testutil.TokenFor(t, user)

	_, body := doJSON(t, app, "POST", "/api/tickets/", token, fiber.Map{
		"title":       "Comment target",
		"description": "For validation",
	})
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &created))

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/api/tickets/%d/comments", created.ID), token, fiber.Map{
		"content": "   \n\t ",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var comments int64
	database.Database.Db.Model(&models.Comment{}).Count(&comments)
	assert.EqualValues(t, 0, comments)
}

func TestAssignedTicketsStats(t *testing.T) {
	app := setupApp(t)
	creator := testutil.CreateUser(t, "creator", models.RoleUser)
	agent := testutil.CreateUser(t, "agent", models.RoleAgent)

	for i := 0; i < 2; i++ {
		_, _ = doJSON(t, app, "POST", "/api/tickets/", testutil.TokenFor(t, creator), fiber.Map{
			"title":       fmt.Sprintf("Task %d", i),
			"description": "work",
			"assigned_to": agent.ID,
		})
	}

	for _, path := range []string{"/api/tickets/assigned/list", "/api/tickets/assigned"} {
		_, body := doJSON(t, app, "GET", path, testutil.TokenFor(t, agent), nil)

		var result struct {
			Tickets []json.RawMessage `json:"tickets"`
			Stats   struct {
				Total int64 `json:"total_tickets"`
				New   int64 `json:"new_tickets"`
			} `json:"stats"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &result))
		assert.Len(t, result.Tickets, 2)
		assert.EqualValues(t, 2, result.Stats.Total)
		assert.EqualValues(t, 2, result.Stats.New)
	}
}

func TestAssigneesList(t *testing.T) {
	app := setupApp(t)
	agent := testutil.CreateUser(t, "agent", models.RoleAgent)

	inactive := testutil.CreateUser(t, "gone", models.RoleAgent)
	require.NoError(t, database.Database.Db.Model(&inactive).Update("is_active", false).Error)

	resp, body := doJSON(t, app, "GET", "/api/tickets/assigned/assignees", testutil.TokenFor(t, agent), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var assignees []struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &assignees))
	require.Len(t, assignees, 1)
	assert.Equal(t, "agent", assignees[0].Username)
}

func TestTicketRoutesRequireAuth(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/tickets/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
