package attachmentController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	attachmentController "helpdesk/controllers/attachment"
	"helpdesk/database"
	"helpdesk/models"
	attachmentRoutes "helpdesk/routers/attachmentRoutes"
	ticketRoutes "helpdesk/routers/ticketRoutes"
	"helpdesk/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	testutil.SetupDB(t)

	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
	})
	ticketRoutes.SetupTicketRoutes(app)
	attachmentRoutes.SetupAttachmentRoutes(app)
	return app
}

func createTicket(t *testing.T, createdBy uint) models.Ticket {
	t.Helper()

	var status models.Status
	require.NoError(t, database.Database.Db.
		Where("name = ?", models.StatusNew).First(&status).Error)

	ticket := models.Ticket{
		TicketNumber: "TKT-2026-00001",
		Title:        "Needs a screenshot",
		StatusID:     status.ID,
		CreatedBy:    createdBy,
	}
	require.NoError(t, database.Database.Db.Create(&ticket).Error)
	return ticket
}

func upload(t *testing.T, app *fiber.App, token string, ticketId uint, fileName string, content []byte) (*http.Response, testutil.Response) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/tickets/%d/attachments", ticketId), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed testutil.Response
	require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	return resp, parsed
}

func TestUploadViaFlatRoute(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "uploader", models.RoleUser)
	ticket := createTicket(t, user.ID)
	token := testutil.TokenFor(t, user)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("ticket_id", fmt.Sprint(ticket.ID)))
	part, err := writer.CreateFormFile("file", "log.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("flat upload"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/attachments/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	_, body := testutil.DoJSON(t, app, "GET",
		fmt.Sprintf("/api/attachments/ticket/%d", ticket.ID), token, nil)

	var attachments []models.Attachment
	require.NoError(t, json.Unmarshal(body.Data, &attachments))
	require.Len(t, attachments, 1)
	assert.Equal(t, "log.txt", attachments[0].FileName)
}

func TestUploadAttachment(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "uploader", models.RoleUser)
	ticket := createTicket(t, user.ID)

	resp, body := upload(t, app, testutil.TokenFor(t, user), ticket.ID, "screenshot.png", []byte("fake png bytes"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var attachment models.Attachment
	require.NoError(t, json.Unmarshal(body.Data, &attachment))
	assert.Equal(t, "screenshot.png", attachment.FileName)
	assert.EqualValues(t, len("fake png bytes"), attachment.FileSize)

	// The bytes landed on disk
	stored, err := os.ReadFile(attachment.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), stored)

	var history int64
	database.Database.Db.Model(&models.TicketHistory{}).
		Where("ticket_id = ? AND action = ?", ticket.ID, models.HistoryAttached).
		Count(&history)
	assert.EqualValues(t, 1, history)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "uploader", models.RoleUser)
	ticket := createTicket(t, user.ID)

	huge := make([]byte, attachmentController.MaxFileSize+1)
	resp, _ := upload(t, app, testutil.TokenFor(t, user), ticket.ID, "huge.bin", huge)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var attachments int64
	database.Database.Db.Model(&models.Attachment{}).Count(&attachments)
	assert.EqualValues(t, 0, attachments)
}

func TestUploadToMissingTicketReturns404(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "uploader", models.RoleUser)

	resp, _ := upload(t, app, testutil.TokenFor(t, user), 9999, "file.txt", []byte("data"))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestServeAttachment(t *testing.T) {
	app := setupApp(t)
	user := testutil.CreateUser(t, "uploader", models.RoleUser)
	ticket := createTicket(t, user.ID)
	token := testutil.TokenFor(t, user)

	_, body := upload(t, app, token, ticket.ID, "notes.txt", []byte("hello attachment"))

	var attachment models.Attachment
	require.NoError(t, json.Unmarshal(body.Data, &attachment))

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/attachments/serve/%d", attachment.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello attachment"), served)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "notes.txt")
}

func TestDeleteAttachmentOwnership(t *testing.T) {
	app := setupApp(t)
	owner := testutil.CreateUser(t, "owner", models.RoleUser)
	stranger := testutil.CreateUser(t, "stranger", models.RoleUser)
	admin := testutil.CreateUser(t, "boss", models.RoleAdmin)
	ticket := createTicket(t, owner.ID)

	_, body := upload(t, app, testutil.TokenFor(t, owner), ticket.ID, "mine.txt", []byte("contents"))

	var attachment models.Attachment
	require.NoError(t, json.Unmarshal(body.Data, &attachment))

	path := fmt.Sprintf("/api/attachments/%d", attachment.ID)

	resp, _ := testutil.DoJSON(t, app, "DELETE", path, testutil.TokenFor(t, stranger), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = testutil.DoJSON(t, app, "DELETE", path, testutil.TokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, err := os.Stat(attachment.FilePath)
	assert.True(t, os.IsNotExist(err))
}
