package attachmentRoutes

import (
	attachmentController "helpdesk/controllers/attachment"
	"helpdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAttachmentRoutes(app *fiber.App) {
	attachments := app.Group("/api/attachments", middleware.JWTMiddleware)

	attachments.Post("/upload", attachmentController.UploadAttachment)
	attachments.Get("/ticket/:ticket_id", attachmentController.TicketAttachments)
	attachments.Get("/serve/:id", attachmentController.ServeAttachment)
	attachments.Delete("/:id", attachmentController.DeleteAttachment)
}
