package ticketRoutes

import (
	attachmentController "helpdesk/controllers/attachment"
	ticketController "helpdesk/controllers/ticket"
	"helpdesk/middleware"
	ticketValidators "helpdesk/validators/ticket"

	"github.com/gofiber/fiber/v2"
)

func SetupTicketRoutes(app *fiber.App) {
	tickets := app.Group("/api/tickets", middleware.JWTMiddleware)

	tickets.Post("/", ticketValidators.CreateTicket(), ticketController.CreateTicket)
	tickets.Get("/", ticketController.TicketList)
	tickets.Get("/assigned/list", ticketController.AssignedTickets)
	tickets.Get("/assigned/assignees", ticketController.Assignees)
	// Short forms kept as aliases
	tickets.Get("/assigned", ticketController.AssignedTickets)
	tickets.Get("/assignees", ticketController.Assignees)
	tickets.Get("/:id", ticketController.GetTicketById)
	tickets.Put("/:id", ticketValidators.UpdateTicket(), ticketController.UpdateTicket)
	tickets.Delete("/:id", ticketController.DeleteTicket)
	tickets.Post("/:id/assign", ticketValidators.AssignTicket(), ticketController.AssignTicket)

	tickets.Post("/:id/comments", ticketValidators.AddComment(), ticketController.AddComment)
	tickets.Get("/:id/comments", ticketController.TicketComments)
	tickets.Get("/:id/history", ticketController.TicketHistoryList)

	tickets.Post("/:id/attachments", attachmentController.UploadAttachment)
	tickets.Get("/:id/attachments", attachmentController.TicketAttachments)
}
