package priorityRoutes

import (
	priorityController "helpdesk/controllers/priority"
	"helpdesk/middleware"
	priorityValidators "helpdesk/validators/priority"

	"github.com/gofiber/fiber/v2"
)

func SetupPriorityRoutes(app *fiber.App) {
	priorities := app.Group("/api/priorities", middleware.JWTMiddleware)

	priorities.Get("/", priorityController.PriorityList)
	priorities.Post("/", middleware.AdminMiddleware, priorityValidators.Priority(), priorityController.CreatePriority)
	priorities.Put("/:id", middleware.AdminMiddleware, priorityValidators.Priority(), priorityController.UpdatePriority)
	priorities.Delete("/:id", middleware.AdminMiddleware, priorityController.DeletePriority)
}
