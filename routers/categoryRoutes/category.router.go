package categoryRoutes

import (
	categoryController "helpdesk/controllers/category"
	"helpdesk/middleware"
	categoryValidators "helpdesk/validators/category"

	"github.com/gofiber/fiber/v2"
)

func SetupCategoryRoutes(app *fiber.App) {
	categories := app.Group("/api/categories", middleware.JWTMiddleware)

	categories.Get("/", categoryController.CategoryList)
	categories.Get("/:id", categoryController.GetCategoryById)
	categories.Post("/", middleware.AdminMiddleware, categoryValidators.Category(), categoryController.CreateCategory)
	categories.Put("/:id", middleware.AdminMiddleware, categoryValidators.Category(), categoryController.UpdateCategory)
	categories.Delete("/:id", middleware.AdminMiddleware, categoryController.DeleteCategory)
}
