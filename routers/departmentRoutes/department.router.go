package departmentRoutes

import (
	departmentController "helpdesk/controllers/department"
	"helpdesk/middleware"
	departmentValidators "helpdesk/validators/department"

	"github.com/gofiber/fiber/v2"
)

func SetupDepartmentRoutes(app *fiber.App) {
	departments := app.Group("/api/departments", middleware.JWTMiddleware)

	departments.Get("/", departmentController.DepartmentList)
	departments.Get("/:id", departmentController.GetDepartmentById)
	departments.Post("/", middleware.AdminMiddleware, departmentValidators.Department(), departmentController.CreateDepartment)
	departments.Put("/:id", middleware.AdminMiddleware, departmentValidators.Department(), departmentController.UpdateDepartment)
	departments.Delete("/:id", middleware.SuperAdminMiddleware, departmentController.DeleteDepartment)
}
