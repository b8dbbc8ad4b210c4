package adminRoutes

import (
	adminController "helpdesk/controllers/admin"
	departmentController "helpdesk/controllers/department"
	settingController "helpdesk/controllers/setting"
	"helpdesk/middleware"
	adminValidators "helpdesk/validators/admin"
	departmentValidators "helpdesk/validators/department"
	settingValidators "helpdesk/validators/setting"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/api/admin", middleware.JWTMiddleware, middleware.AdminMiddleware)

	admin.Get("/users", adminController.GetUsers)
	admin.Get("/users/:id", adminController.GetUserById)
	admin.Post("/users", adminValidators.CreateUser(), adminController.CreateUser)
	admin.Put("/users/:id", adminValidators.UpdateUser(), adminController.UpdateUser)
	admin.Delete("/users/:id", middleware.SuperAdminMiddleware, adminController.DeleteUser)

	admin.Get("/departments", adminController.GetDepartments)
	admin.Post("/departments", departmentValidators.Department(), departmentController.CreateDepartment)
	admin.Put("/departments/:id", departmentValidators.Department(), departmentController.UpdateDepartment)
	admin.Delete("/departments/:id", middleware.SuperAdminMiddleware, departmentController.DeleteDepartment)

	admin.Get("/settings", settingController.GetSettings)
	admin.Put("/settings", middleware.SuperAdminMiddleware, settingValidators.UpdateSettings(), settingController.UpdateSettings)
}
