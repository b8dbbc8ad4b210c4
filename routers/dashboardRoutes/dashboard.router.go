package dashboardRoutes

import (
	dashboardController "helpdesk/controllers/dashboard"
	"helpdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	dashboard := app.Group("/api/dashboard", middleware.JWTMiddleware)

	dashboard.Get("/", dashboardController.Dashboard)
}
