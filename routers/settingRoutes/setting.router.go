package settingRoutes

import (
	settingController "helpdesk/controllers/setting"
	"helpdesk/middleware"
	settingValidators "helpdesk/validators/setting"

	"github.com/gofiber/fiber/v2"
)

func SetupSettingRoutes(app *fiber.App) {
	settings := app.Group("/api/settings", middleware.JWTMiddleware)

	settings.Get("/", middleware.AdminMiddleware, settingController.GetSettings)
	settings.Put("/", middleware.SuperAdminMiddleware, settingValidators.UpdateSettings(), settingController.UpdateSettings)
}
