package authRoutes

import (
	userController "helpdesk/controllers/user"
	"helpdesk/middleware"
	authValidators "helpdesk/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	users := app.Group("/api/users")

	users.Post("/register", authValidators.Register(), userController.Register)
	users.Post("/login", authValidators.Login(), userController.Login)
	users.Post("/forgot-password", authValidators.ForgotPassword(), userController.ForgotPassword)
	users.Post("/reset-password", authValidators.ResetPassword(), userController.ResetPassword)

	users.Get("/profile", middleware.JWTMiddleware, userController.GetProfile)
	users.Put("/profile", middleware.JWTMiddleware, authValidators.UpdateProfile(), userController.UpdateProfile)
	users.Post("/change-password", middleware.JWTMiddleware, authValidators.ChangePassword(), userController.ChangePassword)

	users.Get("/", middleware.JWTMiddleware, userController.UserList)

	// Older clients still reach the same handlers under /api/auth
	auth := app.Group("/api/auth")
	auth.Post("/register", authValidators.Register(), userController.Register)
	auth.Post("/login", authValidators.Login(), userController.Login)
	auth.Post("/forgot-password", authValidators.ForgotPassword(), userController.ForgotPassword)
	auth.Post("/reset-password", authValidators.ResetPassword(), userController.ResetPassword)
	auth.Get("/profile", middleware.JWTMiddleware, userController.GetProfile)
	auth.Put("/profile", middleware.JWTMiddleware, authValidators.UpdateProfile(), userController.UpdateProfile)
	auth.Put("/change-password", middleware.JWTMiddleware, authValidators.ChangePassword(), userController.ChangePassword)
}
