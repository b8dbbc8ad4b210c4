package main

import (
	"log"

	"helpdesk/config"
	"helpdesk/database"
	adminRoutes "helpdesk/routers/adminRoutes"
	attachmentRoutes "helpdesk/routers/attachmentRoutes"
	authRoutes "helpdesk/routers/authRoutes"
	categoryRoutes "helpdesk/routers/categoryRoutes"
	dashboardRoutes "helpdesk/routers/dashboardRoutes"
	departmentRoutes "helpdesk/routers/departmentRoutes"
	priorityRoutes "helpdesk/routers/priorityRoutes"
	settingRoutes "helpdesk/routers/settingRoutes"
	ticketRoutes "helpdesk/routers/ticketRoutes"
	"helpdesk/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	utils.InitBroadcaster(config.AppConfig.WebhookURL)
	utils.InitializeCleanupScheduler()

	app := fiber.New(fiber.Config{
		// Headroom above the 10MB attachment cap for multipart framing
		BodyLimit: 12 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve stored attachments directly
	app.Static("/uploads", config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	ticketRoutes.SetupTicketRoutes(app)
	departmentRoutes.SetupDepartmentRoutes(app)
	categoryRoutes.SetupCategoryRoutes(app)
	priorityRoutes.SetupPriorityRoutes(app)
	settingRoutes.SetupSettingRoutes(app)
	dashboardRoutes.SetupDashboardRoutes(app)
	attachmentRoutes.SetupAttachmentRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
