package database

import (
	"fmt"
	"log"

	"helpdesk/config"
	"helpdesk/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	cfg := config.AppConfig

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	RunMigrations(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations and seeds reference data
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.UserDepartment{},
		&models.Department{},
		&models.Category{},
		&models.Priority{},
		&models.Status{},
		&models.Ticket{},
		&models.Comment{},
		&models.Attachment{},
		&models.TicketHistory{},
		&models.SystemSetting{},
		&models.PasswordResetToken{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	seedReferenceData(db)

	log.Println("Migrations completed successfully.")
}

// seedReferenceData inserts the fixed statuses and default priorities
// when the tables are empty. Statuses are not user-editable.
func seedReferenceData(db *gorm.DB) {
	var statusCount int64
	db.Model(&models.Status{}).Count(&statusCount)
	if statusCount == 0 {
		statuses := []models.Status{
			{Name: models.StatusNew},
			{Name: models.StatusInProgress},
			{Name: models.StatusResolved},
			{Name: models.StatusClosed},
		}
		if err := db.Create(&statuses).Error; err != nil {
			log.Printf("Error seeding statuses: %v", err)
		}
	}

	var priorityCount int64
	db.Model(&models.Priority{}).Count(&priorityCount)
	if priorityCount == 0 {
		priorities := []models.Priority{
			{Name: "Low"},
			{Name: "Medium"},
			{Name: "High"},
			{Name: "Urgent"},
		}
		if err := db.Create(&priorities).Error; err != nil {
			log.Printf("Error seeding priorities: %v", err)
		}
	}
}
