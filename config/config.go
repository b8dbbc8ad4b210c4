package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	MailHost        string
	MailPort        string
	MailUser        string
	MailPass        string
	MailFromName    string
	MailFromAddress string

	FrontendURL string // used for links inside notification emails
	BaseURL     string // used for attachment download URLs
	UploadDir   string
	WebhookURL  string // optional event webhook, empty disables broadcasting
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "9000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "helpdesk"),

		MailHost:        getEnv("MAIL_HOST", "localhost"),
		MailPort:        getEnv("MAIL_PORT", "587"),
		MailUser:        getEnv("MAIL_USER", ""),
		MailPass:        getEnv("MAIL_PASS", ""),
		MailFromName:    getEnv("MAIL_FROM_NAME", "Ticket System"),
		MailFromAddress: getEnv("MAIL_FROM_ADDRESS", "noreply@localhost"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:9000"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		WebhookURL:  getEnv("WEBHOOK_URL", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
