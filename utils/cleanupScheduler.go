package utils

import (
	"log"
	"time"

	"helpdesk/database"
	"helpdesk/models"

	"github.com/robfig/cron/v3"
)

func purgeExpiredResetTokens() {
	result := database.Database.Db.
		Where("expires_at < ?", time.Now()).
		Delete(&models.PasswordResetToken{})
	if result.Error != nil {
		log.Printf("Reset token cleanup failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Purged %d expired password reset tokens", result.RowsAffected)
	}
}

// InitializeCleanupScheduler starts the hourly maintenance jobs
func InitializeCleanupScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("0 * * * *", purgeExpiredResetTokens); err != nil {
		log.Printf("Failed to schedule reset token cleanup: %v", err)
	}

	c.Start()
	log.Println("Cleanup scheduler started - runs hourly")
	return c
}
