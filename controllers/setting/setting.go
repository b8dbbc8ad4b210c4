package settingController

import (
	"log"

	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetSettings(c *fiber.Ctx) error {
	var settings []models.SystemSetting
	if err := database.Database.Db.Order("setting_key").Find(&settings).Error; err != nil {
		log.Printf("Error getting settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.SettingKey] = setting.SettingValue
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully!", result)
}

// UpdateSettings upserts every supplied key in one transaction; either
// all of them land or none do.
func UpdateSettings(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSettings").(map[string]string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	err := db.Transaction(func(tx *gorm.DB) error {
		for key, value := range reqData {
			var setting models.SystemSetting
			err := tx.Where("setting_key = ?", key).First(&setting).Error
			if err == gorm.ErrRecordNotFound {
				setting = models.SystemSetting{SettingKey: key, SettingValue: value}
				if err := tx.Create(&setting).Error; err != nil {
					return err
				}
				continue
			}
			if err != nil {
				return err
			}

			if err := tx.Model(&setting).Update("setting_value", value).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update settings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings updated successfully!", reqData)
}
