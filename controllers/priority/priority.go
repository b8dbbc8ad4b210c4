package priorityController

import (
	"log"

	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"
	priorityValidators "helpdesk/validators/priority"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func PriorityList(c *fiber.Ctx) error {
	var priorities []models.Priority
	if err := database.Database.Db.Order("id").Find(&priorities).Error; err != nil {
		log.Printf("Error getting priorities: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch priorities!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Priorities fetched successfully!", priorities)
}

func CreatePriority(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPriority").(*priorityValidators.PriorityRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var count int64
	db.Model(&models.Priority{}).Where("name = ?", reqData.Name).Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Priority name already exists!", nil)
	}

	priority := models.Priority{Name: reqData.Name}
	if err := db.Create(&priority).Error; err != nil {
		log.Printf("Error creating priority: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create priority!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Priority created successfully!", priority)
}

func UpdatePriority(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid priority id!", nil)
	}

	reqData, ok := c.Locals("validatedPriority").(*priorityValidators.PriorityRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var priority models.Priority
	if err := db.First(&priority, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Priority not found!", nil)
		}
		log.Printf("Error getting priority: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch priority!", nil)
	}

	var count int64
	db.Model(&models.Priority{}).
		Where("name = ? AND id != ?", reqData.Name, priority.ID).
		Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Priority name already exists!", nil)
	}

	priority.Name = reqData.Name
	if err := db.Save(&priority).Error; err != nil {
		log.Printf("Error updating priority: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update priority!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Priority updated successfully!", priority)
}

func DeletePriority(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid priority id!", nil)
	}

	db := database.Database.Db

	var priority models.Priority
	if err := db.First(&priority, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Priority not found!", nil)
		}
		log.Printf("Error getting priority: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch priority!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Ticket{}).Where("priority_id = ?", priority.ID).
			Update("priority_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&priority).Error
	})
	if err != nil {
		log.Printf("Error deleting priority: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete priority!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Priority deleted successfully!", nil)
}
