package departmentController

import (
	"log"

	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"
	departmentValidators "helpdesk/validators/department"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func DepartmentList(c *fiber.Ctx) error {
	var departments []models.Department
	if err := database.Database.Db.Order("name").Find(&departments).Error; err != nil {
		log.Printf("Error getting departments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch departments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Departments fetched successfully!", departments)
}

func GetDepartmentById(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid department id!", nil)
	}

	var department models.Department
	if err := database.Database.Db.First(&department, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Department not found!", nil)
		}
		log.Printf("Error getting department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch department!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Department fetched successfully!", department)
}

func CreateDepartment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedDepartment").(*departmentValidators.DepartmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var count int64
	db.Model(&models.Department{}).Where("name = ?", reqData.Name).Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Department name already exists!", nil)
	}

	department := models.Department{
		Name:        reqData.Name,
		Description: reqData.Description,
	}
	if err := db.Create(&department).Error; err != nil {
		log.Printf("Error creating department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create department!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Department created successfully!", department)
}

func UpdateDepartment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid department id!", nil)
	}

	reqData, ok := c.Locals("validatedDepartment").(*departmentValidators.DepartmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var department models.Department
	if err := db.First(&department, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Department not found!", nil)
		}
		log.Printf("Error getting department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch department!", nil)
	}

	var count int64
	db.Model(&models.Department{}).
		Where("name = ? AND id != ?", reqData.Name, department.ID).
		Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Department name already exists!", nil)
	}

	department.Name = reqData.Name
	department.Description = reqData.Description
	if err := db.Save(&department).Error; err != nil {
		log.Printf("Error updating department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update department!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Department updated successfully!", department)
}

// DeleteDepartment detaches everything that pointed at the department
// before removing it: tickets and categories keep existing without a
// department, memberships are dropped.
func DeleteDepartment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid department id!", nil)
	}

	db := database.Database.Db

	var department models.Department
	if err := db.First(&department, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Department not found!", nil)
		}
		log.Printf("Error getting department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch department!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Ticket{}).Where("department_id = ?", department.ID).
			Update("department_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Category{}).Where("department_id = ?", department.ID).
			Update("department_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("department_id = ?", department.ID).Delete(&models.UserDepartment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&department).Error
	})
	if err != nil {
		log.Printf("Error deleting department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete department!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Department deleted successfully!", nil)
}
