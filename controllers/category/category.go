package categoryController

import (
	"log"

	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"
	categoryValidators "helpdesk/validators/category"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// duplicateName checks per-department uniqueness: the same category
// name may exist under different departments.
func duplicateName(db *gorm.DB, name string, departmentId *uint, excludeId uint) bool {
	query := db.Model(&models.Category{}).Where("name = ? AND id != ?", name, excludeId)
	if departmentId == nil {
		query = query.Where("department_id IS NULL")
	} else {
		query = query.Where("department_id = ?", *departmentId)
	}

	var count int64
	query.Count(&count)
	return count > 0
}

func CategoryList(c *fiber.Ctx) error {
	query := database.Database.Db.Order("name")
	if raw := c.Query("department_id"); raw != "" {
		query = query.Where("department_id = ?", raw)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		log.Printf("Error getting categories: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}

func GetCategoryById(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid category id!", nil)
	}

	var category models.Category
	if err := database.Database.Db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
		}
		log.Printf("Error getting category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category fetched successfully!", category)
}

func CreateCategory(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCategory").(*categoryValidators.CategoryRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if reqData.DepartmentID != nil {
		var dept models.Department
		if err := db.First(&dept, *reqData.DepartmentID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Department not found!", nil)
		}
	}

	if duplicateName(db, reqData.Name, reqData.DepartmentID, 0) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category name already exists in this department!", nil)
	}

	category := models.Category{
		Name:         reqData.Name,
		Description:  reqData.Description,
		DepartmentID: reqData.DepartmentID,
	}
	if err := db.Create(&category).Error; err != nil {
		log.Printf("Error creating category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", category)
}

func UpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid category id!", nil)
	}

	reqData, ok := c.Locals("validatedCategory").(*categoryValidators.CategoryRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
		}
		log.Printf("Error getting category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category!", nil)
	}

	if reqData.DepartmentID != nil {
		var dept models.Department
		if err := db.First(&dept, *reqData.DepartmentID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Department not found!", nil)
		}
	}

	if duplicateName(db, reqData.Name, reqData.DepartmentID, category.ID) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category name already exists in this department!", nil)
	}

	updates := map[string]interface{}{
		"name":          reqData.Name,
		"description":   reqData.Description,
		"department_id": reqData.DepartmentID,
	}
	if err := db.Model(&category).Updates(updates).Error; err != nil {
		log.Printf("Error updating category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category updated successfully!", category)
}

func DeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid category id!", nil)
	}

	db := database.Database.Db

	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
		}
		log.Printf("Error getting category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Tickets keep living without a category
		if err := tx.Model(&models.Ticket{}).Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		log.Printf("Error deleting category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category deleted successfully!", nil)
}
