package categoryValidators

import (
	"strings"

	"helpdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

type CategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DepartmentID *uint  `json:"department_id"`
}

func Category() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CategoryRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			errors["name"] = "Category name is required!"
		} else if len(reqData.Name) > 100 {
			errors["name"] = "Category name must not exceed 100 characters!"
		}

		reqData.Description = strings.TrimSpace(reqData.Description)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCategory", reqData)
		return c.Next()
	}
}
