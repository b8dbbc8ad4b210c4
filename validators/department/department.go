package departmentValidators

import (
	"strings"

	"helpdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

type DepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func Department() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DepartmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			errors["name"] = "Department name is required!"
		} else if len(reqData.Name) > 100 {
			errors["name"] = "Department name must not exceed 100 characters!"
		}

		reqData.Description = strings.TrimSpace(reqData.Description)

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDepartment", reqData)
		return c.Next()
	}
}
