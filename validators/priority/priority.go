package priorityValidators

import (
	"strings"

	"helpdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

type PriorityRequest struct {
	Name string `json:"name"`
}

func Priority() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PriorityRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			errors["name"] = "Priority name is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPriority", reqData)
		return c.Next()
	}
}
