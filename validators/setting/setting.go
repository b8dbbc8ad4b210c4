package settingValidators

import (
	"helpdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

// Settings arrive as a flat key -> value object; every supplied key is
// upserted by the controller.
func UpdateSettings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := make(map[string]string)

		if err := c.BodyParser(&reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"settings": "At least one setting is required!",
			})
		}

		for key := range reqData {
			if key == "" {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"settings": "Setting keys cannot be empty!",
				})
			}
		}

		c.Locals("validatedSettings", reqData)
		return c.Next()
	}
}
