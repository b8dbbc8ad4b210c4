package middleware

import (
	"helpdesk/models"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware allows admin and super_admin roles
func AdminMiddleware(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied: Admin privileges required", nil)
	}
	return c.Next()
}

// SuperAdminMiddleware allows only the super_admin role
func SuperAdminMiddleware(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)
	if role != models.RoleSuperAdmin {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied: Super Admin privileges required", nil)
	}
	return c.Next()
}
