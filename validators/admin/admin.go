package adminValidators

import (
	"strings"

	"helpdesk/middleware"
	"helpdesk/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

var validRoles = map[string]bool{
	models.RoleSuperAdmin: true,
	models.RoleAdmin:      true,
	models.RoleManager:    true,
	models.RoleAgent:      true,
	models.RoleUser:       true,
}

type CreateUserRequest struct {
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	FullName      string  `json:"full_name"`
	Role          *string `json:"role"`
	IsActive      *bool   `json:"is_active"`
	DepartmentIDs []uint  `json:"department_ids"`
}

// UpdateUserRequest: nil DepartmentIDs leaves memberships untouched,
// an empty slice clears them.
type UpdateUserRequest struct {
	Username      *string `json:"username"`
	Email         *string `json:"email"`
	Password      *string `json:"password"`
	FullName      *string `json:"full_name"`
	Role          *string `json:"role"`
	IsActive      *bool   `json:"is_active"`
	DepartmentIDs *[]uint `json:"department_ids"`
}

func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Username = strings.TrimSpace(reqData.Username)
		if reqData.Username == "" {
			errors["username"] = "Username is required!"
		}

		reqData.Email = strings.TrimSpace(reqData.Email)
		if reqData.Email == "" {
			errors["email"] = "Email is required!"
		} else if err := validate.Var(reqData.Email, "email"); err != nil {
			errors["email"] = "Invalid email address!"
		}

		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		} else if len(reqData.Password) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		if reqData.Role != nil && !validRoles[*reqData.Role] {
			errors["role"] = "Invalid role!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateUser", reqData)
		return c.Next()
	}
}

func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateUserRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Username != nil {
			*reqData.Username = strings.TrimSpace(*reqData.Username)
			if *reqData.Username == "" {
				errors["username"] = "Username cannot be empty!"
			}
		}

		if reqData.Email != nil {
			*reqData.Email = strings.TrimSpace(*reqData.Email)
			if err := validate.Var(*reqData.Email, "email"); err != nil {
				errors["email"] = "Invalid email address!"
			}
		}

		if reqData.Password != nil && len(*reqData.Password) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}

		if reqData.Role != nil && !validRoles[*reqData.Role] {
			errors["role"] = "Invalid role!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateUser", reqData)
		return c.Next()
	}
}
