package adminController

import (
	"log"
	"time"

	"helpdesk/config"
	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"
	adminValidators "helpdesk/validators/admin"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ManagedUser struct {
	ID          uint                `json:"id"`
	Username    string              `json:"username"`
	Email       string              `json:"email"`
	FullName    string              `json:"full_name"`
	Role        string              `json:"role"`
	IsActive    bool                `json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Departments []models.Department `json:"departments"`
}

func managedUser(db *gorm.DB, user models.User) ManagedUser {
	var departments []models.Department
	db.Table("departments AS d").
		Joins("JOIN user_departments ud ON ud.department_id = d.id").
		Where("ud.user_id = ?", user.ID).
		Order("d.name").
		Scan(&departments)

	return ManagedUser{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		Departments: departments,
	}
}

func replaceDepartments(tx *gorm.DB, userId uint, departmentIds []uint) error {
	if err := tx.Where("user_id = ?", userId).Delete(&models.UserDepartment{}).Error; err != nil {
		return err
	}

	for _, deptId := range departmentIds {
		var dept models.Department
		if err := tx.First(&dept, deptId).Error; err != nil {
			return err
		}

		membership := models.UserDepartment{UserID: userId, DepartmentID: deptId}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
	}

	return nil
}

func GetUsers(c *fiber.Ctx) error {
	db := database.Database.Db

	var users []models.User
	if err := db.Order("username").Find(&users).Error; err != nil {
		log.Printf("Error getting users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	result := make([]ManagedUser, 0, len(users))
	for _, user := range users {
		result = append(result, managedUser(db, user))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", result)
}

func GetUserById(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("Error getting user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", managedUser(db, user))
}

func CreateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateUser").(*adminValidators.CreateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var count int64
	db.Model(&models.User{}).
		Where("username = ? OR email = ?", reqData.Username, reqData.Email).
		Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username or email already exists!", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	user := models.User{
		Username: reqData.Username,
		Email:    reqData.Email,
		Password: string(hashed),
		FullName: reqData.FullName,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if reqData.Role != nil {
		user.Role = *reqData.Role
	}
	if reqData.IsActive != nil {
		user.IsActive = *reqData.IsActive
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return replaceDepartments(tx, user.ID, reqData.DepartmentIDs)
	})
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully!", managedUser(db, user))
}

func UpdateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateUser").(*adminValidators.UpdateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("Error getting user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user!", nil)
	}

	updates := make(map[string]interface{})

	if reqData.Username != nil && *reqData.Username != user.Username {
		var count int64
		db.Model(&models.User{}).
			Where("username = ? AND id != ?", *reqData.Username, user.ID).
			Count(&count)
		if count > 0 {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username already exists!", nil)
		}
		updates["username"] = *reqData.Username
	}

	if reqData.Email != nil && *reqData.Email != user.Email {
		var count int64
		db.Model(&models.User{}).
			Where("email = ? AND id != ?", *reqData.Email, user.ID).
			Count(&count)
		if count > 0 {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already exists!", nil)
		}
		updates["email"] = *reqData.Email
	}

	if reqData.FullName != nil {
		updates["full_name"] = *reqData.FullName
	}
	if reqData.Role != nil {
		updates["role"] = *reqData.Role
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	if reqData.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
		}
		updates["password"] = string(hashed)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
		}

		if reqData.DepartmentIDs != nil {
			return replaceDepartments(tx, user.ID, *reqData.DepartmentIDs)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", managedUser(db, user))
}

func DeleteUser(c *fiber.Ctx) error {
	callerId, _ := c.Locals("userId").(uint)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	if uint(id) == callerId {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("Error getting user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Tickets the user created or commented on survive; only the
		// assignment link is cleared
		if err := tx.Model(&models.Ticket{}).Where("assigned_to = ?", user.ID).
			Update("assigned_to", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserDepartment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		log.Printf("Error deleting user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}

type DepartmentView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserCount   int64     `json:"user_count"`
}

// GetDepartments mirrors the department listing but adds the member
// count the admin screens need
func GetDepartments(c *fiber.Ctx) error {
	var departments []DepartmentView
	if err := database.Database.Db.Table("departments AS d").
		Select("d.*, COUNT(ud.user_id) AS user_count").
		Joins("LEFT JOIN user_departments ud ON ud.department_id = d.id").
		Group("d.id").
		Order("d.name").
		Scan(&departments).Error; err != nil {
		log.Printf("Error getting departments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch departments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Departments fetched successfully!", departments)
}
