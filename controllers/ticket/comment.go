package ticketController

import (
	"log"
	"time"

	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"
	"helpdesk/utils"
	ticketValidators "helpdesk/validators/ticket"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommentView struct {
	ID        uint      `json:"id"`
	TicketID  uint      `json:"ticket_id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	IsPrivate bool      `json:"is_private"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserName  *string   `json:"user_name"`
}

type HistoryView struct {
	ID        uint      `json:"id"`
	TicketID  uint      `json:"ticket_id"`
	UserID    *uint     `json:"user_id"`
	Action    string    `json:"action"`
	FieldName string    `json:"field_name"`
	OldValue  *string   `json:"old_value"`
	NewValue  *string   `json:"new_value"`
	CreatedAt time.Time `json:"created_at"`
	UserName  *string   `json:"user_name"`
}

func loadTicket(c *fiber.Ctx) (*models.Ticket, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	var ticket models.Ticket
	if err := database.Database.Db.First(&ticket, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
		}
		log.Printf("Error loading ticket: %v", err)
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket!", nil)
	}

	return &ticket, nil
}

// canSeePrivate reports whether the caller may read private comments on
// the given ticket: its author always can, as can the ticket creator,
// the current assignee and admin accounts.
func canSeePrivate(ticket *models.Ticket, userId uint, role string) bool {
	if role == models.RoleAdmin || role == models.RoleSuperAdmin {
		return true
	}
	if ticket.CreatedBy == userId {
		return true
	}
	return ticket.AssignedTo != nil && *ticket.AssignedTo == userId
}

func AddComment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	ticket, err := loadTicket(c)
	if ticket == nil {
		return err
	}

	reqData, ok := c.Locals("validatedComment").(*ticketValidators.CommentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	comment := models.Comment{
		TicketID: ticket.ID,
		UserID:   userId,
		Content:  reqData.Content,
	}
	if reqData.IsPrivate != nil {
		comment.IsPrivate = *reqData.IsPrivate
	}

	db := database.Database.Db
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		row := models.TicketHistory{
			TicketID:  ticket.ID,
			UserID:    &userId,
			Action:    models.HistoryCommented,
			FieldName: "comment",
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		log.Printf("Error adding comment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add comment!", nil)
	}

	var view CommentView
	if err := db.Table("comments AS c").
		Select("c.*, u.username AS user_name").
		Joins("LEFT JOIN users u ON c.user_id = u.id").
		Where("c.id = ?", comment.ID).
		Scan(&view).Error; err != nil {
		log.Printf("Error loading comment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load comment!", nil)
	}

	utils.Publish("commentAdded", fiber.Map{
		"ticket_id": ticket.ID,
		"comment":   view,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Comment added successfully!", view)
}

func TicketComments(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	ticket, err := loadTicket(c)
	if ticket == nil {
		return err
	}

	query := database.Database.Db.Table("comments AS c").
		Select("c.*, u.username AS user_name").
		Joins("LEFT JOIN users u ON c.user_id = u.id").
		Where("c.ticket_id = ?", ticket.ID)

	if !canSeePrivate(ticket, userId, role) {
		// Other callers still see their own private comments
		query = query.Where("c.is_private = ? OR c.user_id = ?", false, userId)
	}

	var comments []CommentView
	if err := query.Order("c.created_at DESC").Scan(&comments).Error; err != nil {
		log.Printf("Error getting comments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch comments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Comments fetched successfully!", comments)
}

func TicketHistoryList(c *fiber.Ctx) error {
	ticket, err := loadTicket(c)
	if ticket == nil {
		return err
	}

	var history []HistoryView
	if err := database.Database.Db.Table("ticket_histories AS h").
		Select("h.*, u.username AS user_name").
		Joins("LEFT JOIN users u ON h.user_id = u.id").
		Where("h.ticket_id = ?", ticket.ID).
		Order("h.created_at DESC").
		Scan(&history).Error; err != nil {
		log.Printf("Error getting ticket history: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket history fetched successfully!", history)
}
