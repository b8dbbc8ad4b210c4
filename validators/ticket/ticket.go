package ticketValidators

import (
	"strings"
	"time"

	"helpdesk/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateTicketRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	CategoryID     *uint      `json:"category_id"`
	PriorityID     *uint      `json:"priority_id"`
	DepartmentID   *uint      `json:"department_id"`
	DueDate        *string    `json:"due_date"`
	IsPrivate      *bool      `json:"is_private"`
	ParentTicketID *uint      `json:"parent_ticket_id"`
	AssignedTo     *uint      `json:"assigned_to"`
	ParsedDueDate  *time.Time `json:"-"`
}

// UpdateTicketRequest is the allowed mutable field set; absent fields
// stay untouched, present-but-equal fields produce no history row.
type UpdateTicketRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	CategoryID   *uint   `json:"category_id"`
	PriorityID   *uint   `json:"priority_id"`
	StatusID     *uint   `json:"status_id"`
	AssignedTo   *uint   `json:"assigned_to"`
	DepartmentID *uint   `json:"department_id"`
}

type AssignTicketRequest struct {
	UserID uint `json:"user_id"`
}

type CommentRequest struct {
	Content   string `json:"content"`
	IsPrivate *bool  `json:"is_private"`
}

func parseDueDate(raw string) (*time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func CreateTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateTicketRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) > 200 {
			errors["title"] = "Title must not exceed 200 characters!"
		}

		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.DueDate != nil && *reqData.DueDate != "" {
			parsed, ok := parseDueDate(*reqData.DueDate)
			if !ok {
				errors["due_date"] = "Due date must be YYYY-MM-DD or RFC3339!"
			}
			reqData.ParsedDueDate = parsed
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateTicket", reqData)
		return c.Next()
	}
}

func UpdateTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateTicketRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil {
			*reqData.Title = strings.TrimSpace(*reqData.Title)
			if *reqData.Title == "" {
				errors["title"] = "Title cannot be empty!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateTicket", reqData)
		return c.Next()
	}
}

func AssignTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AssignTicketRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignTicket", reqData)
		return c.Next()
	}
}

func AddComment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CommentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Content = strings.TrimSpace(reqData.Content)
		if reqData.Content == "" {
			errors["content"] = "Comment content is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedComment", reqData)
		return c.Next()
	}
}
