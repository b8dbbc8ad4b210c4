package ticketController

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"helpdesk/config"
	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"
	"helpdesk/utils"
	ticketValidators "helpdesk/validators/ticket"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TicketView is the joined projection returned by every ticket read
type TicketView struct {
	ID                 uint       `json:"id"`
	TicketNumber       string     `json:"ticket_number"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	CategoryID         *uint      `json:"category_id"`
	PriorityID         *uint      `json:"priority_id"`
	DepartmentID       *uint      `json:"department_id"`
	StatusID           uint       `json:"status_id"`
	CreatedBy          uint       `json:"created_by"`
	AssignedTo         *uint      `json:"assigned_to"`
	DueDate            *time.Time `json:"due_date"`
	IsPrivate          bool       `json:"is_private"`
	ParentTicketID     *uint      `json:"parent_ticket_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CreatedByName      *string    `json:"created_by_name"`
	StatusName         *string    `json:"status_name"`
	PriorityName       *string    `json:"priority_name"`
	CategoryName       *string    `json:"category_name"`
	DepartmentName     *string    `json:"department_name"`
	AssignedToName     *string    `json:"assigned_to_name"`
	ParentTicketNumber *string    `json:"parent_ticket_number"`
}

func ticketQuery(db *gorm.DB) *gorm.DB {
	return db.Table("tickets AS t").
		Select(`t.*,
			u.username AS created_by_name,
			s.name AS status_name,
			p.name AS priority_name,
			c.name AS category_name,
			d.name AS department_name,
			assigned.username AS assigned_to_name,
			parent.ticket_number AS parent_ticket_number`).
		Joins("LEFT JOIN users u ON t.created_by = u.id").
		Joins("LEFT JOIN statuses s ON t.status_id = s.id").
		Joins("LEFT JOIN priorities p ON t.priority_id = p.id").
		Joins("LEFT JOIN categories c ON t.category_id = c.id").
		Joins("LEFT JOIN departments d ON t.department_id = d.id").
		Joins("LEFT JOIN users assigned ON t.assigned_to = assigned.id").
		Joins("LEFT JOIN tickets parent ON t.parent_ticket_id = parent.id")
}

// nextTicketNumber allocates TKT-<year>-<5 digit seq>. The sequence is
// derived from the lexicographically last number of the current year,
// so it restarts at 00001 every January.
func nextTicketNumber(tx *gorm.DB) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("TKT-%d-", year)

	var last models.Ticket
	err := tx.Where("ticket_number LIKE ?", prefix+"%").
		Order("ticket_number DESC").
		First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Sprintf("%s00001", prefix), nil
		}
		return "", err
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(last.TicketNumber, prefix))
	if err != nil {
		return "", fmt.Errorf("malformed ticket number %q: %w", last.TicketNumber, err)
	}

	return fmt.Sprintf("%s%05d", prefix, seq+1), nil
}

func displayName(user models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

func ticketURL(id uint) string {
	return fmt.Sprintf("%s/tickets/%d", config.AppConfig.FrontendURL, id)
}

func strPtr(s string) *string {
	return &s
}

// uintFieldValue renders a nullable FK for a history row
func uintFieldValue(v *uint) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatUint(uint64(*v), 10)
	return &s
}

func CreateTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreateTicket").(*ticketValidators.CreateTicketRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var creator models.User
	if err := db.First(&creator, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Resolved before the transaction so the post-commit email needs no
	// further queries
	var assignee *models.User
	if reqData.AssignedTo != nil {
		var u models.User
		if err := db.First(&u, *reqData.AssignedTo).Error; err == nil {
			assignee = &u
		}
	}

	ticket := models.Ticket{
		Title:          reqData.Title,
		Description:    reqData.Description,
		CategoryID:     reqData.CategoryID,
		PriorityID:     reqData.PriorityID,
		DepartmentID:   reqData.DepartmentID,
		CreatedBy:      userId,
		AssignedTo:     reqData.AssignedTo,
		DueDate:        reqData.ParsedDueDate,
		ParentTicketID: reqData.ParentTicketID,
	}
	if reqData.IsPrivate != nil {
		ticket.IsPrivate = *reqData.IsPrivate
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		number, err := nextTicketNumber(tx)
		if err != nil {
			return err
		}
		ticket.TicketNumber = number

		// New tickets always start in the well-known "New" status
		var newStatus models.Status
		if err := tx.Where("name = ?", models.StatusNew).First(&newStatus).Error; err != nil {
			return err
		}
		ticket.StatusID = newStatus.ID

		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}

		created := models.TicketHistory{
			TicketID:  ticket.ID,
			UserID:    &userId,
			Action:    models.HistoryCreated,
			FieldName: "ticket",
			NewValue:  strPtr(ticket.TicketNumber),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		if ticket.AssignedTo != nil {
			assigned := models.TicketHistory{
				TicketID:  ticket.ID,
				UserID:    &userId,
				Action:    models.HistoryAssigned,
				FieldName: "assigned_to",
				NewValue:  uintFieldValue(ticket.AssignedTo),
			}
			if err := tx.Create(&assigned).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("Error creating ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create ticket!", nil)
	}

	// Side effects after commit, never able to fail the request
	if assignee != nil && assignee.Email != "" {
		utils.SendTicketAssignmentEmail(
			assignee.Email,
			displayName(*assignee),
			ticket.TicketNumber,
			ticket.Title,
			ticketURL(ticket.ID),
			displayName(creator),
		)
	}

	var view TicketView
	if err := ticketQuery(db).Where("t.id = ?", ticket.ID).Scan(&view).Error; err != nil {
		log.Printf("Error loading created ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load created ticket!", nil)
	}

	utils.Publish("ticketCreated", view)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Ticket created successfully!", view)
}

func TicketList(c *fiber.Ctx) error {
	var tickets []TicketView
	if err := ticketQuery(database.Database.Db).
		Order("t.created_at DESC").
		Scan(&tickets).Error; err != nil {
		log.Printf("Error getting tickets: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", tickets)
}

func GetTicketById(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	var view TicketView
	result := ticketQuery(database.Database.Db).Where("t.id = ?", id).Scan(&view)
	if result.Error != nil {
		log.Printf("Error getting ticket: %v", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket fetched successfully!", view)
}

type fieldChange struct {
	field    string
	oldValue *string
	newValue *string
}

func UpdateTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateTicket").(*ticketValidators.UpdateTicketRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var oldTicket models.Ticket
	if err := db.First(&oldTicket, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
		}
		log.Printf("Error loading ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket!", nil)
	}

	var updater models.User
	if err := db.First(&updater, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Previous assignee, needed for the status-change notification
	var prevAssignee *models.User
	if oldTicket.AssignedTo != nil {
		var u models.User
		if err := db.First(&u, *oldTicket.AssignedTo).Error; err == nil {
			prevAssignee = &u
		}
	}

	// New assignee, needed for the assignment notification
	var newAssignee *models.User
	if reqData.AssignedTo != nil &&
		(oldTicket.AssignedTo == nil || *oldTicket.AssignedTo != *reqData.AssignedTo) {
		var u models.User
		if err := db.First(&u, *reqData.AssignedTo).Error; err == nil {
			newAssignee = &u
		}
	}

	updates := make(map[string]interface{})
	var changes []fieldChange

	if reqData.Title != nil && *reqData.Title != oldTicket.Title {
		updates["title"] = *reqData.Title
		changes = append(changes, fieldChange{"title", strPtr(oldTicket.Title), reqData.Title})
	}
	if reqData.Description != nil && *reqData.Description != oldTicket.Description {
		updates["description"] = *reqData.Description
		changes = append(changes, fieldChange{"description", strPtr(oldTicket.Description), reqData.Description})
	}
	if reqData.CategoryID != nil && !sameUint(reqData.CategoryID, oldTicket.CategoryID) {
		updates["category_id"] = *reqData.CategoryID
		changes = append(changes, fieldChange{"category_id", uintFieldValue(oldTicket.CategoryID), uintFieldValue(reqData.CategoryID)})
	}
	if reqData.PriorityID != nil && !sameUint(reqData.PriorityID, oldTicket.PriorityID) {
		updates["priority_id"] = *reqData.PriorityID
		changes = append(changes, fieldChange{"priority_id", uintFieldValue(oldTicket.PriorityID), uintFieldValue(reqData.PriorityID)})
	}
	if reqData.StatusID != nil && *reqData.StatusID != oldTicket.StatusID {
		updates["status_id"] = *reqData.StatusID
		old := oldTicket.StatusID
		changes = append(changes, fieldChange{"status_id", uintFieldValue(&old), uintFieldValue(reqData.StatusID)})
	}
	if reqData.AssignedTo != nil && !sameUint(reqData.AssignedTo, oldTicket.AssignedTo) {
		updates["assigned_to"] = *reqData.AssignedTo
		changes = append(changes, fieldChange{"assigned_to", uintFieldValue(oldTicket.AssignedTo), uintFieldValue(reqData.AssignedTo)})
	}
	if reqData.DepartmentID != nil && !sameUint(reqData.DepartmentID, oldTicket.DepartmentID) {
		updates["department_id"] = *reqData.DepartmentID
		changes = append(changes, fieldChange{"department_id", uintFieldValue(oldTicket.DepartmentID), uintFieldValue(reqData.DepartmentID)})
	}

	if len(updates) > 0 {
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Ticket{}).Where("id = ?", oldTicket.ID).Updates(updates).Error; err != nil {
				return err
			}

			// Exactly one history row per changed field
			for _, change := range changes {
				row := models.TicketHistory{
					TicketID:  oldTicket.ID,
					UserID:    &userId,
					Action:    models.HistoryUpdated,
					FieldName: change.field,
					OldValue:  change.oldValue,
					NewValue:  change.newValue,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			log.Printf("Error updating ticket: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update ticket!", nil)
		}
	}

	title := oldTicket.Title
	if reqData.Title != nil {
		title = *reqData.Title
	}

	if newAssignee != nil && newAssignee.Email != "" {
		utils.SendTicketAssignmentEmail(
			newAssignee.Email,
			displayName(*newAssignee),
			oldTicket.TicketNumber,
			title,
			ticketURL(oldTicket.ID),
			displayName(updater),
		)
	}

	if statusChange := findChange(changes, "status_id"); statusChange != nil && prevAssignee != nil && prevAssignee.Email != "" {
		utils.SendTicketUpdateEmail(
			prevAssignee.Email,
			displayName(*prevAssignee),
			oldTicket.TicketNumber,
			title,
			ticketURL(oldTicket.ID),
			"Status Change",
			fmt.Sprintf("Status changed from %q to %q",
				statusName(db, statusChange.oldValue),
				statusName(db, statusChange.newValue)),
			displayName(updater),
		)
	}

	var view TicketView
	if err := ticketQuery(db).Where("t.id = ?", oldTicket.ID).Scan(&view).Error; err != nil {
		log.Printf("Error loading updated ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load updated ticket!", nil)
	}

	if len(changes) > 0 {
		utils.Publish("ticketUpdated", view)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket updated successfully!", view)
}

func sameUint(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func findChange(changes []fieldChange, field string) *fieldChange {
	for i := range changes {
		if changes[i].field == field {
			return &changes[i]
		}
	}
	return nil
}

func statusName(db *gorm.DB, id *string) string {
	if id == nil {
		return "Unknown"
	}
	var status models.Status
	if err := db.Where("id = ?", *id).First(&status).Error; err != nil {
		return "Unknown"
	}
	return status.Name
}

func DeleteTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	db := database.Database.Db

	var ticket models.Ticket
	if err := db.First(&ticket, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
		}
		log.Printf("Error loading ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// The deletion event is recorded before the cascade wipes the
		// ticket's history along with everything else
		row := models.TicketHistory{
			TicketID: ticket.ID,
			UserID:   &userId,
			Action:   models.HistoryDeleted,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if err := tx.Where("ticket_id = ?", ticket.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticket_id = ?", ticket.ID).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticket_id = ?", ticket.ID).Delete(&models.TicketHistory{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Ticket{}, ticket.ID).Error
	})
	if err != nil {
		log.Printf("Error deleting ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete ticket!", nil)
	}

	utils.Publish("ticketDeleted", fiber.Map{"id": ticket.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket deleted successfully!", nil)
}

func AssignTicket(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	reqData, ok := c.Locals("validatedAssignTicket").(*ticketValidators.AssignTicketRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var ticket models.Ticket
	if err := db.First(&ticket, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
		}
		log.Printf("Error loading ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket!", nil)
	}

	var assignee models.User
	if err := db.First(&assignee, reqData.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("Error loading user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user!", nil)
	}

	var assigner models.User
	if err := db.First(&assigner, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Ticket{}).Where("id = ?", ticket.ID).
			Update("assigned_to", assignee.ID).Error; err != nil {
			return err
		}

		row := models.TicketHistory{
			TicketID:  ticket.ID,
			UserID:    &userId,
			Action:    models.HistoryAssigned,
			FieldName: "assigned_to",
			NewValue:  uintFieldValue(&assignee.ID),
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		log.Printf("Error assigning ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign ticket!", nil)
	}

	if assignee.Email != "" {
		utils.SendTicketAssignmentEmail(
			assignee.Email,
			displayName(assignee),
			ticket.TicketNumber,
			ticket.Title,
			ticketURL(ticket.ID),
			displayName(assigner),
		)
	}

	utils.Publish("ticketAssigned", fiber.Map{
		"ticket_id":   ticket.ID,
		"assigned_to": assignee.ID,
		"assigned_by": userId,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket assigned successfully!", nil)
}

// AssignedTickets returns the caller's assigned tickets plus per-status counts.
// Admins may inspect another user through ?user_id.
func AssignedTickets(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	role, _ := c.Locals("role").(string)
	targetId := userId
	if raw := c.Query("user_id"); raw != "" && (role == models.RoleAdmin || role == models.RoleSuperAdmin) {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user_id!", nil)
		}
		targetId = uint(parsed)
	}

	db := database.Database.Db

	var tickets []TicketView
	if err := ticketQuery(db).
		Where("t.assigned_to = ?", targetId).
		Order("t.created_at DESC").
		Scan(&tickets).Error; err != nil {
		log.Printf("Error getting assigned tickets: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assigned tickets!", nil)
	}

	countByStatus := func(name string) int64 {
		var count int64
		db.Model(&models.Ticket{}).
			Joins("JOIN statuses s ON tickets.status_id = s.id").
			Where("tickets.assigned_to = ? AND s.name = ?", targetId, name).
			Count(&count)
		return count
	}

	var total int64
	db.Model(&models.Ticket{}).Where("assigned_to = ?", targetId).Count(&total)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assigned tickets fetched successfully!", fiber.Map{
		"tickets": tickets,
		"stats": fiber.Map{
			"total_tickets":       total,
			"new_tickets":         countByStatus(models.StatusNew),
			"in_progress_tickets": countByStatus(models.StatusInProgress),
			"resolved_tickets":    countByStatus(models.StatusResolved),
		},
	})
}

// Assignees lists the active users a ticket can be assigned to
func Assignees(c *fiber.Ctx) error {
	type assignee struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	var users []assignee
	if err := database.Database.Db.Model(&models.User{}).
		Select("id, username, email").
		Where("is_active = ?", true).
		Order("username").
		Scan(&users).Error; err != nil {
		log.Printf("Error getting assignees: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignees!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignees fetched successfully!", users)
}
