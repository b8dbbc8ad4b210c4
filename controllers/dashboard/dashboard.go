package dashboardController

import (
	"log"
	"time"

	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type groupCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type recentTicket struct {
	ID           uint      `json:"id"`
	TicketNumber string    `json:"ticket_number"`
	Title        string    `json:"title"`
	StatusName   *string   `json:"status_name"`
	PriorityName *string   `json:"priority_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// timeframeCutoff maps the ?timeframe query to a created_at lower
// bound; zero time means no bound.
func timeframeCutoff(timeframe string) (time.Time, bool) {
	now := time.Now()
	switch timeframe {
	case "daily":
		// Today, not a rolling 24h window
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
	case "weekly":
		return now.AddDate(0, 0, -7), true
	case "monthly":
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// Dashboard aggregates ticket counts for the caller. Managers and
// above see the whole system; agents and regular users only see
// tickets they created or are assigned to.
func Dashboard(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	db := database.Database.Db

	scoped := func() *gorm.DB {
		query := db.Table("tickets AS t")
		switch role {
		case models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager:
		default:
			query = query.Where("t.created_by = ? OR t.assigned_to = ?", userId, userId)
		}
		if cutoff, bounded := timeframeCutoff(c.Query("timeframe", "all")); bounded {
			query = query.Where("t.created_at >= ?", cutoff)
		}
		return query
	}

	var byStatus []groupCount
	if err := scoped().
		Select("s.name AS name, COUNT(t.id) AS count").
		Joins("JOIN statuses s ON t.status_id = s.id").
		Group("s.name").
		Scan(&byStatus).Error; err != nil {
		log.Printf("Error aggregating by status: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build dashboard!", nil)
	}

	var byPriority []groupCount
	if err := scoped().
		Select("p.name AS name, COUNT(t.id) AS count").
		Joins("JOIN priorities p ON t.priority_id = p.id").
		Group("p.name").
		Scan(&byPriority).Error; err != nil {
		log.Printf("Error aggregating by priority: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build dashboard!", nil)
	}

	var byCategory []groupCount
	if err := scoped().
		Select("c.name AS name, COUNT(t.id) AS count").
		Joins("JOIN categories c ON t.category_id = c.id").
		Group("c.name").
		Scan(&byCategory).Error; err != nil {
		log.Printf("Error aggregating by category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build dashboard!", nil)
	}

	var byDepartment []groupCount
	if err := scoped().
		Select("d.name AS name, COUNT(t.id) AS count").
		Joins("JOIN departments d ON t.department_id = d.id").
		Group("d.name").
		Scan(&byDepartment).Error; err != nil {
		log.Printf("Error aggregating by department: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build dashboard!", nil)
	}

	var recent []recentTicket
	if err := scoped().
		Select("t.id, t.ticket_number, t.title, s.name AS status_name, p.name AS priority_name, t.created_at").
		Joins("LEFT JOIN statuses s ON t.status_id = s.id").
		Joins("LEFT JOIN priorities p ON t.priority_id = p.id").
		Order("t.created_at DESC").
		Limit(5).
		Scan(&recent).Error; err != nil {
		log.Printf("Error loading recent tickets: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build dashboard!", nil)
	}

	countStatus := func(name string) int64 {
		var count int64
		scoped().
			Joins("JOIN statuses s ON t.status_id = s.id").
			Where("s.name = ?", name).
			Count(&count)
		return count
	}

	var total int64
	scoped().Count(&total)

	var unassigned int64
	scoped().Where("t.assigned_to IS NULL").Count(&unassigned)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"tickets_by_status":     byStatus,
		"tickets_by_priority":   byPriority,
		"tickets_by_category":   byCategory,
		"tickets_by_department": byDepartment,
		"recent_tickets":        recent,
		"summary": fiber.Map{
			"total_tickets":       total,
			"new_tickets":         countStatus(models.StatusNew),
			"in_progress_tickets": countStatus(models.StatusInProgress),
			"resolved_tickets":    countStatus(models.StatusResolved),
			"closed_tickets":      countStatus(models.StatusClosed),
			"unassigned_tickets":  unassigned,
		},
	})
}
