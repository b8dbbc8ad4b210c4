package attachmentController

import (
	"log"
	"os"
	"strconv"

	"helpdesk/config"
	"helpdesk/database"
	"helpdesk/middleware"
	"helpdesk/models"
	"helpdesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MaxFileSize caps a single attachment at 10MB
const MaxFileSize = 10 * 1024 * 1024

// resolveTicketId accepts the ticket id from the route (nested form) or
// from the ticket_id multipart/query field (flat /attachments form)
func resolveTicketId(c *fiber.Ctx) (int, error) {
	for _, param := range []string{"id", "ticket_id"} {
		if raw := c.Params(param); raw != "" {
			return strconv.Atoi(raw)
		}
	}
	if raw := c.FormValue("ticket_id"); raw != "" {
		return strconv.Atoi(raw)
	}
	return 0, fiber.ErrBadRequest
}

func UploadAttachment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	ticketId, err := resolveTicketId(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	db := database.Database.Db

	var ticket models.Ticket
	if err := db.First(&ticket, ticketId).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
		}
		log.Printf("Error loading ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket!", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No file uploaded!", nil)
	}

	// Size checked before anything touches disk or the database
	if file.Size > MaxFileSize {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File size exceeds the 10MB limit!", nil)
	}

	var commentId *uint
	if raw := c.FormValue("comment_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid comment_id!", nil)
		}
		id := uint(parsed)

		var comment models.Comment
		if err := db.First(&comment, id).Error; err != nil || comment.TicketID != ticket.ID {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Comment not found!", nil)
		}
		commentId = &id
	}

	filePath, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
	if err != nil {
		log.Printf("Error saving file: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save file!", nil)
	}

	attachment := models.Attachment{
		TicketID:  ticket.ID,
		CommentID: commentId,
		UserID:    &userId,
		FileName:  file.Filename,
		FilePath:  filePath,
		FileURL:   utils.GetFileURL(filePath),
		FileType:  file.Header.Get("Content-Type"),
		FileSize:  file.Size,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attachment).Error; err != nil {
			return err
		}

		row := models.TicketHistory{
			TicketID:  ticket.ID,
			UserID:    &userId,
			Action:    models.HistoryAttached,
			FieldName: "attachment",
			NewValue:  &attachment.FileName,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		// The stored file must not outlive the failed insert
		if removeErr := os.Remove(filePath); removeErr != nil {
			log.Printf("Error removing orphaned file %s: %v", filePath, removeErr)
		}
		log.Printf("Error creating attachment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save attachment!", nil)
	}

	attachment.FileURL = utils.GetDownloadURL(attachment.ID)
	db.Model(&attachment).Update("file_url", attachment.FileURL)

	utils.Publish("attachmentAdded", fiber.Map{
		"ticket_id":  ticket.ID,
		"attachment": attachment,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully!", attachment)
}

func TicketAttachments(c *fiber.Ctx) error {
	ticketId, err := resolveTicketId(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid ticket id!", nil)
	}

	db := database.Database.Db

	var ticket models.Ticket
	if err := db.First(&ticket, ticketId).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
		}
		log.Printf("Error loading ticket: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch ticket!", nil)
	}

	var attachments []models.Attachment
	if err := db.Where("ticket_id = ?", ticket.ID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		log.Printf("Error getting attachments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attachments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attachments fetched successfully!", attachments)
}

// ServeAttachment streams the stored file under its original name
func ServeAttachment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attachment id!", nil)
	}

	var attachment models.Attachment
	if err := database.Database.Db.First(&attachment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attachment not found!", nil)
		}
		log.Printf("Error getting attachment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attachment!", nil)
	}

	if _, err := os.Stat(attachment.FilePath); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found on disk!", nil)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+attachment.FileName+`"`)
	return c.SendFile(attachment.FilePath)
}

func DeleteAttachment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid attachment id!", nil)
	}

	db := database.Database.Db

	var attachment models.Attachment
	if err := db.First(&attachment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attachment not found!", nil)
		}
		log.Printf("Error getting attachment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attachment!", nil)
	}

	isOwner := attachment.UserID != nil && *attachment.UserID == userId
	if !isOwner && role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied!", nil)
	}

	if err := db.Delete(&attachment).Error; err != nil {
		log.Printf("Error deleting attachment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete attachment!", nil)
	}

	// Removing the file is best effort once the row is gone
	if err := os.Remove(attachment.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Error removing file %s: %v", attachment.FilePath, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attachment deleted successfully!", nil)
}
