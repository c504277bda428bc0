package handlers

import (
	"telemedicine-reminder-server/internal/middleware"
	"telemedicine-reminder-server/internal/models"
	"telemedicine-reminder-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationHandler handles notification related requests.
type NotificationHandler struct {
	DB *gorm.DB
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

// GetNotificationsForUser fetches the logged-in user's notifications,
// newest first.
func (h *NotificationHandler) GetNotificationsForUser(c *gin.Context) {
	userIDStr, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var notifications []models.Notification
	if err := h.DB.Where("user_id = ?", userIDStr).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch notifications: "+err.Error())
		return
	}

	utils.Success(c, "Notifications fetched successfully", notifications)
}

// MarkNotificationRead marks one of the user's notifications as read.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	notificationIDStr := c.Param("id")
	notificationID, err := uuid.Parse(notificationIDStr)
	if err != nil {
		utils.BadRequest(c, "Invalid Notification ID format")
		return
	}

	userIDStr, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var notification models.Notification
	if err := h.DB.First(&notification, "id = ?", notificationID.String()).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Notification not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if notification.UserID != userIDStr {
		utils.Forbidden(c, "You are not authorized to update this notification")
		return
	}

	notification.IsRead = true
	if err := h.DB.Save(&notification).Error; err != nil {
		utils.InternalServerError(c, "Failed to update notification: "+err.Error())
		return
	}

	utils.Success(c, "Notification marked as read", notification)
}
