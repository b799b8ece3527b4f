package http

import (
	"errors"
	"net/http"
	"strconv"

	"code-campus/pkg/logger"
	"code-campus/services/notification/internal/entity"
	"code-campus/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

type CreateNotificationRequest struct {
	Type        string            `json:"type" binding:"required"`
	RecipientID string            `json:"recipient_id" binding:"required"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Priority    string            `json:"priority"`
	SenderID    *string           `json:"sender_id"`
	RelatedType string            `json:"related_type"`
	RelatedID   string            `json:"related_id"`
	Data        map[string]string `json:"data"`
}

type MarkAllReadRequest struct {
	RecipientID string `json:"recipient_id"`
	All         bool   `json:"all"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// mapError translates domain errors to HTTP without leaking store internals.
func (h *NotificationHandler) mapError(c *gin.Context, err error) {
	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, entity.ErrNotFound):
		respondError(c, http.StatusNotFound, "Notification not found")
	default:
		h.logger.Error("Notification operation failed: %v", err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == "admin"
}

// GetNotifications godoc
// @Summary      Get notifications
// @Description  Newest-first notifications for the authenticated user. Admins may pass recipient_id= to view another recipient's feed, or all=true for the unscoped list.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max rows to return (default 50, max 100)"
// @Param        recipient_id query string false "Admin only: recipient to list for"
// @Param        all query bool false "Admin only: list across all recipients"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	if c.Query("all") == "true" {
		if !isAdmin(c) {
			respondError(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		notifications, err := h.notificationUseCase.ListAll(limit)
		if err != nil {
			h.mapError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"notifications": notifications,
				"count":         len(notifications),
			},
		})
		return
	}

	recipientID := userID
	if requested := c.Query("recipient_id"); requested != "" && requested != userID {
		if !isAdmin(c) {
			respondError(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		recipientID = requested
	}

	notifications, unreadCount, err := h.notificationUseCase.ListForRecipient(recipientID, limit)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"notifications": notifications,
			"count":         len(notifications),
			"unread_count":  unreadCount,
		},
	})
}

// MarkRead godoc
// @Summary      Mark one notification read
// @Description  Marks the notification read. Idempotent: re-marking an already-read notification succeeds without changing read_at. Unknown ids (and other recipients' rows) return 404.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid notification id")
		return
	}

	recipientID := userID
	if isAdmin(c) {
		// Admins may mark any recipient's row.
		recipientID = ""
	}

	if err := h.notificationUseCase.MarkRead(id, recipientID); err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Description  Flips every unread notification for the caller and returns the number flipped. Admins may target another recipient via the body, or all recipients with all=true.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body MarkAllReadRequest false "Admin only: recipient override"
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipientID := userID
	if isAdmin(c) {
		var req MarkAllReadRequest
		// Body is optional; absence or an empty recipient_id means the
		// admin's own feed. The global flip requires an explicit all=true.
		if err := c.ShouldBindJSON(&req); err == nil {
			switch {
			case req.All:
				recipientID = ""
			case req.RecipientID != "":
				recipientID = req.RecipientID
			}
		}
	}

	count, err := h.notificationUseCase.MarkAllRead(recipientID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"updated": count},
	})
}

// ClearAll godoc
// @Summary      Delete all notifications
// @Description  Deletes every notification for the caller and returns the number deleted. Idempotent. Admins may target another recipient via recipient_id=, or every recipient with all=true.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        recipient_id query string false "Admin only: recipient to clear"
// @Param        all query bool false "Admin only: clear across all recipients"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /notifications [delete]
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipientID := userID
	if requested := c.Query("recipient_id"); requested != "" && requested != userID {
		if !isAdmin(c) {
			respondError(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		recipientID = requested
	}
	if c.Query("all") == "true" {
		if !isAdmin(c) {
			respondError(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		recipientID = ""
	}

	count, err := h.notificationUseCase.ClearAll(recipientID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": count},
	})
}

// CreateNotification godoc
// @Summary      Create a notification
// @Description  Admin-only manual creation path. When message is omitted it is synthesized from the per-type template and data, same as event-driven production.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateNotificationRequest true "Notification to create"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /notifications [post]
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	notification, err := h.notificationUseCase.Produce(usecase.ProduceInput{
		Type:        req.Type,
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		RelatedType: req.RelatedType,
		RelatedID:   req.RelatedID,
		Priority:    req.Priority,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"notification": notification},
	})
}
