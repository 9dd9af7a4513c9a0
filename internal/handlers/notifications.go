package handlers

import (
	"net/http"
	"strconv"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GetMemberNotifications returns the member's notifications together with
// the recomputed unread count.
func (h *NotificationHandler) GetMemberNotifications(c *gin.Context) {
	memberID, ok := memberFromContext(c)
	if !ok {
		return
	}

	limit := 20
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	notifications, err := h.notifications.List(c.Request.Context(), memberID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	unread, err := h.notifications.UnreadCount(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notifications retrieved successfully",
		"data": models.GetNotificationsResponse{
			Notifications: notifications,
			UnreadCount:   unread,
			Total:         len(notifications),
		},
	})
}

// GetUnreadCount returns the point-in-time unread count.
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	memberID, ok := memberFromContext(c)
	if !ok {
		return
	}

	unread, err := h.notifications.UnreadCount(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"unread_count": unread}})
}

// MarkAsRead marks one notification as read. Already-read is a no-op.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	var req models.MarkAsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), req.NotificationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllAsRead marks all of the member's notifications as read.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	memberID, ok := memberFromContext(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), memberID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// SendNotification sends a notification to one member or broadcasts to all
// active members (staff only).
func (h *NotificationHandler) SendNotification(c *gin.Context) {
	var req models.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if req.Broadcast {
		ids, err := h.notifications.Broadcast(ctx, req.Category, req.Title, req.Body, req.Priority, req.Payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Broadcast sent successfully",
			"data":    gin.H{"notification_ids": ids, "count": len(ids)},
		})
		return
	}

	if req.MemberID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id is required unless broadcast is set"})
		return
	}

	id, err := h.notifications.Send(ctx, &models.Notification{
		MemberID: req.MemberID,
		Category: req.Category,
		Title:    req.Title,
		Body:     req.Body,
		Priority: req.Priority,
		Payload:  req.Payload,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Notification created successfully",
		"data":    gin.H{"id": id},
	})
}
