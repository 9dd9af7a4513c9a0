package models

import (
	"time"
)

// Notification categories
const (
	NotificationCategoryBilling = "billing"
	NotificationCategoryPayment = "payment"
	NotificationCategorySystem  = "system"
	NotificationCategoryAdmin   = "admin"
)

// Notification priorities
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityMedium = "medium"
	NotificationPriorityHigh   = "high"
	NotificationPriorityUrgent = "urgent"
)

// Notification read state
const (
	NotificationStatusUnread = "unread"
	NotificationStatusRead   = "read"
)

type Notification struct {
	ID        string                 `json:"id"`
	MemberID  string                 `json:"member_id"`
	Category  string                 `json:"category"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Priority  string                 `json:"priority"`
	Status    string                 `json:"status"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
}

type SendNotificationRequest struct {
	MemberID  string                 `json:"member_id"`
	Broadcast bool                   `json:"broadcast"`
	Category  string                 `json:"category" binding:"required"`
	Title     string                 `json:"title" binding:"required"`
	Body      string                 `json:"body" binding:"required"`
	Priority  string                 `json:"priority"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

type MarkAsReadRequest struct {
	NotificationID string `json:"notification_id" binding:"required"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	Total         int            `json:"total"`
}
