package models

import (
	"time"
)

// Bill status values
const (
	BillStatusPending   = "pending"
	BillStatusPaid      = "paid"
	BillStatusOverdue   = "overdue"
	BillStatusCancelled = "cancelled"
)

type Bill struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateBillRequest struct {
	MemberID    string    `json:"member_id" binding:"required"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Description string    `json:"description" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
}

type CreateBillResponse struct {
	BillID string `json:"bill_id"`
}

type GetBillsResponse struct {
	Bills []Bill `json:"bills"`
	Total int    `json:"total"`
}
