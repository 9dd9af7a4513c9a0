package models

import (
	"time"
)

// Outbox task steps, executed in this order for a completed payment.
const (
	OutboxStepTransitionBill = "transition_bill"
	OutboxStepCreateReceipt  = "create_receipt"
	OutboxStepNotifyMember   = "notify_member"
)

// Outbox task status values
const (
	OutboxStatusPending = "pending"
	OutboxStatusDone    = "done"
	OutboxStatusFailed  = "failed"
)

// OutboxTask is a durable record of a side effect owed after a payment
// completed. Tasks are written in the same atomic batch as the payment's
// completed status and processed (and re-processed) until done.
type OutboxTask struct {
	ID        string    `json:"id"`
	PaymentID string    `json:"payment_id"`
	Step      string    `json:"step"`
	Seq       int       `json:"seq"`
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
