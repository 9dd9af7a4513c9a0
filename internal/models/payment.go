package models

import (
	"time"
)

// Payment status values
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusCancelled = "cancelled"
)

// Payment methods
const (
	PaymentMethodCash          = "cash"
	PaymentMethodCard          = "card"
	PaymentMethodBankTransfer  = "bank_transfer"
	PaymentMethodCheck         = "check"
	PaymentMethodDigitalWallet = "digital_wallet"
)

type Payment struct {
	ID            string     `json:"id"`
	MemberID      string     `json:"member_id"`
	BillID        *string    `json:"bill_id,omitempty"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	CardBrand     *string    `json:"card_brand,omitempty"`
	CardLast4     *string    `json:"card_last4,omitempty"`
	Reference     *string    `json:"reference,omitempty"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	ErrorReason   *string    `json:"error_reason,omitempty"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CardDetails carries raw instrument data for card payments. It is never
// persisted; only the brand and last four digits survive on the Payment.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

type PaymentRequest struct {
	MemberID string       `json:"member_id" validate:"required"`
	BillID   string       `json:"bill_id,omitempty"`
	Amount   float64      `json:"amount" validate:"required,gt=0"`
	Method   string       `json:"method" validate:"required,oneof=cash card bank_transfer check digital_wallet"`
	Card     *CardDetails `json:"card,omitempty"`
}

type PaymentResult struct {
	PaymentID string `json:"payment_id"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}
