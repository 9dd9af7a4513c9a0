package models

import (
	"time"
)

// Receipt is immutable proof of a completed payment. Its document ID is the
// ID of the payment it settles, so a payment can never grow a second one.
type Receipt struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	PaymentID string    `json:"payment_id"`
	MemberID  string    `json:"member_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	CardBrand *string   `json:"card_brand,omitempty"`
	CardLast4 *string   `json:"card_last4,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
}

type GetReceiptsResponse struct {
	Receipts []Receipt `json:"receipts"`
	Total    int       `json:"total"`
}
