package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/google/uuid"
)

type ReceiptService struct {
	store store.Store
}

func NewReceiptService(s store.Store) *ReceiptService {
	return &ReceiptService{store: s}
}

// CreateReceipt materializes the receipt for a completed payment. The
// receipt document is keyed by the payment ID, so a second call for the
// same payment returns the existing receipt instead of creating a
// duplicate. Calling this with a non-completed payment is a caller bug.
func (s *ReceiptService) CreateReceipt(ctx context.Context, payment *models.Payment) (*models.Receipt, error) {
	if payment.Status != models.PaymentStatusCompleted {
		return nil, fmt.Errorf("receipt requires a completed payment, got status %s for payment %s", payment.Status, payment.ID)
	}

	var existing models.Receipt
	err := s.store.Get(ctx, store.CollectionReceipts, payment.ID, &existing)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing receipt: %w", err)
	}

	now := time.Now()
	paidAt := now
	if payment.SettledAt != nil {
		paidAt = *payment.SettledAt
	}

	receipt := &models.Receipt{
		ID:        payment.ID,
		Number:    newReceiptNumber(now),
		PaymentID: payment.ID,
		MemberID:  payment.MemberID,
		Amount:    payment.Amount,
		Method:    payment.Method,
		CardBrand: payment.CardBrand,
		CardLast4: payment.CardLast4,
		PaidAt:    paidAt,
		CreatedAt: now,
	}

	if err := s.store.Put(ctx, store.CollectionReceipts, receipt.ID, receipt); err != nil {
		return nil, fmt.Errorf("failed to create receipt for payment %s: %w", payment.ID, err)
	}
	return receipt, nil
}

// GetReceipt loads a receipt by its document ID.
func (s *ReceiptService) GetReceipt(ctx context.Context, id string) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := s.store.Get(ctx, store.CollectionReceipts, id, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListMemberReceipts returns a member's receipts newest first.
func (s *ReceiptService) ListMemberReceipts(ctx context.Context, memberID string, limit int) ([]models.Receipt, error) {
	q := store.Query{
		Filters:    []store.Filter{{Field: "member_id", Value: memberID}},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      limit,
	}

	var receipts []models.Receipt
	if err := s.store.Query(ctx, store.CollectionReceipts, q, &receipts); err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}

// RenderDocument produces the printable HTML representation of a receipt.
// Pure formatting; storing the bytes anywhere is the caller's concern.
func (s *ReceiptService) RenderDocument(receipt *models.Receipt) []byte {
	method := strings.ReplaceAll(receipt.Method, "_", " ")
	instrument := method
	if receipt.CardBrand != nil && receipt.CardLast4 != nil {
		instrument = fmt.Sprintf("%s %s (%s)", *receipt.CardBrand, *receipt.CardLast4, method)
	}

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Receipt %s</title>
	<style>
		body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333; }
		.header { text-align: center; margin-bottom: 30px; }
		.logo { font-size: 28px; font-weight: bold; color: #3b82f6; }
		.amount { font-size: 32px; font-weight: bold; color: #16a34a; text-align: center; margin: 20px 0; }
		table { width: 100%%; border-collapse: collapse; }
		td { padding: 8px 0; border-bottom: 1px solid #e5e7eb; }
		td.label { color: #6b7280; }
		.footer { text-align: center; margin-top: 30px; color: #6b7280; font-size: 14px; }
	</style>
</head>
<body>
	<div class="header">
		<div class="logo">GYM MANAGEMENT</div>
		<h1>Payment Receipt</h1>
	</div>
	<div class="amount">$%.2f</div>
	<table>
		<tr><td class="label">Receipt Number</td><td>%s</td></tr>
		<tr><td class="label">Payment ID</td><td>%s</td></tr>
		<tr><td class="label">Member ID</td><td>%s</td></tr>
		<tr><td class="label">Payment Method</td><td>%s</td></tr>
		<tr><td class="label">Payment Date</td><td>%s</td></tr>
	</table>
	<div class="footer">Thank you for your payment. Keep this receipt for your records.</div>
</body>
</html>`,
		receipt.Number,
		receipt.Amount,
		receipt.Number,
		receipt.PaymentID,
		receipt.MemberID,
		instrument,
		receipt.PaidAt.Format("January 2, 2006 15:04"),
	)

	return []byte(html)
}

func newReceiptNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("RCP-%s-%s", now.Format("20060102"), suffix)
}
