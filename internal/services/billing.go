package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/google/uuid"
)

// billTransitions defines the valid bill status transitions. The key is the
// current status, the value the admissible targets. paid and cancelled are
// terminal.
var billTransitions = map[string][]string{
	models.BillStatusPending:   {models.BillStatusPaid, models.BillStatusCancelled, models.BillStatusOverdue},
	models.BillStatusOverdue:   {models.BillStatusPaid, models.BillStatusCancelled},
	models.BillStatusPaid:      {},
	models.BillStatusCancelled: {},
}

type BillingService struct {
	store store.Store
	bus   *Bus
}

func NewBillingService(s store.Store, bus *Bus) *BillingService {
	return &BillingService{store: s, bus: bus}
}

// CreateBill persists a new pending bill and publishes BillCreated. The
// member notification hangs off the event; its failure never rolls back the
// bill.
func (s *BillingService) CreateBill(ctx context.Context, memberID string, amount float64, description string, dueDate time.Time) (*models.Bill, error) {
	var reasons []string
	if memberID == "" {
		reasons = append(reasons, "member_id is required")
	}
	if amount <= 0 {
		reasons = append(reasons, "amount must be greater than zero")
	}
	if strings.TrimSpace(description) == "" {
		reasons = append(reasons, "description is required")
	}
	if len(reasons) > 0 {
		return nil, NewValidationErrors(reasons...)
	}

	now := time.Now()
	bill := &models.Bill{
		ID:          newBillNumber(now),
		MemberID:    memberID,
		Amount:      amount,
		Description: description,
		DueDate:     dueDate,
		Status:      models.BillStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Put(ctx, store.CollectionBills, bill.ID, bill); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	s.bus.Publish(Event{Type: EventBillCreated, Bill: bill})
	return bill, nil
}

// TransitionBill moves a bill to target if the transition map admits the
// edge. Illegal transitions fail loudly; the amount is never touched.
func (s *BillingService) TransitionBill(ctx context.Context, billID, target string) error {
	var bill models.Bill
	if err := s.store.Get(ctx, store.CollectionBills, billID, &bill); err != nil {
		return fmt.Errorf("failed to load bill %s: %w", billID, err)
	}

	if !canTransition(billTransitions, bill.Status, target) {
		return &IllegalTransitionError{Entity: "bill", From: bill.Status, To: target}
	}

	now := time.Now()
	patch := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}
	if target == models.BillStatusPaid {
		patch["paid_at"] = now
	}

	if err := s.store.Update(ctx, store.CollectionBills, billID, patch); err != nil {
		return fmt.Errorf("failed to update bill %s: %w", billID, err)
	}
	return nil
}

// CancelBill cancels a bill that is still payable.
func (s *BillingService) CancelBill(ctx context.Context, billID string) error {
	return s.TransitionBill(ctx, billID, models.BillStatusCancelled)
}

// GetBill loads a single bill.
func (s *BillingService) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.store.Get(ctx, store.CollectionBills, billID, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// ListBills returns a member's bills newest first, optionally filtered by
// status. The result is a snapshot at call time.
func (s *BillingService) ListBills(ctx context.Context, memberID, statusFilter string) ([]models.Bill, error) {
	q := store.Query{
		Filters:    []store.Filter{{Field: "member_id", Value: memberID}},
		OrderBy:    "created_at",
		Descending: true,
	}
	if statusFilter != "" {
		q.Filters = append(q.Filters, store.Filter{Field: "status", Value: statusFilter})
	}

	var bills []models.Bill
	if err := s.store.Query(ctx, store.CollectionBills, q, &bills); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// MarkOverdueBills moves pending bills past their due date to overdue.
// Called from the periodic sweep in main.
func (s *BillingService) MarkOverdueBills(ctx context.Context, now time.Time) error {
	var bills []models.Bill
	q := store.Query{Filters: []store.Filter{{Field: "status", Value: models.BillStatusPending}}}
	if err := s.store.Query(ctx, store.CollectionBills, q, &bills); err != nil {
		return fmt.Errorf("failed to scan pending bills: %w", err)
	}

	for _, bill := range bills {
		if bill.DueDate.Before(now) {
			if err := s.TransitionBill(ctx, bill.ID, models.BillStatusOverdue); err != nil {
				log.Printf("Failed to mark bill %s overdue: %v", bill.ID, err)
			}
		}
	}
	return nil
}

func canTransition(transitions map[string][]string, from, to string) bool {
	allowed, exists := transitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// newBillNumber generates the externally visible receipt-style bill number.
func newBillNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("BILL-%s-%s", now.Format("20060102"), suffix)
}
