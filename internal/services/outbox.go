package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/google/uuid"
)

// OutboxService executes the side effects owed after a payment completes:
// bill transition, receipt creation, member notification. Tasks are written
// atomically with the payment's completed status, run in order, and swept
// again by Reconcile until they land.
type OutboxService struct {
	store         store.Store
	billing       *BillingService
	receipts      *ReceiptService
	notifications *NotificationService
	maxAttempts   int
}

func NewOutboxService(s store.Store, billing *BillingService, receipts *ReceiptService, notifications *NotificationService) *OutboxService {
	return &OutboxService{
		store:         s,
		billing:       billing,
		receipts:      receipts,
		notifications: notifications,
		maxAttempts:   5,
	}
}

// TasksFor builds the write ops for a completed payment's side-effect
// tasks. The bill transition is only owed when the payment references one.
func (s *OutboxService) TasksFor(payment *models.Payment) []store.WriteOp {
	now := time.Now()
	steps := []string{}
	if payment.BillID != nil {
		steps = append(steps, models.OutboxStepTransitionBill)
	}
	steps = append(steps, models.OutboxStepCreateReceipt, models.OutboxStepNotifyMember)

	ops := make([]store.WriteOp, 0, len(steps))
	for i, step := range steps {
		task := &models.OutboxTask{
			ID:        uuid.New().String(),
			PaymentID: payment.ID,
			Step:      step,
			Seq:       i,
			Status:    models.OutboxStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		ops = append(ops, store.WriteOp{Collection: store.CollectionOutbox, ID: task.ID, Doc: task})
	}
	return ops
}

// RunTasks executes the open tasks of one payment in sequence order. Task
// failures are logged and left pending for the sweep; they are never
// surfaced as payment failures.
func (s *OutboxService) RunTasks(ctx context.Context, paymentID string) {
	tasks, err := s.openTasks(ctx, paymentID)
	if err != nil {
		log.Printf("Failed to load outbox tasks for payment %s: %v", paymentID, err)
		return
	}

	for i := range tasks {
		if err := s.runTask(ctx, &tasks[i]); err != nil {
			sideErr := &SideEffectError{PaymentID: paymentID, Step: tasks[i].Step, Err: err}
			log.Printf("%v (attempt %d, queued for reconciliation)", sideErr, tasks[i].Attempts)
		}
	}
}

// Reconcile re-attempts every open task across all payments. This is the
// out-of-band sweep that repairs a crash between the payment write and its
// side effects, e.g. a completed payment whose bill is still pending.
func (s *OutboxService) Reconcile(ctx context.Context) error {
	var tasks []models.OutboxTask
	q := store.Query{Filters: []store.Filter{{Field: "status", Value: models.OutboxStatusPending}}}
	if err := s.store.Query(ctx, store.CollectionOutbox, q, &tasks); err != nil {
		return fmt.Errorf("failed to scan outbox: %w", err)
	}

	byPayment := make(map[string][]models.OutboxTask)
	for _, t := range tasks {
		byPayment[t.PaymentID] = append(byPayment[t.PaymentID], t)
	}

	for paymentID := range byPayment {
		s.RunTasks(ctx, paymentID)
	}
	return nil
}

// Start runs the reconciliation sweep on a ticker until ctx is cancelled.
func (s *OutboxService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Reconcile(ctx); err != nil {
					log.Printf("Outbox reconciliation failed: %v", err)
				}
			}
		}
	}()
}

func (s *OutboxService) openTasks(ctx context.Context, paymentID string) ([]models.OutboxTask, error) {
	var tasks []models.OutboxTask
	q := store.Query{
		Filters: []store.Filter{
			{Field: "payment_id", Value: paymentID},
			{Field: "status", Value: models.OutboxStatusPending},
		},
	}
	if err := s.store.Query(ctx, store.CollectionOutbox, q, &tasks); err != nil {
		return nil, err
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Seq < tasks[j].Seq })
	return tasks, nil
}

func (s *OutboxService) runTask(ctx context.Context, task *models.OutboxTask) error {
	var payment models.Payment
	if err := s.store.Get(ctx, store.CollectionPayments, task.PaymentID, &payment); err != nil {
		return s.recordFailure(ctx, task, fmt.Errorf("failed to load payment: %w", err))
	}

	var err error
	switch task.Step {
	case models.OutboxStepTransitionBill:
		err = s.transitionBill(ctx, &payment)
	case models.OutboxStepCreateReceipt:
		_, err = s.receipts.CreateReceipt(ctx, &payment)
	case models.OutboxStepNotifyMember:
		_, err = s.notifications.Send(ctx, NewPaymentConfirmedNotification(&payment))
	default:
		err = fmt.Errorf("unknown outbox step %s", task.Step)
	}

	if err != nil {
		return s.recordFailure(ctx, task, err)
	}

	return s.store.Update(ctx, store.CollectionOutbox, task.ID, map[string]interface{}{
		"status":     models.OutboxStatusDone,
		"attempts":   task.Attempts + 1,
		"last_error": "",
		"updated_at": time.Now(),
	})
}

func (s *OutboxService) transitionBill(ctx context.Context, payment *models.Payment) error {
	if payment.BillID == nil {
		return nil
	}

	err := s.billing.TransitionBill(ctx, *payment.BillID, models.BillStatusPaid)
	if err == nil {
		return nil
	}
	// A repeated sweep may find the bill already paid; that means the step
	// already landed.
	bill, getErr := s.billing.GetBill(ctx, *payment.BillID)
	if getErr == nil && bill.Status == models.BillStatusPaid {
		return nil
	}
	return err
}

func (s *OutboxService) recordFailure(ctx context.Context, task *models.OutboxTask, cause error) error {
	attempts := task.Attempts + 1
	status := models.OutboxStatusPending
	if attempts >= s.maxAttempts {
		status = models.OutboxStatusFailed
	}

	patch := map[string]interface{}{
		"status":     status,
		"attempts":   attempts,
		"last_error": cause.Error(),
		"updated_at": time.Now(),
	}
	if err := s.store.Update(ctx, store.CollectionOutbox, task.ID, patch); err != nil {
		log.Printf("Failed to record outbox failure for task %s: %v", task.ID, err)
	}
	return cause
}
