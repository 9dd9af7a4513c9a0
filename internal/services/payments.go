package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"
	"github.com/Biswajit213/gym-management/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// paymentTransitions defines the payment lifecycle: a pending payment
// resolves exactly once to completed or failed; refunded and cancelled are
// administrative transitions, not reachable from failed.
var paymentTransitions = map[string][]string{
	models.PaymentStatusPending:   {models.PaymentStatusCompleted, models.PaymentStatusFailed, models.PaymentStatusCancelled},
	models.PaymentStatusCompleted: {models.PaymentStatusRefunded},
	models.PaymentStatusFailed:    {},
	models.PaymentStatusRefunded:  {},
	models.PaymentStatusCancelled: {},
}

type PaymentService struct {
	store         store.Store
	gateway       Gateway
	outbox        *OutboxService
	bus           *Bus
	validate      *validator.Validate
	settleTimeout time.Duration
	now           func() time.Time
}

func NewPaymentService(s store.Store, gateway Gateway, outbox *OutboxService, bus *Bus, settleTimeout time.Duration) *PaymentService {
	return &PaymentService{
		store:         s,
		gateway:       gateway,
		outbox:        outbox,
		bus:           bus,
		validate:      validator.New(),
		settleTimeout: settleTimeout,
		now:           time.Now,
	}
}

// paymentMeta is the method-specific decoration the thin wrappers attach
// before delegating to the shared state machine.
type paymentMeta struct {
	cardBrand *string
	cardLast4 *string
	reference *string
}

// ProcessPayment dispatches to the method-specific wrapper. All methods end
// up in the same state machine; the wrappers only shape the request.
func (s *PaymentService) ProcessPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	switch req.Method {
	case models.PaymentMethodCard:
		return s.ProcessCardPayment(ctx, req)
	case models.PaymentMethodBankTransfer:
		return s.ProcessBankTransfer(ctx, req)
	case models.PaymentMethodCash:
		return s.ProcessCashPayment(ctx, req)
	default:
		return s.process(ctx, req, nil)
	}
}

// ProcessCardPayment attaches the classified brand and masked suffix, then
// delegates. Checksum and expiry enforcement happen inside the state
// machine, not here.
func (s *PaymentService) ProcessCardPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	req.Method = models.PaymentMethodCard
	meta := &paymentMeta{}
	if req.Card != nil {
		brand := validation.Classify(req.Card.Number)
		masked := validation.MaskNumber(req.Card.Number)
		meta.cardBrand = &brand
		meta.cardLast4 = &masked
	}
	return s.process(ctx, req, meta)
}

// ProcessCashPayment delegates directly; cash carries no metadata.
func (s *PaymentService) ProcessCashPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	req.Method = models.PaymentMethodCash
	return s.process(ctx, req, nil)
}

// ProcessBankTransfer generates the transfer reference token, then
// delegates.
func (s *PaymentService) ProcessBankTransfer(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	req.Method = models.PaymentMethodBankTransfer
	ref := fmt.Sprintf("TRF-%s", strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10]))
	return s.process(ctx, req, &paymentMeta{reference: &ref})
}

// process is the payment state machine. A pending payment is persisted
// first; it then resolves exactly once to completed or failed. Once
// processing starts there is no cancelled-in-flight state.
func (s *PaymentService) process(ctx context.Context, req *models.PaymentRequest, meta *paymentMeta) (*models.PaymentResult, error) {
	bill, err := s.validateRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payment := &models.Payment{
		ID:        uuid.New().String(),
		MemberID:  req.MemberID,
		Amount:    req.Amount,
		Method:    req.Method,
		Status:    models.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if bill != nil {
		payment.BillID = &bill.ID
	}
	if meta != nil {
		payment.CardBrand = meta.cardBrand
		payment.CardLast4 = meta.cardLast4
		payment.Reference = meta.reference
	}

	if err := s.store.Put(ctx, store.CollectionPayments, payment.ID, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	// Invalid instruments fail before any settlement attempt, carrying
	// every failing reason at once.
	if req.Method == models.PaymentMethodCard {
		var reasons []string
		if req.Card == nil {
			reasons = []string{"card details are required"}
		} else {
			reasons = validation.ValidateInstrument(validation.CardInstrument{
				Number: req.Card.Number,
				Expiry: req.Card.Expiry,
				CVV:    req.Card.CVV,
			}, s.now())
		}
		if len(reasons) > 0 {
			return s.fail(ctx, payment, strings.Join(reasons, "; "))
		}
	}

	settleCtx := ctx
	if s.settleTimeout > 0 {
		var cancel context.CancelFunc
		settleCtx, cancel = context.WithTimeout(ctx, s.settleTimeout)
		defer cancel()
	}

	token, err := s.gateway.Settle(settleCtx, payment)
	if err != nil {
		var decline *DeclineError
		if !errors.As(err, &decline) {
			log.Printf("Settlement error for payment %s: %v", payment.ID, err)
		}
		return s.fail(ctx, payment, err.Error())
	}

	// The completed status and the side-effect tasks go down in one atomic
	// batch; the tasks are then executed in order. No reader can observe a
	// paid bill or a receipt before the payment itself is completed.
	settledAt := s.now()
	payment.Status = models.PaymentStatusCompleted
	payment.TransactionID = &token
	payment.SettledAt = &settledAt
	payment.UpdatedAt = settledAt

	ops := append([]store.WriteOp{
		{Collection: store.CollectionPayments, ID: payment.ID, Doc: payment},
	}, s.outbox.TasksFor(payment)...)
	if err := s.store.BatchWrite(ctx, ops); err != nil {
		return nil, fmt.Errorf("failed to complete payment %s: %w", payment.ID, err)
	}

	s.bus.Publish(Event{Type: EventPaymentCompleted, Payment: payment})
	s.outbox.RunTasks(ctx, payment.ID)

	return &models.PaymentResult{
		PaymentID: payment.ID,
		Success:   true,
		Message:   "payment completed",
	}, nil
}

// validateRequest rejects bad requests before anything is written. A
// bill-referencing payment must match the bill's amount exactly; partial
// payments are not modeled.
func (s *PaymentService) validateRequest(ctx context.Context, req *models.PaymentRequest) (*models.Bill, error) {
	var reasons []string

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				reasons = append(reasons, describeFieldError(fe))
			}
		} else {
			reasons = append(reasons, err.Error())
		}
	}

	var bill *models.Bill
	if req.BillID != "" {
		var b models.Bill
		err := s.store.Get(ctx, store.CollectionBills, req.BillID, &b)
		switch {
		case errors.Is(err, store.ErrNotFound):
			reasons = append(reasons, "referenced bill not found")
		case err != nil:
			return nil, fmt.Errorf("failed to load bill %s: %w", req.BillID, err)
		default:
			if b.Status != models.BillStatusPending && b.Status != models.BillStatusOverdue {
				reasons = append(reasons, fmt.Sprintf("bill is not payable (status %s)", b.Status))
			}
			if math.Abs(b.Amount-req.Amount) > 0.005 {
				reasons = append(reasons, fmt.Sprintf("payment amount %.2f does not match bill amount %.2f", req.Amount, b.Amount))
			}
			bill = &b
		}
	}

	if len(reasons) > 0 {
		return nil, NewValidationErrors(reasons...)
	}
	return bill, nil
}

// fail resolves a payment to failed. The referenced bill is untouched, no
// receipt is created, and no confirmation is sent.
func (s *PaymentService) fail(ctx context.Context, payment *models.Payment, reason string) (*models.PaymentResult, error) {
	payment.Status = models.PaymentStatusFailed
	payment.ErrorReason = &reason
	payment.UpdatedAt = s.now()

	if err := s.store.Update(ctx, store.CollectionPayments, payment.ID, map[string]interface{}{
		"status":       models.PaymentStatusFailed,
		"error_reason": reason,
		"updated_at":   payment.UpdatedAt,
	}); err != nil {
		return nil, fmt.Errorf("failed to record payment failure: %w", err)
	}

	s.bus.Publish(Event{Type: EventPaymentFailed, Payment: payment})
	return &models.PaymentResult{
		PaymentID: payment.ID,
		Success:   false,
		Message:   reason,
	}, nil
}

// GetPayment loads a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.store.Get(ctx, store.CollectionPayments, id, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// RefundPayment is the administrative completed -> refunded transition.
func (s *PaymentService) RefundPayment(ctx context.Context, id string) error {
	return s.adminTransition(ctx, id, models.PaymentStatusRefunded)
}

// CancelPayment is the administrative pending -> cancelled transition. A
// payment already in settlement resolves on its own and cannot be
// cancelled here.
func (s *PaymentService) CancelPayment(ctx context.Context, id string) error {
	return s.adminTransition(ctx, id, models.PaymentStatusCancelled)
}

func (s *PaymentService) adminTransition(ctx context.Context, id, target string) error {
	var payment models.Payment
	if err := s.store.Get(ctx, store.CollectionPayments, id, &payment); err != nil {
		return fmt.Errorf("failed to load payment %s: %w", id, err)
	}

	if !canTransition(paymentTransitions, payment.Status, target) {
		return &IllegalTransitionError{Entity: "payment", From: payment.Status, To: target}
	}

	return s.store.Update(ctx, store.CollectionPayments, id, map[string]interface{}{
		"status":     target,
		"updated_at": s.now(),
	})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", strings.ToLower(fe.Field()), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", strings.ToLower(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
}
