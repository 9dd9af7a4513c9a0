package services

import (
	"context"
	"testing"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessCashPayment_Completes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.payments.ProcessCashPayment(ctx, &models.PaymentRequest{
		MemberID: "member-1",
		Amount:   49.99,
		Method:   models.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "payment completed", result.Message)
	assert.Equal(t, 1, env.gateway.calls)

	payment := env.getPayment(t, result.PaymentID)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.TransactionID)
	assert.Equal(t, "TXN-TEST", *payment.TransactionID)
	require.NotNil(t, payment.SettledAt)

	// The outbox created a receipt keyed by the payment ID and sent the
	// confirmation notification.
	receipt, err := env.receipts.GetReceipt(ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, result.PaymentID, receipt.PaymentID)
	assert.Equal(t, 49.99, receipt.Amount)

	notifications, err := env.notifications.List(ctx, "member-1", 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Payment confirmed", notifications[0].Title)
}

func TestProcessPayment_BillReference_MarksBillPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bill := env.createBill(t, "member-2", 100.00)

	result, err := env.payments.ProcessPayment(ctx, &models.PaymentRequest{
		MemberID: "member-2",
		BillID:   bill.ID,
		Amount:   100.00,
		Method:   models.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	updated := env.getBill(t, bill.ID)
	assert.Equal(t, models.BillStatusPaid, updated.Status)
	assert.NotNil(t, updated.PaidAt)

	// No open tasks remain once all three side effects landed.
	tasks, err := env.outbox.openTasks(ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestProcessPayment_AmountMismatch_RejectedBeforeWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bill := env.createBill(t, "member-3", 100.00)

	_, err := env.payments.ProcessPayment(ctx, &models.PaymentRequest{
		MemberID: "member-3",
		BillID:   bill.ID,
		Amount:   60.00,
		Method:   models.PaymentMethodCash,
	})
	var verr *ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reasons[0], "does not match bill amount")

	// Nothing was persisted and the gateway never ran.
	var payments []models.Payment
	require.NoError(t, env.store.Query(ctx, store.CollectionPayments, store.Query{}, &payments))
	assert.Empty(t, payments)
	assert.Equal(t, 0, env.gateway.calls)
	assert.Equal(t, models.BillStatusPending, env.getBill(t, bill.ID).Status)
}

func TestProcessPayment_UnknownBill_Rejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payments.ProcessPayment(context.Background(), &models.PaymentRequest{
		MemberID: "member-4",
		BillID:   "BILL-NOPE",
		Amount:   25.00,
		Method:   models.PaymentMethodCash,
	})
	var verr *ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "referenced bill not found")
}

func TestProcessPayment_MissingFields_AllReasonsReported(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payments.ProcessPayment(context.Background(), &models.PaymentRequest{
		Amount: -5,
		Method: "barter",
	})
	var verr *ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Reasons), 3)
}

func TestProcessPayment_Decline_FailsWithoutTouchingBill(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.err = &DeclineError{Reason: "insufficient funds"}
	ctx := context.Background()

	bill := env.createBill(t, "member-5", 75.00)

	result, err := env.payments.ProcessPayment(ctx, &models.PaymentRequest{
		MemberID: "member-5",
		BillID:   bill.ID,
		Amount:   75.00,
		Method:   models.PaymentMethodCash,
	})
	// A decline is a resolved payment, not a processing error.
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "insufficient funds")

	payment := env.getPayment(t, result.PaymentID)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	require.NotNil(t, payment.ErrorReason)

	// The bill stays payable, no receipt exists, and the member got the
	// failure notice rather than a confirmation.
	assert.Equal(t, models.BillStatusPending, env.getBill(t, bill.ID).Status)
	_, err = env.receipts.GetReceipt(ctx, result.PaymentID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	notifications, err := env.notifications.List(ctx, "member-5", 0)
	require.NoError(t, err)
	titles := make([]string, len(notifications))
	for i, n := range notifications {
		titles[i] = n.Title
	}
	assert.Contains(t, titles, "Payment failed")
	assert.NotContains(t, titles, "Payment confirmed")
}

func TestProcessCardPayment_ValidCard_CarriesBrandAndMask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.payments.ProcessCardPayment(ctx, &models.PaymentRequest{
		MemberID: "member-6",
		Amount:   30.00,
		Method:   models.PaymentMethodCard,
		Card: &models.CardDetails{
			Number: "4532015112830366",
			Expiry: "12/30",
			CVV:    "123",
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	payment := env.getPayment(t, result.PaymentID)
	require.NotNil(t, payment.CardBrand)
	assert.Equal(t, "visa", *payment.CardBrand)
	require.NotNil(t, payment.CardLast4)
	assert.Equal(t, "****0366", *payment.CardLast4)

	// Raw instrument data must not survive on the receipt either.
	receipt, err := env.receipts.GetReceipt(ctx, result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, "visa", *receipt.CardBrand)
	assert.Equal(t, "****0366", *receipt.CardLast4)
}

func TestProcessCardPayment_InvalidCard_FailsBeforeSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.payments.ProcessCardPayment(ctx, &models.PaymentRequest{
		MemberID: "member-7",
		Amount:   30.00,
		Method:   models.PaymentMethodCard,
		Card: &models.CardDetails{
			Number: "4532015112830367",
			Expiry: "12/30",
			CVV:    "123",
		},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "checksum")
	assert.Equal(t, 0, env.gateway.calls)
	assert.Equal(t, models.PaymentStatusFailed, env.getPayment(t, result.PaymentID).Status)
}

func TestProcessCardPayment_MissingCardDetails(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.payments.ProcessCardPayment(context.Background(), &models.PaymentRequest{
		MemberID: "member-8",
		Amount:   30.00,
		Method:   models.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "card details are required")
	assert.Equal(t, 0, env.gateway.calls)
}

func TestProcessBankTransfer_GeneratesReference(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.payments.ProcessBankTransfer(context.Background(), &models.PaymentRequest{
		MemberID: "member-9",
		Amount:   120.00,
		Method:   models.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	payment := env.getPayment(t, result.PaymentID)
	require.NotNil(t, payment.Reference)
	assert.Regexp(t, `^TRF-[0-9A-F]{10}$`, *payment.Reference)
}

func TestRefundPayment_OnlyFromCompleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.payments.ProcessCashPayment(ctx, &models.PaymentRequest{
		MemberID: "member-10",
		Amount:   20.00,
		Method:   models.PaymentMethodCash,
	})
	require.NoError(t, err)

	require.NoError(t, env.payments.RefundPayment(ctx, result.PaymentID))
	assert.Equal(t, models.PaymentStatusRefunded, env.getPayment(t, result.PaymentID).Status)

	// refunded is terminal.
	err = env.payments.RefundPayment(ctx, result.PaymentID)
	var iterr *IllegalTransitionError
	require.ErrorAs(t, err, &iterr)
	assert.Equal(t, "payment", iterr.Entity)
	assert.Equal(t, models.PaymentStatusRefunded, iterr.From)
}

func TestCancelPayment_RejectedAfterResolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.payments.ProcessCashPayment(ctx, &models.PaymentRequest{
		MemberID: "member-11",
		Amount:   20.00,
		Method:   models.PaymentMethodCash,
	})
	require.NoError(t, err)

	err = env.payments.CancelPayment(ctx, result.PaymentID)
	var iterr *IllegalTransitionError
	require.ErrorAs(t, err, &iterr)
}
