package services

import (
	"context"
	"testing"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	token string
	err   error
	calls int
}

func (g *stubGateway) Settle(ctx context.Context, payment *models.Payment) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.token, nil
}

type captureTransport struct {
	delivered []string
}

func (t *captureTransport) DeliverLive(n *models.Notification) error {
	t.delivered = append(t.delivered, n.ID)
	return nil
}

type testEnv struct {
	store         *store.MemoryStore
	bus           *Bus
	gateway       *stubGateway
	transport     *captureTransport
	billing       *BillingService
	receipts      *ReceiptService
	notifications *NotificationService
	outbox        *OutboxService
	payments      *PaymentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     store.NewMemoryStore(),
		bus:       NewBus(),
		gateway:   &stubGateway{token: "TXN-TEST"},
		transport: &captureTransport{},
	}
	env.billing = NewBillingService(env.store, env.bus)
	env.receipts = NewReceiptService(env.store)
	env.notifications = NewNotificationService(env.store, env.transport, nil)
	env.outbox = NewOutboxService(env.store, env.billing, env.receipts, env.notifications)
	env.payments = NewPaymentService(env.store, env.gateway, env.outbox, env.bus, time.Second)
	env.bus.Subscribe(NewNotifierSubscriber(env.notifications))
	return env
}

func (env *testEnv) createBill(t *testing.T, memberID string, amount float64) *models.Bill {
	t.Helper()
	bill, err := env.billing.CreateBill(context.Background(), memberID, amount, "Monthly membership", time.Now().Add(7*24*time.Hour))
	require.NoError(t, err)
	return bill
}

func (env *testEnv) getBill(t *testing.T, id string) *models.Bill {
	t.Helper()
	var bill models.Bill
	require.NoError(t, env.store.Get(context.Background(), store.CollectionBills, id, &bill))
	return &bill
}

func (env *testEnv) getPayment(t *testing.T, id string) *models.Payment {
	t.Helper()
	var payment models.Payment
	require.NoError(t, env.store.Get(context.Background(), store.CollectionPayments, id, &payment))
	return &payment
}
