package services

import (
	"log"
	"sync"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
)

// Domain event types
const (
	EventBillCreated      = "bill.created"
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

type Event struct {
	Type    string
	Bill    *models.Bill
	Payment *models.Payment
	At      time.Time
}

type EventHandler func(Event)

// Bus decouples the billing state machines from their observers. Dispatch is
// synchronous so observers see events in the order the writes happened;
// handlers must not block on user input.
type Bus struct {
	mu       sync.RWMutex
	handlers []EventHandler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(h EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// AuditSubscriber is the fire-and-forget audit call: it logs every domain
// event and never errors back into the publisher.
func AuditSubscriber(e Event) {
	switch e.Type {
	case EventBillCreated:
		log.Printf("audit: bill %s created for member %s amount %.2f", e.Bill.ID, e.Bill.MemberID, e.Bill.Amount)
	case EventPaymentCompleted:
		log.Printf("audit: payment %s completed for member %s amount %.2f", e.Payment.ID, e.Payment.MemberID, e.Payment.Amount)
	case EventPaymentFailed:
		reason := ""
		if e.Payment.ErrorReason != nil {
			reason = *e.Payment.ErrorReason
		}
		log.Printf("audit: payment %s failed for member %s: %s", e.Payment.ID, e.Payment.MemberID, reason)
	}
}
