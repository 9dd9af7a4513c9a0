package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/google/uuid"
)

// Transport is the live-delivery collaborator (popup/sound on a connected
// client). Delivery is best-effort and may no-op when nobody is listening.
type Transport interface {
	DeliverLive(notification *models.Notification) error
}

// LogTransport is the default transport when no realtime client is wired.
type LogTransport struct{}

func (LogTransport) DeliverLive(n *models.Notification) error {
	log.Printf("live notification for member %s: %s", n.MemberID, n.Title)
	return nil
}

// Mailer sends notification emails. The email provider chain in
// internal/service satisfies this.
type Mailer interface {
	SendNotificationEmail(ctx context.Context, to, name, title, body string) error
}

type NotificationService struct {
	store     store.Store
	transport Transport
	mailer    Mailer

	// seen suppresses redelivery of an already-presented notification
	// within this process session.
	mu   sync.Mutex
	seen map[string]bool
}

func NewNotificationService(s store.Store, transport Transport, mailer Mailer) *NotificationService {
	if transport == nil {
		transport = LogTransport{}
	}
	return &NotificationService{
		store:     s,
		transport: transport,
		mailer:    mailer,
		seen:      make(map[string]bool),
	}
}

// Send persists one notification and attempts live delivery.
func (s *NotificationService) Send(ctx context.Context, n *models.Notification) (string, error) {
	prepareNotification(n)

	if err := s.store.Put(ctx, store.CollectionNotifications, n.ID, n); err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}

	s.deliver(ctx, n)
	return n.ID, nil
}

// SendBulk persists a set of notifications as one atomic batch. Partial
// delivery of a bulk set is a defect, so every record goes in a single
// BatchWrite.
func (s *NotificationService) SendBulk(ctx context.Context, notifications []*models.Notification) ([]string, error) {
	if len(notifications) == 0 {
		return nil, nil
	}

	ops := make([]store.WriteOp, len(notifications))
	ids := make([]string, len(notifications))
	for i, n := range notifications {
		prepareNotification(n)
		ops[i] = store.WriteOp{Collection: store.CollectionNotifications, ID: n.ID, Doc: n}
		ids[i] = n.ID
	}

	if err := s.store.BatchWrite(ctx, ops); err != nil {
		return nil, fmt.Errorf("failed to write notification batch: %w", err)
	}

	for _, n := range notifications {
		s.deliver(ctx, n)
	}
	return ids, nil
}

// Broadcast fans one message out to every active member in one batch.
func (s *NotificationService) Broadcast(ctx context.Context, category, title, body, priority string, payload map[string]interface{}) ([]string, error) {
	var members []models.Member
	q := store.Query{Filters: []store.Filter{{Field: "status", Value: models.MemberStatusActive}}}
	if err := s.store.Query(ctx, store.CollectionMembers, q, &members); err != nil {
		return nil, fmt.Errorf("failed to load active members: %w", err)
	}

	notifications := make([]*models.Notification, 0, len(members))
	for _, m := range members {
		notifications = append(notifications, &models.Notification{
			MemberID: m.ID,
			Category: category,
			Title:    title,
			Body:     body,
			Priority: priority,
			Payload:  payload,
		})
	}
	return s.SendBulk(ctx, notifications)
}

// MarkRead marks one notification read. Re-marking an already-read
// notification is a no-op, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	var n models.Notification
	if err := s.store.Get(ctx, store.CollectionNotifications, id, &n); err != nil {
		return fmt.Errorf("failed to load notification %s: %w", id, err)
	}
	if n.Status == models.NotificationStatusRead {
		return nil
	}

	return s.store.Update(ctx, store.CollectionNotifications, id, map[string]interface{}{
		"status":  models.NotificationStatusRead,
		"read_at": time.Now(),
	})
}

// MarkAllRead marks every unread notification of a member read in one
// atomic batch.
func (s *NotificationService) MarkAllRead(ctx context.Context, memberID string) error {
	unread, err := s.queryByStatus(ctx, memberID, models.NotificationStatusUnread, 0)
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}

	now := time.Now()
	ops := make([]store.WriteOp, len(unread))
	for i := range unread {
		unread[i].Status = models.NotificationStatusRead
		unread[i].ReadAt = &now
		ops[i] = store.WriteOp{Collection: store.CollectionNotifications, ID: unread[i].ID, Doc: unread[i]}
	}
	return s.store.BatchWrite(ctx, ops)
}

// UnreadCount recomputes the unread count on demand rather than maintaining
// a counter that could drift.
func (s *NotificationService) UnreadCount(ctx context.Context, memberID string) (int, error) {
	unread, err := s.queryByStatus(ctx, memberID, models.NotificationStatusUnread, 0)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

// List returns a member's notifications newest first.
func (s *NotificationService) List(ctx context.Context, memberID string, limit int) ([]models.Notification, error) {
	q := store.Query{
		Filters:    []store.Filter{{Field: "member_id", Value: memberID}},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      limit,
	}
	var notifications []models.Notification
	if err := s.store.Query(ctx, store.CollectionNotifications, q, &notifications); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) queryByStatus(ctx context.Context, memberID, status string, limit int) ([]models.Notification, error) {
	q := store.Query{
		Filters: []store.Filter{
			{Field: "member_id", Value: memberID},
			{Field: "status", Value: status},
		},
		Limit: limit,
	}
	var notifications []models.Notification
	if err := s.store.Query(ctx, store.CollectionNotifications, q, &notifications); err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	return notifications, nil
}

// deliver presents a notification at most once per session. Redelivery of a
// seen identifier is suppressed; transport failures are logged only.
func (s *NotificationService) deliver(ctx context.Context, n *models.Notification) {
	s.mu.Lock()
	if s.seen[n.ID] {
		s.mu.Unlock()
		return
	}
	s.seen[n.ID] = true
	s.mu.Unlock()

	if err := s.transport.DeliverLive(n); err != nil {
		log.Printf("Failed live delivery of notification %s: %v", n.ID, err)
	}

	if n.Priority == models.NotificationPriorityUrgent || n.Category == models.NotificationCategoryPayment {
		s.emailMember(ctx, n)
	}
}

func (s *NotificationService) emailMember(ctx context.Context, n *models.Notification) {
	if s.mailer == nil {
		return
	}

	var member models.Member
	if err := s.store.Get(ctx, store.CollectionMembers, n.MemberID, &member); err != nil {
		log.Printf("Failed to load member %s for notification email: %v", n.MemberID, err)
		return
	}
	if member.Email == "" {
		return
	}

	if err := s.mailer.SendNotificationEmail(ctx, member.Email, member.FullName, n.Title, n.Body); err != nil {
		log.Printf("Failed to email notification %s to member %s: %v", n.ID, n.MemberID, err)
	}
}

func prepareNotification(n *models.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Priority == "" {
		n.Priority = models.NotificationPriorityMedium
	}
	n.Status = models.NotificationStatusUnread
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
}

// NewNotifierSubscriber converts domain events into member notifications.
// Failures are logged, never propagated back into the state machines; the
// payment-confirmed notification is owed by the outbox instead, so it is
// not handled here.
func NewNotifierSubscriber(n *NotificationService) EventHandler {
	return func(e Event) {
		ctx := context.Background()
		var err error
		switch e.Type {
		case EventBillCreated:
			_, err = n.Send(ctx, NewBillIssuedNotification(e.Bill))
		case EventPaymentFailed:
			_, err = n.Send(ctx, NewPaymentFailedNotification(e.Payment))
		}
		if err != nil {
			log.Printf("Failed to send notification for event %s: %v", e.Type, err)
		}
	}
}

// Notification templates for billing events.

func NewBillIssuedNotification(bill *models.Bill) *models.Notification {
	return &models.Notification{
		MemberID: bill.MemberID,
		Category: models.NotificationCategoryBilling,
		Title:    "New bill issued",
		Body:     fmt.Sprintf("A bill of $%.2f is due on %s: %s", bill.Amount, bill.DueDate.Format("January 2, 2006"), bill.Description),
		Priority: models.NotificationPriorityMedium,
		Payload:  map[string]interface{}{"bill_id": bill.ID, "amount": bill.Amount},
	}
}

func NewPaymentConfirmedNotification(payment *models.Payment) *models.Notification {
	return &models.Notification{
		MemberID: payment.MemberID,
		Category: models.NotificationCategoryPayment,
		Title:    "Payment confirmed",
		Body:     fmt.Sprintf("Your payment of $%.2f was received. Thank you!", payment.Amount),
		Priority: models.NotificationPriorityMedium,
		Payload:  map[string]interface{}{"payment_id": payment.ID, "amount": payment.Amount},
	}
}

func NewPaymentFailedNotification(payment *models.Payment) *models.Notification {
	reason := "the payment could not be processed"
	if payment.ErrorReason != nil {
		reason = *payment.ErrorReason
	}
	return &models.Notification{
		MemberID: payment.MemberID,
		Category: models.NotificationCategoryPayment,
		Title:    "Payment failed",
		Body:     fmt.Sprintf("Your payment of $%.2f failed: %s.", payment.Amount, reason),
		Priority: models.NotificationPriorityHigh,
		Payload:  map[string]interface{}{"payment_id": payment.ID},
	}
}
