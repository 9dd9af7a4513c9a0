package service

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

type ResendService struct {
	client *resend.Client
	from   string
}

func NewResendService(apiKey, fromEmail string) *ResendService {
	client := resend.NewClient(apiKey)

	return &ResendService{
		client: client,
		from:   fromEmail,
	}
}

func (rs *ResendService) SendNotificationEmail(ctx context.Context, data NotificationEmailData) error {
	subject := fmt.Sprintf("Gym Management - %s", data.Title)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "Gym Management", rs.from),
		To:      []string{data.Email},
		Subject: subject,
		Html:    notificationEmailHTML(data),
		Text:    notificationEmailText(data),
	}

	res, err := rs.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("ResendService: Error sending notification email to %s: %v", data.Email, err)
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	log.Printf("ResendService: Notification email sent to %s. Message ID: %s", data.Email, res.Id)
	return nil
}
