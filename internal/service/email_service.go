package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailersend/mailersend-go"
)

type EmailService struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewEmailService(apiKey, fromEmail, fromName string) *EmailService {
	client := mailersend.NewMailersend(apiKey)

	from := mailersend.From{
		Name:  fromName,
		Email: fromEmail,
	}

	return &EmailService{
		client: client,
		from:   from,
	}
}

func (es *EmailService) SendNotificationEmail(ctx context.Context, data NotificationEmailData) error {
	subject := fmt.Sprintf("Gym Management - %s", data.Title)
	html := notificationEmailHTML(data)
	text := notificationEmailText(data)

	recipients := []mailersend.Recipient{
		{
			Name:  data.Name,
			Email: data.Email,
		},
	}

	message := es.client.Email.NewMessage()
	message.SetFrom(es.from)
	message.SetRecipients(recipients)
	message.SetSubject(subject)
	message.SetHTML(html)
	message.SetText(text)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := es.client.Email.Send(ctx, message)
	if err != nil {
		log.Printf("Error sending notification email to %s: %v", data.Email, err)
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	log.Printf("Notification email sent to %s. Message ID: %s", data.Email, res.Header.Get("X-Message-Id"))
	return nil
}

func notificationEmailHTML(data NotificationEmailData) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="UTF-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<title>%s</title>
		<style>
			body {
				font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
				line-height: 1.6;
				color: #333;
				max-width: 600px;
				margin: 0 auto;
				padding: 20px;
				background-color: #f8f9fa;
			}
			.container {
				background-color: white;
				border-radius: 10px;
				padding: 30px;
				box-shadow: 0 2px 10px rgba(0,0,0,0.1);
			}
			.header {
				text-align: center;
				margin-bottom: 30px;
			}
			.logo {
				font-size: 28px;
				font-weight: bold;
				color: #3b82f6;
				margin-bottom: 10px;
			}
			.title {
				font-size: 24px;
				color: #1f2937;
				margin-bottom: 20px;
			}
			.message {
				background-color: #f8fafc;
				padding: 15px;
				margin: 10px 0;
				border-radius: 8px;
				border-left: 4px solid #3b82f6;
			}
			.footer {
				text-align: center;
				margin-top: 30px;
				padding-top: 20px;
				border-top: 1px solid #e5e7eb;
				color: #6b7280;
				font-size: 14px;
			}
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<div class="logo">GYM MANAGEMENT</div>
				<h1 class="title">%s</h1>
			</div>

			<p>Hi <strong>%s</strong>,</p>

			<div class="message">%s</div>

			<div class="footer">
				<p>This is an automated message from your gym's billing desk.</p>
			</div>
		</div>
	</body>
	</html>
	`, data.Title, data.Title, data.Name, data.Body)
}

func notificationEmailText(data NotificationEmailData) string {
	return fmt.Sprintf(`
GYM MANAGEMENT - %s

Hi %s,

%s

--
Gym Management Team
	`, data.Title, data.Name, data.Body)
}
