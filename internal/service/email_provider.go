package service

import (
	"context"
	"fmt"
	"log"
)

// NotificationEmailData is the addressed message handed to a provider.
type NotificationEmailData struct {
	Email string
	Name  string
	Title string
	Body  string
}

// EmailProvider interface for different email services
type EmailProvider interface {
	SendNotificationEmail(ctx context.Context, data NotificationEmailData) error
}

// MultiProviderEmailService handles multiple email providers with fallback
type MultiProviderEmailService struct {
	providers []EmailProvider
}

// NewMultiProviderEmailService creates a new multi-provider email service.
// The first provider is primary; the rest are fallbacks.
func NewMultiProviderEmailService(providers []EmailProvider) *MultiProviderEmailService {
	return &MultiProviderEmailService{providers: providers}
}

// SendNotificationEmail tries each provider in order until one succeeds.
func (m *MultiProviderEmailService) SendNotificationEmail(ctx context.Context, to, name, title, body string) error {
	if len(m.providers) == 0 {
		return fmt.Errorf("no email providers configured")
	}

	data := NotificationEmailData{Email: to, Name: name, Title: title, Body: body}

	var lastErr error
	for i, provider := range m.providers {
		err := provider.SendNotificationEmail(ctx, data)
		if err == nil {
			return nil
		}
		log.Printf("Email provider %d failed: %v", i+1, err)
		lastErr = err
	}

	return fmt.Errorf("all email providers failed. Last error: %w", lastErr)
}
