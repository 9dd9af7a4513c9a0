package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Biswajit213/gym-management/internal/config"
	"github.com/Biswajit213/gym-management/internal/database"
	"github.com/Biswajit213/gym-management/internal/handlers"
	"github.com/Biswajit213/gym-management/internal/middleware"
	"github.com/Biswajit213/gym-management/internal/routes"
	"github.com/Biswajit213/gym-management/internal/service"
	"github.com/Biswajit213/gym-management/internal/services"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load YAML configuration
	if err := config.LoadConfig(); err != nil {
		log.Printf("Warning: Failed to load YAML config: %v", err)
		log.Println("Using default configuration...")
	}
	appConfig := config.GetConfig()

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	docStore := store.NewPostgresStore(db)

	// Domain event bus and subscribers
	bus := services.NewBus()
	bus.Subscribe(services.AuditSubscriber)

	// Email providers (simulated boundary: skipped when no keys configured)
	var mailer services.Mailer
	if appConfig.Features.EnableEmail {
		var providers []service.EmailProvider
		if appConfig.Email.ResendAPIKey != "" {
			providers = append(providers, service.NewResendService(appConfig.Email.ResendAPIKey, appConfig.Email.FromEmail))
		}
		if appConfig.Email.MailerSendAPIKey != "" {
			providers = append(providers, service.NewEmailService(appConfig.Email.MailerSendAPIKey, appConfig.Email.FromEmail, appConfig.Email.FromName))
		}
		if len(providers) > 0 {
			mailer = service.NewMultiProviderEmailService(providers)
		}
	}

	// Services
	notificationService := services.NewNotificationService(docStore, services.LogTransport{}, mailer)
	billingService := services.NewBillingService(docStore, bus)
	receiptService := services.NewReceiptService(docStore)
	outboxService := services.NewOutboxService(docStore, billingService, receiptService, notificationService)
	reportService := services.NewReportService(docStore)

	settleTimeout := parseDuration(appConfig.Payments.SettlementTimeout, 5*time.Second)
	settleDelay := parseDuration(appConfig.Payments.SettlementDelay, 150*time.Millisecond)
	gateway := services.NewSimulatedGateway(appConfig.Payments.SuccessRate, settleDelay, time.Now().UnixNano())
	paymentService := services.NewPaymentService(docStore, gateway, outboxService, bus, settleTimeout)

	bus.Subscribe(services.NewNotifierSubscriber(notificationService))

	// Background work: outbox reconciliation and the overdue-bill sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconcileInterval := parseDuration(appConfig.Payments.ReconcileInterval, time.Minute)
	outboxService.Start(ctx, reconcileInterval)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := billingService.MarkOverdueBills(ctx, time.Now()); err != nil {
					log.Printf("Overdue sweep failed: %v", err)
				}
			}
		}
	}()

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CustomLoggingMiddleware())
	r.Use(middleware.CORS())

	// Initialize handlers
	billingHandler := handlers.NewBillingHandler(billingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Setup routes
	routes.SetupRoutes(r, billingHandler, paymentHandler, receiptHandler, notificationHandler, reportHandler)

	// Start server
	port := fmt.Sprintf("%d", appConfig.Server.Port)
	host := appConfig.Server.Host

	log.Printf("Server starting on %s:%s", host, port)
	if err := r.Run(host + ":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
