package routes

import (
	"github.com/Biswajit213/gym-management/internal/handlers"
	"github.com/Biswajit213/gym-management/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, billingHandler *handlers.BillingHandler, paymentHandler *handlers.PaymentHandler, receiptHandler *handlers.ReceiptHandler, notificationHandler *handlers.NotificationHandler, reportHandler *handlers.ReportHandler) {
	// API v1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthRequired())

	// Bill routes
	bills := v1.Group("/bills")
	{
		bills.POST("", middleware.AdminRequired(), billingHandler.CreateBill)
		bills.GET("", billingHandler.GetMemberBills)
		bills.PUT("/:bill_id/cancel", middleware.AdminRequired(), billingHandler.CancelBill)
	}

	// Payment routes
	payments := v1.Group("/payments")
	{
		payments.POST("", paymentHandler.ProcessPayment)
		payments.PUT("/:payment_id/refund", middleware.AdminRequired(), paymentHandler.RefundPayment)
	}

	// Receipt routes
	receipts := v1.Group("/receipts")
	{
		receipts.GET("", receiptHandler.GetMemberReceipts)
		receipts.GET("/:receipt_id/document", receiptHandler.GetReceiptDocument)
	}

	// Notification routes
	notifications := v1.Group("/notifications")
	{
		notifications.GET("", notificationHandler.GetMemberNotifications)
		notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
		notifications.PUT("/read", notificationHandler.MarkAsRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notifications.POST("", middleware.AdminRequired(), notificationHandler.SendNotification)
	}

	// Report routes (staff only)
	reports := v1.Group("/reports")
	reports.Use(middleware.AdminRequired())
	{
		reports.GET("/revenue", reportHandler.GetRevenueReport)
		reports.GET("/outstanding", reportHandler.GetOutstandingReport)
	}
}
