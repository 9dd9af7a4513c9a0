package handlers

import (
	"net/http"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// ProcessPayment submits a payment. A declined settlement is not an HTTP
// error: the payment resolved, the result just says success=false.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	memberID, ok := memberFromContext(c)
	if !ok {
		return
	}

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.MemberID = memberID

	result, err := h.payments.ProcessPayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment processed",
		"data":    result,
	})
}

// RefundPayment refunds a completed payment (staff only).
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	paymentID := c.Param("payment_id")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment ID is required"})
		return
	}

	if err := h.payments.RefundPayment(c.Request.Context(), paymentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment refunded successfully"})
}
