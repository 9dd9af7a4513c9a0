package handlers

import (
	"net/http"
	"strconv"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/services"

	"github.com/gin-gonic/gin"
)

type ReceiptHandler struct {
	receipts *services.ReceiptService
}

func NewReceiptHandler(receipts *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// GetMemberReceipts lists the authenticated member's receipts.
func (h *ReceiptHandler) GetMemberReceipts(c *gin.Context) {
	memberID, ok := memberFromContext(c)
	if !ok {
		return
	}

	limit := 20
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	receipts, err := h.receipts.ListMemberReceipts(c.Request.Context(), memberID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipts retrieved successfully",
		"data":    models.GetReceiptsResponse{Receipts: receipts, Total: len(receipts)},
	})
}

// GetReceiptDocument renders the printable receipt. Only the owning member
// or staff may fetch it.
func (h *ReceiptHandler) GetReceiptDocument(c *gin.Context) {
	memberID, ok := memberFromContext(c)
	if !ok {
		return
	}

	receiptID := c.Param("receipt_id")
	if receiptID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt ID is required"})
		return
	}

	receipt, err := h.receipts.GetReceipt(c.Request.Context(), receiptID)
	if err != nil {
		respondError(c, err)
		return
	}

	if receipt.MemberID != memberID && c.GetString("member_role") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", h.receipts.RenderDocument(receipt))
}
