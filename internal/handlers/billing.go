package handlers

import (
	"net/http"

	"github.com/Biswajit213/gym-management/internal/models"
	"github.com/Biswajit213/gym-management/internal/services"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	billing *services.BillingService
}

func NewBillingHandler(billing *services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// CreateBill issues a new bill to a member (staff only).
func (h *BillingHandler) CreateBill(c *gin.Context) {
	var req models.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.billing.CreateBill(c.Request.Context(), req.MemberID, req.Amount, req.Description, req.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Bill created successfully",
		"data":    models.CreateBillResponse{BillID: bill.ID},
	})
}

// GetMemberBills lists the authenticated member's bills, newest first.
func (h *BillingHandler) GetMemberBills(c *gin.Context) {
	memberID, ok := memberFromContext(c)
	if !ok {
		return
	}
	// Staff may inspect another member's bills.
	if override := c.Query("member_id"); override != "" && c.GetString("member_role") == "admin" {
		memberID = override
	}

	bills, err := h.billing.ListBills(c.Request.Context(), memberID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bills retrieved successfully",
		"data":    models.GetBillsResponse{Bills: bills, Total: len(bills)},
	})
}

// CancelBill cancels a bill that has not been paid yet.
func (h *BillingHandler) CancelBill(c *gin.Context) {
	billID := c.Param("bill_id")
	if billID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bill ID is required"})
		return
	}

	if err := h.billing.CancelBill(c.Request.Context(), billID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill cancelled successfully"})
}
