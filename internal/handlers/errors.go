package handlers

import (
	"errors"
	"net/http"

	"github.com/Biswajit213/gym-management/internal/services"
	"github.com/Biswajit213/gym-management/internal/store"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses:
// validation 400, illegal transition 409, missing document 404,
// everything else 500.
func respondError(c *gin.Context, err error) {
	var validationErrs *services.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"errors": validationErrs.Reasons,
		})
		return
	}

	var transitionErr *services.IllegalTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// memberFromContext reads the authenticated member set by the auth
// middleware.
func memberFromContext(c *gin.Context) (string, bool) {
	memberID, exists := c.Get("member_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Member not authenticated"})
		return "", false
	}
	return memberID.(string), true
}
