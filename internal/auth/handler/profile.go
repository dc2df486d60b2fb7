package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/owusuprince21/cheaprides.backend/internal/middleware"
)

// Profile returns the authenticated user's record.
func (h *Handler) Profile(c *gin.Context) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}
