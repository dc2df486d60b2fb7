package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/owusuprince21/cheaprides.backend/internal/logger"
)

type sendVerificationRequest struct {
	Email string `json:"email"`
}

// SendVerification generates an email verification link through the
// identity provider and mails it to the address. Rate limited per
// recipient.
func (h *Handler) SendVerification(c *gin.Context) {
	var req sendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email is required"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), req.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests, try again later"})
		return
	}

	link, err := h.links.EmailVerificationLink(c.Request.Context(), req.Email, h.continueURL)
	if err != nil {
		logger.Error("verification link generation failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not generate verification link"})
		return
	}

	body := "Click this link to verify your account: " + link
	if err := h.mailer.Send(c.Request.Context(), req.Email, "Verify your email", body); err != nil {
		logger.Error("verification mail delivery failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification email sent."})
}
