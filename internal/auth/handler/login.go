package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/owusuprince21/cheaprides.backend/internal/logger"
)

type firebaseLoginRequest struct {
	Token string `json:"token"`
}

// FirebaseLogin verifies a Firebase ID token, provisions the user on
// first login and returns the verified identity with a local token
// pair. Verification failures are a 400 with an opaque error body.
func (h *Handler) FirebaseLogin(c *gin.Context) {
	var req firebaseLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	identity, err := h.verifier.Verify(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid Firebase ID token"})
		return
	}

	user, err := h.directory.GetOrCreate(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid Firebase ID token"})
		return
	}

	if err := h.directory.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		logger.Warn("failed to update last_login",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}

	pair, err := h.tokens.Mint(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":     identity.UID,
		"name":    identity.DisplayName,
		"email":   identity.Email,
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}
