package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/owusuprince21/cheaprides.backend/internal/auth/tokens"
	"github.com/owusuprince21/cheaprides.backend/internal/auth/verifier"
	"github.com/owusuprince21/cheaprides.backend/internal/mail"
	"github.com/owusuprince21/cheaprides.backend/internal/middleware"
	"github.com/owusuprince21/cheaprides.backend/internal/users"
)

// LinkGenerator produces email verification links through the identity
// provider.
type LinkGenerator interface {
	EmailVerificationLink(ctx context.Context, email, continueURL string) (string, error)
}

// RateLimiter throttles outbound verification mail per recipient.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type Handler struct {
	verifier    verifier.Verifier
	directory   users.Directory
	tokens      *tokens.Service
	links       LinkGenerator
	mailer      mail.Mailer
	limiter     RateLimiter
	continueURL string
}

func NewHandler(
	v verifier.Verifier,
	directory users.Directory,
	tokenService *tokens.Service,
	links LinkGenerator,
	mailer mail.Mailer,
	limiter RateLimiter,
	continueURL string,
) *Handler {
	return &Handler{
		verifier:    v,
		directory:   directory,
		tokens:      tokenService,
		links:       links,
		mailer:      mailer,
		limiter:     limiter,
		continueURL: continueURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/firebase-login/", h.FirebaseLogin)
	r.POST("/api/token/refresh/", h.RefreshToken)
	r.POST("/send-verification/", h.SendVerification)
	r.GET("/auth/profile/", middleware.RequireAuth(), h.Profile)
}
