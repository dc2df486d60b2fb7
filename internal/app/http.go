package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	adminhandler "github.com/owusuprince21/cheaprides.backend/internal/admin/handler"
	authhandler "github.com/owusuprince21/cheaprides.backend/internal/auth/handler"
	"github.com/owusuprince21/cheaprides.backend/internal/auth/tokens"
	"github.com/owusuprince21/cheaprides.backend/internal/auth/verifier"
	"github.com/owusuprince21/cheaprides.backend/internal/auth/verifier/firebase"
	"github.com/owusuprince21/cheaprides.backend/internal/cars"
	carshandler "github.com/owusuprince21/cheaprides.backend/internal/cars/handler"
	"github.com/owusuprince21/cheaprides.backend/internal/config"
	"github.com/owusuprince21/cheaprides.backend/internal/mail"
	"github.com/owusuprince21/cheaprides.backend/internal/media"
	"github.com/owusuprince21/cheaprides.backend/internal/media/cloudinary"
	"github.com/owusuprince21/cheaprides.backend/internal/metrics"
	"github.com/owusuprince21/cheaprides.backend/internal/middleware"
	"github.com/owusuprince21/cheaprides.backend/internal/redis"
	"github.com/owusuprince21/cheaprides.backend/internal/users"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	firebaseClient, err := firebase.New(
		ctx,
		cfg.FirebaseIssuer(),
		cfg.FirebaseProjectID,
		cfg.FirebaseAPIKey,
	)
	if err != nil {
		return nil, nil, err
	}

	tokenService := tokens.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// The gate accepts Firebase ID tokens first, then locally issued
	// access tokens.
	gateVerifier := verifier.Chain{
		firebaseClient,
		tokens.AccessVerifier{Tokens: tokenService},
	}

	directory := users.NewPostgresDirectory(infra.DB)
	carStore := cars.NewCachedStore(cars.NewPostgresStore(infra.DB), infra.Redis.Client)

	var mediaStore media.Store
	mediaStore, err = cloudinary.New(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CloudinaryFolder,
	)
	if err != nil {
		return nil, nil, err
	}

	mailer := mail.NewSMTPMailer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUsername,
		cfg.SMTPPassword,
		cfg.MailFrom,
	)

	verificationLimiter := redis.NewLimiter(infra.Redis, "verify:", time.Minute)

	m := metrics.New()

	authHandler := authhandler.NewHandler(
		gateVerifier,
		directory,
		tokenService,
		firebaseClient,
		mailer,
		verificationLimiter,
		cfg.VerificationContinueURL,
	)
	carsHandler := carshandler.NewHandler(carStore)
	adminHandler := adminhandler.NewHandler(carStore, directory, mediaStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging("/health", "/metrics"))
	router.Use(m.Middleware("/health", "/metrics"))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Every route runs behind the auth gate; per-route policy is
	// enforced by RequireAuth/RequireAdmin where registered.
	router.Use(middleware.Authenticate(gateVerifier, directory))

	authHandler.RegisterRoutes(router)
	carsHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", m.Handler())

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
