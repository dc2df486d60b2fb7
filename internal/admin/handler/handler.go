package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/owusuprince21/cheaprides.backend/internal/cars"
	"github.com/owusuprince21/cheaprides.backend/internal/logger"
	"github.com/owusuprince21/cheaprides.backend/internal/media"
	"github.com/owusuprince21/cheaprides.backend/internal/middleware"
	"github.com/owusuprince21/cheaprides.backend/internal/users"
)

// Handler serves the administrator-only endpoints. Routes are mounted
// behind RequireAdmin, so handlers can assume a privileged caller.
type Handler struct {
	store     cars.Store
	directory users.Directory
	media     media.Store
}

func NewHandler(store cars.Store, directory users.Directory, mediaStore media.Store) *Handler {
	return &Handler{
		store:     store,
		directory: directory,
		media:     mediaStore,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/stats/", h.Stats)
	admin.GET("/users/", h.Users)
	admin.POST("/add-car/", h.AddCar)
}

// Stats aggregates car counts by make plus user and car overviews.
func (h *Handler) Stats(c *gin.Context) {
	carStats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		logger.Error("car stats query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	userCounts, err := h.directory.Counts(c.Request.Context())
	if err != nil {
		logger.Error("user counts query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	carStatsList := carStats.ByMake
	if carStatsList == nil {
		carStatsList = []cars.MakeCount{}
	}

	c.JSON(http.StatusOK, gin.H{
		"car_stats":    carStatsList,
		"user_stats":   userCounts,
		"car_overview": carStats.Overview,
	})
}

// Users returns the read-only user directory projection.
func (h *Handler) Users(c *gin.Context) {
	list, err := h.directory.List(c.Request.Context())
	if err != nil {
		logger.Error("user listing query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, list)
}
