package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/owusuprince21/cheaprides.backend/internal/cars"
	"github.com/owusuprince21/cheaprides.backend/internal/logger"
)

// Handler serves the public car browsing endpoints.
type Handler struct {
	store cars.Store
}

func NewHandler(store cars.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/cars/", h.List)
	r.GET("/cars/recent/", h.Recent)
	r.GET("/cars/featured/", h.Featured)
	r.GET("/cars/:slug/", h.Detail)
	r.GET("/cars/:slug/related/", h.Related)
}

func (h *Handler) respondList(c *gin.Context, list []cars.Car, err error) {
	if err != nil {
		logger.Error("car listing query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load listings"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	h.respondList(c, list, err)
}

func (h *Handler) Recent(c *gin.Context) {
	list, err := h.store.Recent(c.Request.Context())
	h.respondList(c, list, err)
}

func (h *Handler) Featured(c *gin.Context) {
	list, err := h.store.Featured(c.Request.Context())
	h.respondList(c, list, err)
}

func (h *Handler) Detail(c *gin.Context) {
	car, err := h.store.BySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, cars.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
		return
	}
	if err != nil {
		logger.Error("car detail query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load listing"})
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *Handler) Related(c *gin.Context) {
	list, err := h.store.Related(c.Request.Context(), c.Param("slug"))
	h.respondList(c, list, err)
}
