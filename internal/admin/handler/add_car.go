package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/owusuprince21/cheaprides.backend/internal/cars"
	"github.com/owusuprince21/cheaprides.backend/internal/logger"
)

// fieldErrors collects validation messages per field, returned as a
// structured 400 body instead of failing on the first bad field.
type fieldErrors map[string][]string

func (e fieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

func parseCarForm(c *gin.Context) (*cars.Car, fieldErrors) {
	errs := fieldErrors{}

	car := &cars.Car{
		Title:        strings.TrimSpace(c.PostForm("title")),
		Description:  c.PostForm("description"),
		Make:         strings.TrimSpace(c.PostForm("make")),
		Model:        strings.TrimSpace(c.PostForm("model")),
		FuelType:     c.PostForm("fuel_type"),
		Transmission: c.PostForm("transmission"),
		Condition:    c.PostForm("condition"),
		Color:        c.PostForm("color"),
		EngineSize:   c.PostForm("engine_size"),
		Features:     c.PostForm("features"),
		IsFeatured:   c.PostForm("is_featured") == "true",
		IsAvailable:  c.PostForm("is_available") == "true",
	}

	if car.Title == "" {
		errs.add("title", "This field is required.")
	}
	if car.Make == "" {
		errs.add("make", "This field is required.")
	}
	if car.Model == "" {
		errs.add("model", "This field is required.")
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	switch {
	case c.PostForm("price") == "":
		errs.add("price", "This field is required.")
	case err != nil:
		errs.add("price", "A valid number is required.")
	case price <= 0:
		errs.add("price", "Price must be greater than zero.")
	default:
		car.Price = price
	}

	year, err := strconv.Atoi(c.PostForm("year"))
	switch {
	case c.PostForm("year") == "":
		errs.add("year", "This field is required.")
	case err != nil:
		errs.add("year", "A valid integer is required.")
	case year < 1900 || year > time.Now().Year()+1:
		errs.add("year", "Year is out of range.")
	default:
		car.Year = year
	}

	for field, dst := range map[string]*int{
		"mileage": &car.Mileage,
		"doors":   &car.Doors,
		"seats":   &car.Seats,
	} {
		raw := c.PostForm(field)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs.add(field, "A valid non-negative integer is required.")
			continue
		}
		*dst = n
	}

	return car, errs
}

// AddCar creates a listing from a multipart form. The base record plus
// main image must succeed; gallery attachments are uploaded one by one
// and failures are logged without reverting the created car.
func (h *Handler) AddCar(c *gin.Context) {
	car, errs := parseCarForm(c)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	if file, err := c.FormFile("main_image"); err == nil {
		url, err := h.uploadImage(c, file)
		if err != nil {
			logger.Error("main image upload failed",
				zap.String("filename", file.Filename),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload main image"})
			return
		}
		car.MainImage = url
	}

	if err := h.store.Create(c.Request.Context(), car); err != nil {
		logger.Error("car create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add car"})
		return
	}

	// Gallery attachments are at-least-partial-success: the car stays
	// created even when some of them fail.
	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["gallery_images"] {
			url, err := h.uploadImage(c, file)
			if err != nil {
				logger.Warn("gallery image upload failed",
					zap.Int64("car_id", car.ID),
					zap.String("filename", file.Filename),
					zap.Error(err),
				)
				continue
			}
			img := &cars.Image{
				CarID:   car.ID,
				URL:     url,
				Caption: fmt.Sprintf("Gallery image for %s", car.Title),
			}
			if err := h.store.AddImage(c.Request.Context(), img); err != nil {
				logger.Warn("gallery image attach failed",
					zap.Int64("car_id", car.ID),
					zap.Error(err),
				)
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Car added successfully",
		"car_id":  car.ID,
	})
}

func (h *Handler) uploadImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.media.Upload(c.Request.Context(), file.Filename, f)
}
