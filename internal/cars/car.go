package cars

import (
	"errors"
	"strings"
	"time"

	"github.com/owusuprince21/cheaprides.backend/internal/utils"
)

var ErrNotFound = errors.New("car not found")

type Car struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Mileage      int       `json:"mileage"`
	FuelType     string    `json:"fuel_type"`
	Transmission string    `json:"transmission"`
	Condition    string    `json:"condition"`
	Color        string    `json:"color"`
	EngineSize   string    `json:"engine_size"`
	Doors        int       `json:"doors"`
	Seats        int       `json:"seats"`
	Features     string    `json:"features"`
	MainImage    string    `json:"main_image"`
	IsFeatured   bool      `json:"is_featured"`
	IsAvailable  bool      `json:"is_available"`
	CreatedAt    time.Time `json:"created_at"`
	Images       []Image   `json:"images,omitempty"`
}

type Image struct {
	ID      int64  `json:"id"`
	CarID   int64  `json:"-"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Stats aggregates the car table for the admin stats endpoint.
type Stats struct {
	ByMake   []MakeCount `json:"by_make"`
	Overview Overview    `json:"overview"`
}

type MakeCount struct {
	Make  string `json:"make"`
	Count int    `json:"count"`
}

type Overview struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Featured  int `json:"featured"`
}

// Slugify maps a title to a URL slug: lowercase, runs of
// non-alphanumerics collapsed to single dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := true // suppress a leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// UniqueSlug appends a short random suffix, used when the plain slug
// already exists.
func UniqueSlug(title string) string {
	return Slugify(title) + "-" + strings.ToLower(utils.RandomString(4))
}
