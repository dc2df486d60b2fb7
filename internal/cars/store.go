package cars

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/owusuprince21/cheaprides.backend/internal/db"
)

const recentLimit = 8
const relatedLimit = 4

// Store is the relational car listing storage.
type Store interface {
	// List returns every available car, newest first.
	List(ctx context.Context) ([]Car, error)
	// Recent returns the newest available cars.
	Recent(ctx context.Context) ([]Car, error)
	// Featured returns available cars flagged as featured.
	Featured(ctx context.Context) ([]Car, error)
	// BySlug returns one available car with its gallery, or ErrNotFound.
	BySlug(ctx context.Context, slug string) (*Car, error)
	// Related returns available cars of the same make, excluding the
	// car itself. An unknown slug yields an empty result, not an error.
	Related(ctx context.Context, slug string) ([]Car, error)
	// Create inserts a car and returns it with id and slug assigned.
	Create(ctx context.Context, car *Car) error
	// AddImage attaches a gallery image to a car.
	AddImage(ctx context.Context, img *Image) error
	// Stats aggregates counts by make plus overview totals.
	Stats(ctx context.Context) (Stats, error)
}

const carColumns = `id, slug, title, description, price, make, model, year,
	mileage, fuel_type, transmission, condition, color, engine_size,
	doors, seats, features, main_image, is_featured, is_available, created_at`

type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanCar(row interface{ Scan(...any) error }, c *Car) error {
	return row.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Description, &c.Price, &c.Make,
		&c.Model, &c.Year, &c.Mileage, &c.FuelType, &c.Transmission,
		&c.Condition, &c.Color, &c.EngineSize, &c.Doors, &c.Seats,
		&c.Features, &c.MainImage, &c.IsFeatured, &c.IsAvailable,
		&c.CreatedAt,
	)
}

func (s *PostgresStore) queryCars(ctx context.Context, query string, args ...any) ([]Car, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Car{}
	for rows.Next() {
		var c Car
		if err := scanCar(rows, &c); err != nil {
			return nil, err
		}
		list = append(list, c)
	}

	return list, rows.Err()
}

func (s *PostgresStore) List(ctx context.Context) ([]Car, error) {
	return s.queryCars(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE is_available
		ORDER BY created_at DESC
	`)
}

func (s *PostgresStore) Recent(ctx context.Context) ([]Car, error) {
	return s.queryCars(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE is_available
		ORDER BY created_at DESC
		LIMIT $1
	`, recentLimit)
}

func (s *PostgresStore) Featured(ctx context.Context) ([]Car, error) {
	return s.queryCars(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE is_available AND is_featured
		ORDER BY created_at DESC
	`)
}

func (s *PostgresStore) BySlug(ctx context.Context, slug string) (*Car, error) {
	var c Car
	err := scanCar(s.db.QueryRowContext(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE slug = $1 AND is_available
	`, slug), &c)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, car_id, url, caption
		FROM car_images
		WHERE car_id = $1
		ORDER BY id
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.CarID, &img.URL, &img.Caption); err != nil {
			return nil, err
		}
		c.Images = append(c.Images, img)
	}

	return &c, rows.Err()
}

func (s *PostgresStore) Related(ctx context.Context, slug string) ([]Car, error) {
	return s.queryCars(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE is_available
		  AND make = (SELECT make FROM cars WHERE slug = $1)
		  AND slug <> $1
		ORDER BY created_at DESC
		LIMIT $2
	`, slug, relatedLimit)
}

func (s *PostgresStore) Create(ctx context.Context, car *Car) error {
	slug := Slugify(car.Title)

	for attempt := 0; attempt < 2; attempt++ {
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO cars (
				slug, title, description, price, make, model, year,
				mileage, fuel_type, transmission, condition, color,
				engine_size, doors, seats, features, main_image,
				is_featured, is_available
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18, $19)
			RETURNING id, created_at
		`,
			slug, car.Title, car.Description, car.Price, car.Make,
			car.Model, car.Year, car.Mileage, car.FuelType,
			car.Transmission, car.Condition, car.Color, car.EngineSize,
			car.Doors, car.Seats, car.Features, car.MainImage,
			car.IsFeatured, car.IsAvailable,
		).Scan(&car.ID, &car.CreatedAt)

		if err == nil {
			car.Slug = slug
			return nil
		}

		// Retry once with a random suffix when the slug is taken.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && attempt == 0 {
			slug = UniqueSlug(car.Title)
			continue
		}
		return err
	}

	return errors.New("cars: could not assign a unique slug")
}

func (s *PostgresStore) AddImage(ctx context.Context, img *Image) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO car_images (car_id, url, caption)
		VALUES ($1, $2, $3)
		RETURNING id
	`, img.CarID, img.URL, img.Caption).Scan(&img.ID)
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	rows, err := s.db.QueryContext(ctx, `
		SELECT make, COUNT(*) AS count
		FROM cars
		GROUP BY make
		ORDER BY count DESC
	`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var mc MakeCount
		if err := rows.Scan(&mc.Make, &mc.Count); err != nil {
			return stats, err
		}
		stats.ByMake = append(stats.ByMake, mc)
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_available),
			COUNT(*) FILTER (WHERE is_featured)
		FROM cars
	`).Scan(&stats.Overview.Total, &stats.Overview.Available, &stats.Overview.Featured)

	return stats, err
}
