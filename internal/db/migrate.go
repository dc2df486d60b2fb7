package db

import (
	"context"
	"database/sql"
)

const schemaMigration = `
CREATE TABLE IF NOT EXISTS users (
    id bigserial PRIMARY KEY,
    email text NOT NULL,
    username text NOT NULL DEFAULT '',
    first_name text NOT NULL DEFAULT '',
    last_name text NOT NULL DEFAULT '',
    is_active boolean NOT NULL DEFAULT true,
    is_staff boolean NOT NULL DEFAULT false,
    is_superuser boolean NOT NULL DEFAULT false,
    date_joined timestamptz NOT NULL DEFAULT NOW(),
    last_login timestamptz
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS cars (
    id bigserial PRIMARY KEY,
    slug text NOT NULL,
    title text NOT NULL,
    description text NOT NULL DEFAULT '',
    price numeric(12,2) NOT NULL,
    make text NOT NULL,
    model text NOT NULL,
    year int NOT NULL,
    mileage int NOT NULL DEFAULT 0,
    fuel_type text NOT NULL DEFAULT '',
    transmission text NOT NULL DEFAULT '',
    condition text NOT NULL DEFAULT '',
    color text NOT NULL DEFAULT '',
    engine_size text NOT NULL DEFAULT '',
    doors int NOT NULL DEFAULT 0,
    seats int NOT NULL DEFAULT 0,
    features text NOT NULL DEFAULT '',
    main_image text NOT NULL DEFAULT '',
    is_featured boolean NOT NULL DEFAULT false,
    is_available boolean NOT NULL DEFAULT true,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT cars_slug_unique UNIQUE (slug)
);

CREATE INDEX IF NOT EXISTS cars_make_idx ON cars (make);

CREATE TABLE IF NOT EXISTS car_images (
    id bigserial PRIMARY KEY,
    car_id bigint NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
    url text NOT NULL,
    caption text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS car_images_car_id_idx ON car_images (car_id);
`

func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaMigration)
	return err
}
