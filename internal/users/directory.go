package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/owusuprince21/cheaprides.backend/internal/auth"
	"github.com/owusuprince21/cheaprides.backend/internal/db"
)

// ErrEmailRequired is returned when a verified identity carries no
// email. The directory is keyed on email; provisioning without one
// would collapse unrelated subjects into a single record.
var ErrEmailRequired = errors.New("identity has no email")

// Directory maps verified identities to persisted user records.
type Directory interface {
	// GetOrCreate returns the user for the identity's email, creating
	// it on first login. Existing records are returned untouched.
	GetOrCreate(ctx context.Context, identity *auth.Identity) (*User, error)
	// TouchLastLogin stamps last_login for the given user.
	TouchLastLogin(ctx context.Context, id int64) error
	// List returns the admin projection of every user.
	List(ctx context.Context) ([]Summary, error)
	// Counts aggregates totals for the admin stats endpoint.
	Counts(ctx context.Context) (Counts, error)
}

const userColumns = `id, email, username, first_name, last_name,
	is_active, is_staff, is_superuser, date_joined, last_login`

// PostgresDirectory is the canonical Directory backed by postgres.
type PostgresDirectory struct {
	db *db.DB
}

func NewPostgresDirectory(db *db.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// GetOrCreate provisions lazily on first login. The insert races on the
// unique lower(email) index; a concurrent loser gets no row back and
// re-reads the winner's record, so repeated logins with the same email
// always resolve to one row.
func (d *PostgresDirectory) GetOrCreate(ctx context.Context, identity *auth.Identity) (*User, error) {
	if identity == nil || identity.Email == "" {
		return nil, ErrEmailRequired
	}

	first, last := auth.SplitDisplayName(identity.DisplayName)

	var u User
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (LOWER(email)) DO NOTHING
		RETURNING `+userColumns+`
	`,
		identity.Email,
		identity.UID,
		first,
		last,
	).Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.DateJoined, &u.LastLogin,
	)

	if err == nil {
		return &u, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	// Conflict: the record already exists, return it unchanged.
	err = d.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, identity.Email).Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.DateJoined, &u.LastLogin,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (d *PostgresDirectory) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE users SET last_login = NOW() WHERE id = $1
	`, id)
	return err
}

func (d *PostgresDirectory) List(ctx context.Context) ([]Summary, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, username, email, is_active, is_staff, date_joined, last_login
		FROM users
		ORDER BY date_joined DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.ID, &s.Username, &s.Email, &s.IsActive, &s.IsStaff,
			&s.DateJoined, &s.LastLogin,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (d *PostgresDirectory) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := d.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE is_staff)
		FROM users
	`).Scan(&c.Total, &c.Active, &c.Admins)
	return c, err
}
