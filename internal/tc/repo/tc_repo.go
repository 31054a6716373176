package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/railcheck/tc-api/internal/tc/entity"
)

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

var (
	// ErrDuplicateEmail is returned when an insert loses the race against
	// another registration for the same email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateKey is returned when the generated api key collides with
	// a stored one at insert time.
	ErrDuplicateKey = errors.New("api key already issued")
)

// TCRepo provides data access for the tc table using sqlx.
type TCRepo struct {
	db *sqlx.DB
}

func NewTCRepo(db *sqlx.DB) *TCRepo { return &TCRepo{db: db} }

// EnsureTable creates the tc table if not exists (idempotent).
// The unique constraint on email is the authoritative duplicate guard;
// the application-level existence check alone cannot close the
// check-then-insert race.
func (r *TCRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tc (
  id BIGSERIAL PRIMARY KEY,
  trainid TEXT NOT NULL DEFAULT '',
  tcid TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL UNIQUE,
  zone TEXT NOT NULL DEFAULT '',
  api_key TEXT NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_tc_api_key ON tc(api_key);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// ExistsByEmail reports whether a tc row with the given email exists.
func (r *TCRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tc WHERE email=$1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, email); err != nil {
		return false, err
	}
	return exists, nil
}

// Insert stores a new tc row and returns its id. Unique constraint
// violations are mapped to ErrDuplicateEmail / ErrDuplicateKey so the
// service can distinguish a duplicate from a storage fault.
func (r *TCRepo) Insert(ctx context.Context, t *entity.TC) (int64, error) {
	const q = `INSERT INTO tc (trainid, tcid, name, email, zone, api_key)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, q, t.TrainID, t.TCID, t.Name, t.Email, t.Zone, t.APIKey).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if pqErr.Constraint == "tc_api_key_key" {
				return 0, ErrDuplicateKey
			}
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	t.ID = id
	return id, nil
}

// GetByEmail returns a tc row matched by email or sql.ErrNoRows.
func (r *TCRepo) GetByEmail(ctx context.Context, email string) (*entity.TC, error) {
	const q = `SELECT id, trainid, tcid, name, email, zone, api_key FROM tc WHERE email=$1`
	var row entity.TC
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetIDByAPIKey resolves an api key to the owning tc id, or sql.ErrNoRows.
func (r *TCRepo) GetIDByAPIKey(ctx context.Context, apiKey string) (int64, error) {
	const q = `SELECT id FROM tc WHERE api_key=$1`
	var id int64
	if err := r.db.GetContext(ctx, &id, q, apiKey); err != nil {
		return 0, err
	}
	return id, nil
}

// APIKeyExists reports whether the given api key has been issued.
func (r *TCRepo) APIKeyExists(ctx context.Context, apiKey string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tc WHERE api_key=$1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, apiKey); err != nil {
		return false, err
	}
	return exists, nil
}

// IsNotFound reports whether err is the driver's empty-result sentinel.
func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
