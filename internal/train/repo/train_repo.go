package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/railcheck/tc-api/internal/train/entity"
)

// TrainRepo provides data access for the trains, coaches and tc_trains
// tables using sqlx.
type TrainRepo struct {
	db *sqlx.DB
}

func NewTrainRepo(db *sqlx.DB) *TrainRepo { return &TrainRepo{db: db} }

// EnsureTable creates the resource tables if not exists (idempotent).
// tc_trains records which account created each train; reads do not filter
// on it (every authenticated caller sees every train).
func (r *TrainRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS trains (
  trainid BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  last_date TEXT NOT NULL DEFAULT '',
  last_time TEXT NOT NULL DEFAULT '',
  no_of_penalty INT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS coaches (
  id BIGSERIAL PRIMARY KEY,
  trainid BIGINT NOT NULL,
  coachid TEXT NOT NULL DEFAULT '',
  no_of_penalty INT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_coaches_trainid ON coaches(trainid);
CREATE TABLE IF NOT EXISTS tc_trains (
  tc_id BIGINT NOT NULL,
  train_id BIGINT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts the train row and its tc_trains assignment in one
// transaction and returns the store-assigned train id. Either both rows
// land or neither does; a failed assignment must not leave an orphaned
// train behind.
func (r *TrainRepo) Create(ctx context.Context, tcID int64, t *entity.Train) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create train: %w", err)
	}
	defer tx.Rollback()

	const insTrain = `INSERT INTO trains (name, last_date, last_time, no_of_penalty)
		VALUES ($1, $2, $3, $4) RETURNING trainid`
	var id int64
	if err := tx.QueryRowxContext(ctx, insTrain, t.Name, t.LastDate, t.LastTime, t.NoOfPenalty).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert train: %w", err)
	}

	const insAssign = `INSERT INTO tc_trains (tc_id, train_id) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, insAssign, tcID, id); err != nil {
		return 0, fmt.Errorf("assign train: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create train: %w", err)
	}
	t.TrainID = id
	return id, nil
}

// GetByID returns a train row or sql.ErrNoRows.
func (r *TrainRepo) GetByID(ctx context.Context, trainID int64) (*entity.Train, error) {
	const q = `SELECT trainid, name, last_date, last_time, no_of_penalty FROM trains WHERE trainid=$1`
	var row entity.Train
	if err := r.db.GetContext(ctx, &row, q, trainID); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListAll returns every train row. Each call issues a fresh query; no
// cursor state is retained between calls.
func (r *TrainRepo) ListAll(ctx context.Context) ([]*entity.Train, error) {
	const q = `SELECT trainid, name, last_date, last_time, no_of_penalty FROM trains ORDER BY trainid`
	var rows []*entity.Train
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCoaches returns the coach rows belonging to a train.
func (r *TrainRepo) ListCoaches(ctx context.Context, trainID int64) ([]*entity.Coach, error) {
	const q = `SELECT trainid, coachid, no_of_penalty FROM coaches WHERE trainid=$1 ORDER BY coachid`
	var rows []*entity.Coach
	if err := r.db.SelectContext(ctx, &rows, q, trainID); err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateCoach inserts a coach row for a train and returns its row id.
func (r *TrainRepo) CreateCoach(ctx context.Context, trainID int64, coachID string, penalty int) (int64, error) {
	const q = `INSERT INTO coaches (trainid, coachid, no_of_penalty) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := r.db.QueryRowxContext(ctx, q, trainID, coachID, penalty).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces every mutable field of a train by primary key. Zero
// affected rows is ambiguous in Postgres-reported row counts only when
// the id is missing, but the existence probe keeps the contract explicit:
// true means the row exists and now carries the given values (including
// the already-identical case), false means no such train.
func (r *TrainRepo) Update(ctx context.Context, trainID int64, name, lastDate, lastTime string, penalty int) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin update train: %w", err)
	}
	defer tx.Rollback()

	const upd = `UPDATE trains SET name=$2, last_date=$3, last_time=$4, no_of_penalty=$5 WHERE trainid=$1`
	res, err := tx.ExecContext(ctx, upd, trainID, name, lastDate, lastTime, penalty)
	if err != nil {
		return false, fmt.Errorf("update train: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update train rows: %w", err)
	}

	exists := affected > 0
	if !exists {
		const probe = `SELECT EXISTS(SELECT 1 FROM trains WHERE trainid=$1)`
		if err := tx.QueryRowxContext(ctx, probe, trainID).Scan(&exists); err != nil {
			return false, fmt.Errorf("probe train: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit update train: %w", err)
	}
	return exists, nil
}

// IsNotFound reports whether err is the driver's empty-result sentinel.
func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
