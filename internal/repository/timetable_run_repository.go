package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const timetableRunColumns = `id, branch_id, version, status, attempts, seed, fitness_score, workload_variance, total_gaps, unassigned_hours, meta, created_at`

// TimetableRunRepository persists versioned generation runs.
type TimetableRunRepository struct {
	db *sqlx.DB
}

// NewTimetableRunRepository constructs repository.
func NewTimetableRunRepository(db *sqlx.DB) *TimetableRunRepository {
	return &TimetableRunRepository{db: db}
}

func (r *TimetableRunRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateVersioned inserts a run assigning the next version for the branch. Version allocation is
// serialised per branch by a transaction-scoped advisory lock, so exec should be a transaction;
// with a nil exec the insert runs in a transaction of its own.
func (r *TimetableRunRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, run *models.TimetableRun) error {
	if run == nil {
		return fmt.Errorf("timetable run payload is nil")
	}
	if run.BranchID == "" {
		return fmt.Errorf("branch_id is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = models.TimetableRunStatusSucceeded
	}
	if len(run.Meta) == 0 {
		run.Meta = types.JSONText(`{}`)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	if exec != nil {
		return r.insertVersioned(ctx, exec, run)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin timetable run transaction: %w", err)
	}
	if err := r.insertVersioned(ctx, tx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit timetable run: %w", err)
	}
	return nil
}

func (r *TimetableRunRepository) insertVersioned(ctx context.Context, target sqlx.ExtContext, run *models.TimetableRun) error {
	const lockQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`
	if _, err := target.ExecContext(ctx, lockQuery, versionLockKey(run.BranchID)); err != nil {
		return fmt.Errorf("lock timetable run versions: %w", err)
	}

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM timetable_runs WHERE branch_id = $1`
	if err := sqlx.GetContext(ctx, target, &run.Version, nextVersionQuery, run.BranchID); err != nil {
		return fmt.Errorf("compute next timetable run version: %w", err)
	}

	const insertQuery = `
INSERT INTO timetable_runs (id, branch_id, version, status, attempts, seed, fitness_score, workload_variance, total_gaps, unassigned_hours, meta, created_at)
VALUES (:id, :branch_id, :version, :status, :attempts, :seed, :fitness_score, :workload_variance, :total_gaps, :unassigned_hours, :meta, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, run); err != nil {
		return fmt.Errorf("insert timetable run: %w", err)
	}
	return nil
}

func versionLockKey(branchID string) string {
	return "timetable_runs:" + branchID
}

// ListByBranch returns all runs of a branch, newest version first.
func (r *TimetableRunRepository) ListByBranch(ctx context.Context, branchID string) ([]models.TimetableRun, error) {
	query := `SELECT ` + timetableRunColumns + ` FROM timetable_runs WHERE branch_id = $1 ORDER BY version DESC`
	var runs []models.TimetableRun
	if err := r.db.SelectContext(ctx, &runs, query, branchID); err != nil {
		return nil, fmt.Errorf("list timetable runs: %w", err)
	}
	return runs, nil
}

// FindByID loads a run by its identifier.
func (r *TimetableRunRepository) FindByID(ctx context.Context, id string) (*models.TimetableRun, error) {
	query := `SELECT ` + timetableRunColumns + ` FROM timetable_runs WHERE id = $1`
	var run models.TimetableRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// Delete removes a stored run. It returns sql.ErrNoRows when nothing was deleted.
func (r *TimetableRunRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	const query = `DELETE FROM timetable_runs WHERE id = $1`
	result, err := r.exec(exec).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete timetable run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable run rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
