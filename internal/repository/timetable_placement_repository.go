package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TimetablePlacementRepository manages the placements of stored runs.
type TimetablePlacementRepository struct {
	db *sqlx.DB
}

// NewTimetablePlacementRepository builds repository.
func NewTimetablePlacementRepository(db *sqlx.DB) *TimetablePlacementRepository {
	return &TimetablePlacementRepository{db: db}
}

func (r *TimetablePlacementRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch stores placements of a run.
func (r *TimetablePlacementRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, placements []models.TimetablePlacement) error {
	if len(placements) == 0 {
		return nil
	}
	target := r.exec(exec)

	const query = `
INSERT INTO timetable_placements (id, run_id, day, period, lesson_id, class_id, teacher_id, room_ids)
VALUES (:id, :run_id, :day, :period, :lesson_id, :class_id, :teacher_id, :room_ids)`

	for i := range placements {
		placement := &placements[i]
		if placement.ID == "" {
			placement.ID = uuid.NewString()
		}
		if placement.RoomIDs == nil {
			placement.RoomIDs = []string{}
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, placement); err != nil {
			return fmt.Errorf("insert timetable placement: %w", err)
		}
	}
	return nil
}

// ListByRun returns placements ordered by day, period and teacher.
func (r *TimetablePlacementRepository) ListByRun(ctx context.Context, runID string) ([]models.TimetablePlacement, error) {
	const query = `SELECT p.id, p.run_id, p.day, p.period, p.lesson_id, COALESCE(l.name, '') AS lesson_name, p.class_id, p.teacher_id, p.room_ids
FROM timetable_placements p
LEFT JOIN lessons l ON l.id = p.lesson_id
WHERE p.run_id = $1 ORDER BY p.day ASC, p.period ASC, p.teacher_id ASC`
	var placements []models.TimetablePlacement
	if err := r.db.SelectContext(ctx, &placements, query, runID); err != nil {
		return nil, fmt.Errorf("list timetable placements: %w", err)
	}
	return placements, nil
}

// DeleteByRun removes every placement of a run.
func (r *TimetablePlacementRepository) DeleteByRun(ctx context.Context, exec sqlx.ExtContext, runID string) error {
	const query = `DELETE FROM timetable_placements WHERE run_id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, runID); err != nil {
		return fmt.Errorf("delete timetable placements: %w", err)
	}
	return nil
}
