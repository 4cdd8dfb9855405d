package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TeacherPreferenceRepository reads teacher load caps and unavailability windows.
type TeacherPreferenceRepository struct {
	db *sqlx.DB
}

// NewTeacherPreferenceRepository constructs the repository.
func NewTeacherPreferenceRepository(db *sqlx.DB) *TeacherPreferenceRepository {
	return &TeacherPreferenceRepository{db: db}
}

// ListByBranch returns preferences of the teachers that give lessons in the branch.
func (r *TeacherPreferenceRepository) ListByBranch(ctx context.Context, branchID string) ([]models.TeacherPreference, error) {
	const query = `SELECT p.teacher_id, p.max_load_per_day, p.max_load_per_week, p.unavailable
FROM teacher_preferences p
WHERE p.teacher_id IN (
	SELECT a.teacher_id FROM teacher_lesson_assignments a
	JOIN lessons l ON l.id = a.lesson_id
	WHERE l.branch_id = $1
) ORDER BY p.teacher_id ASC`
	var prefs []models.TeacherPreference
	if err := r.db.SelectContext(ctx, &prefs, query, branchID); err != nil {
		return nil, fmt.Errorf("list teacher preferences: %w", err)
	}
	return prefs, nil
}
