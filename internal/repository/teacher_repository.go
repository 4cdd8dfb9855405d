package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TeacherRepository reads teachers that give lessons in a branch.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListByBranch returns the distinct teachers assigned to at least one lesson of the branch.
func (r *TeacherRepository) ListByBranch(ctx context.Context, branchID string) ([]models.Teacher, error) {
	const query = `SELECT DISTINCT t.id, t.full_name
FROM teachers t
JOIN teacher_lesson_assignments a ON a.teacher_id = t.id
JOIN lessons l ON l.id = a.lesson_id
WHERE l.branch_id = $1 ORDER BY t.id ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, branchID); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}
