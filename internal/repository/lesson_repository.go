package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// LessonRepository reads the lesson catalog and teacher assignments.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs the repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// ListByBranch returns every lesson of a branch, excluded ones included.
func (r *LessonRepository) ListByBranch(ctx context.Context, branchID string) ([]models.Lesson, error) {
	const query = `SELECT id, branch_id, class_id, name, weekly_hours, splittable, include_in_schedule, requires_multiple_resources, suitable_room_type_ids
FROM lessons WHERE branch_id = $1 ORDER BY id ASC`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, branchID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// ListAssignmentsByBranch returns lesson to teacher links for the lessons of a branch.
func (r *LessonRepository) ListAssignmentsByBranch(ctx context.Context, branchID string) ([]models.TeacherLessonAssignment, error) {
	const query = `SELECT a.lesson_id, a.teacher_id
FROM teacher_lesson_assignments a
JOIN lessons l ON l.id = a.lesson_id
WHERE l.branch_id = $1 ORDER BY a.lesson_id ASC, a.teacher_id ASC`
	var assignments []models.TeacherLessonAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, branchID); err != nil {
		return nil, fmt.Errorf("list teacher lesson assignments: %w", err)
	}
	return assignments, nil
}
