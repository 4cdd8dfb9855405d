package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// TimetableRunStatus represents the outcome of a generation run.
type TimetableRunStatus string

const (
	TimetableRunStatusSucceeded TimetableRunStatus = "SUCCEEDED"
	TimetableRunStatusFailed    TimetableRunStatus = "FAILED"
)

// TimetableRun captures one versioned generation run for a branch.
type TimetableRun struct {
	ID               string             `db:"id" json:"id"`
	BranchID         string             `db:"branch_id" json:"branch_id"`
	Version          int                `db:"version" json:"version"`
	Status           TimetableRunStatus `db:"status" json:"status"`
	Attempts         int                `db:"attempts" json:"attempts"`
	Seed             int64              `db:"seed" json:"seed"`
	FitnessScore     float64            `db:"fitness_score" json:"fitness_score"`
	WorkloadVariance float64            `db:"workload_variance" json:"workload_variance"`
	TotalGaps        int                `db:"total_gaps" json:"total_gaps"`
	UnassignedHours  int                `db:"unassigned_hours" json:"unassigned_hours"`
	Meta             types.JSONText     `db:"meta" json:"meta"`
	CreatedAt        time.Time          `db:"created_at" json:"created_at"`
}

// TimetableRunMeta is the JSON document stored in TimetableRun.Meta.
type TimetableRunMeta struct {
	AttemptIndex      int                       `json:"attemptIndex"`
	DaysPerWeek       int                       `json:"daysPerWeek"`
	HoursPerDay       int                       `json:"hoursPerDay"`
	UnassignedLessons []TimetableUnassigned     `json:"unassignedLessons"`
	Issues            []TimetableIntegrityIssue `json:"issues,omitempty"`
	Logs              []string                  `json:"logs"`
}

// TimetableUnassigned is a lesson remainder that could not be placed.
type TimetableUnassigned struct {
	LessonID       string `json:"lessonId"`
	LessonName     string `json:"lessonName"`
	RemainingHours int    `json:"remainingHours"`
}

// TimetableIntegrityIssue is a persisted data integrity finding of a failed run.
type TimetableIntegrityIssue struct {
	Entity   string `json:"entity"`
	EntityID string `json:"entityId"`
	Name     string `json:"name,omitempty"`
	Reason   string `json:"reason"`
}

// TimetablePlacement is one lesson period of a stored run.
// LessonName is read-only, joined from the lesson catalog.
type TimetablePlacement struct {
	ID         string         `db:"id" json:"id"`
	RunID      string         `db:"run_id" json:"run_id"`
	Day        int            `db:"day" json:"day"`
	Period     int            `db:"period" json:"period"`
	LessonID   string         `db:"lesson_id" json:"lesson_id"`
	LessonName string         `db:"lesson_name" json:"lesson_name"`
	ClassID    string         `db:"class_id" json:"class_id"`
	TeacherID  string         `db:"teacher_id" json:"teacher_id"`
	RoomIDs    pq.StringArray `db:"room_ids" json:"room_ids"`
}
