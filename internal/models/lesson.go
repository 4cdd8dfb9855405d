package models

import "github.com/lib/pq"

// Lesson is a weekly teaching demand of one class stream.
type Lesson struct {
	ID                        string         `db:"id" json:"id"`
	BranchID                  string         `db:"branch_id" json:"branch_id"`
	ClassID                   string         `db:"class_id" json:"class_id"`
	Name                      string         `db:"name" json:"name"`
	WeeklyHours               int            `db:"weekly_hours" json:"weekly_hours"`
	Splittable                bool           `db:"splittable" json:"splittable"`
	IncludeInSchedule         bool           `db:"include_in_schedule" json:"include_in_schedule"`
	RequiresMultipleResources bool           `db:"requires_multiple_resources" json:"requires_multiple_resources"`
	SuitableRoomTypeIDs       pq.StringArray `db:"suitable_room_type_ids" json:"suitable_room_type_ids"`
}

// TeacherLessonAssignment links a lesson to the teacher who gives it.
type TeacherLessonAssignment struct {
	LessonID  string `db:"lesson_id" json:"lesson_id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
}
