package models

import "github.com/jmoiron/sqlx/types"

// Teacher represents an instructor record.
type Teacher struct {
	ID       string `db:"id" json:"id"`
	FullName string `db:"full_name" json:"full_name"`
}

// TeacherUnavailableSlot describes a blocked teaching window, e.g. {"MONDAY", "1-3"}.
type TeacherUnavailableSlot struct {
	DayOfWeek string `json:"day_of_week"`
	TimeRange string `json:"time_range"`
}

// TeacherPreference stores capacity and availability rules for a teacher.
// Zero load caps mean the teacher is not capped.
type TeacherPreference struct {
	TeacherID      string         `db:"teacher_id" json:"teacher_id"`
	MaxLoadPerDay  int            `db:"max_load_per_day" json:"max_load_per_day"`
	MaxLoadPerWeek int            `db:"max_load_per_week" json:"max_load_per_week"`
	Unavailable    types.JSONText `db:"unavailable" json:"unavailable"`
}
