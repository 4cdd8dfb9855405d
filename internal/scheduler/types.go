package scheduler

import (
	"fmt"
	"sort"
)

// Slot is one (day, period) cell of the weekly grid. Both coordinates are 1-based.
type Slot struct {
	Day    int `json:"day"`
	Period int `json:"period"`
}

// LessonDemand is one lesson offering for a single class stream.
type LessonDemand struct {
	ID                        string
	Name                      string
	ClassID                   string
	TeacherID                 string
	WeeklyHours               int
	Splittable                bool
	IncludeInSchedule         bool
	RequiresMultipleResources bool
	SuitableRoomTypeIDs       []string
}

// NeedsRoom reports whether placements of the lesson occupy a physical room.
func (l LessonDemand) NeedsRoom() bool {
	return len(l.SuitableRoomTypeIDs) > 0
}

// Teacher carries the hard availability facts for one teacher.
type Teacher struct {
	ID          string
	Name        string
	MaxPerDay   int
	MaxPerWeek  int
	Unavailable map[Slot]bool
}

// Room is a physical room of a given type.
type Room struct {
	ID         string
	Name       string
	RoomTypeID string
	Capacity   int
}

// SchedulerInput is the immutable snapshot every attempt reads from.
type SchedulerInput struct {
	Lessons            []LessonDemand
	Teachers           []Teacher
	Rooms              []Room
	HoursPerDay        int
	DaysPerWeek        int
	MultiResourceRooms int
}

// PlacementKey identifies a placement; a teacher can only be in one place per slot.
type PlacementKey struct {
	Day       int
	Period    int
	TeacherID string
}

// String renders the key as "day:period:teacher".
func (k PlacementKey) String() string {
	return fmt.Sprintf("%d:%d:%s", k.Day, k.Period, k.TeacherID)
}

// Placement is a committed one-period assignment of a lesson.
type Placement struct {
	LessonID   string   `json:"lessonId"`
	LessonName string   `json:"lessonName"`
	ClassID    string   `json:"classId"`
	Day        int      `json:"day"`
	Period     int      `json:"period"`
	TeacherID  string   `json:"teacherId"`
	RoomIDs    []string `json:"roomIds,omitempty"`
}

// Key returns the schedule key of the placement.
func (p Placement) Key() PlacementKey {
	return PlacementKey{Day: p.Day, Period: p.Period, TeacherID: p.TeacherID}
}

// Schedule maps each occupied teacher slot to its placement.
type Schedule map[PlacementKey]Placement

// Sorted returns placements ordered by day, period and teacher.
func (s Schedule) Sorted() []Placement {
	out := make([]Placement, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].TeacherID < out[j].TeacherID
	})
	return out
}

// HoursByLesson counts placed periods per lesson.
func (s Schedule) HoursByLesson() map[string]int {
	counts := make(map[string]int)
	for _, p := range s {
		counts[p.LessonID]++
	}
	return counts
}

// UnassignedRemainder records lesson hours an attempt could not place.
type UnassignedRemainder struct {
	LessonID       string `json:"lessonId"`
	LessonName     string `json:"lessonName"`
	RemainingHours int    `json:"remainingHours"`
}

// AttemptResult is the outcome of a single constructive pass.
type AttemptResult struct {
	Schedule   Schedule
	Unassigned []UnassignedRemainder
}

// BestResult is the outcome of a whole scheduling run. It is never mutated after being returned.
type BestResult struct {
	Success              bool
	Schedule             Schedule
	UnassignedLessons    []UnassignedRemainder
	FitnessScore         float64
	WorkloadVariance     float64
	TotalGaps            int
	TotalUnassignedHours int
	AttemptIndex         int
	Attempts             int
	Seed                 int64
	Logs                 []string
	Error                error
}
