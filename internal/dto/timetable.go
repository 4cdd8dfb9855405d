package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
)

// GenerateTimetableRequest asks the optimizer to build a timetable for a branch.
type GenerateTimetableRequest struct {
	BranchID string `json:"branchId" validate:"required"`
	Attempts int    `json:"attempts" validate:"omitempty,min=1,max=500"`
	Seed     *int64 `json:"seed,omitempty"`
}

// ScheduleEntry is one schedule map entry. It marshals to the pair ["day:period:teacher", placement].
type ScheduleEntry struct {
	Key       string
	Placement scheduler.Placement
}

// MarshalJSON implements json.Marshaler.
func (e ScheduleEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{e.Key, e.Placement})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ScheduleEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("schedule entry must be a [key, placement] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Key); err != nil {
		return fmt.Errorf("schedule entry key: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Placement); err != nil {
		return fmt.Errorf("schedule entry placement: %w", err)
	}
	return nil
}

// NewScheduleEntries flattens a schedule into entries ordered by day, period and teacher.
func NewScheduleEntries(schedule scheduler.Schedule) []ScheduleEntry {
	sorted := schedule.Sorted()
	entries := make([]ScheduleEntry, 0, len(sorted))
	for _, placement := range sorted {
		entries = append(entries, ScheduleEntry{Key: placement.Key().String(), Placement: placement})
	}
	return entries
}

// TimetableResponse is the full view of a stored generation run.
type TimetableResponse struct {
	ID                   string                          `json:"id"`
	BranchID             string                          `json:"branchId"`
	Version              int                             `json:"version"`
	Status               string                          `json:"status"`
	Success              bool                            `json:"success"`
	Attempts             int                             `json:"attempts"`
	Seed                 int64                           `json:"seed"`
	AttemptIndex         int                             `json:"attemptIndex"`
	FitnessScore         float64                         `json:"fitnessScore"`
	WorkloadVariance     float64                         `json:"workloadVariance"`
	TotalGaps            int                             `json:"totalGaps"`
	TotalUnassignedHours int                             `json:"totalUnassignedHours"`
	DaysPerWeek          int                             `json:"daysPerWeek"`
	HoursPerDay          int                             `json:"hoursPerDay"`
	Schedule             []ScheduleEntry                 `json:"schedule"`
	UnassignedLessons    []scheduler.UnassignedRemainder `json:"unassignedLessons"`
	Issues               []scheduler.IntegrityIssue      `json:"issues,omitempty"`
	Logs                 []string                        `json:"logs"`
	CreatedAt            time.Time                       `json:"createdAt"`
}

// TimetableSummary is a lightweight list item for a stored run.
type TimetableSummary struct {
	ID                   string    `json:"id"`
	BranchID             string    `json:"branchId"`
	Version              int       `json:"version"`
	Status               string    `json:"status"`
	Attempts             int       `json:"attempts"`
	Seed                 int64     `json:"seed"`
	FitnessScore         float64   `json:"fitnessScore"`
	TotalUnassignedHours int       `json:"totalUnassignedHours"`
	CreatedAt            time.Time `json:"createdAt"`
}

// TimetableExport is a rendered download.
type TimetableExport struct {
	Filename    string
	ContentType string
	Payload     []byte
}
