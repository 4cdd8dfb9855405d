package scheduler

import (
	"fmt"
	"sort"
)

const (
	DefaultDaysPerWeek        = 5
	DefaultHoursPerDay        = 10
	DefaultMultiResourceRooms = 2

	maxDaysPerWeek = 7
	maxHoursPerDay = 16
)

// RawLesson is a lesson record as read from the lesson catalog.
type RawLesson struct {
	ID                        string
	Name                      string
	ClassID                   string
	WeeklyHours               int
	Splittable                bool
	IncludeInSchedule         bool
	RequiresMultipleResources bool
	SuitableRoomTypeIDs       []string
}

// RawAssignment links a lesson to the teacher who gives it.
type RawAssignment struct {
	LessonID  string
	TeacherID string
}

// RawTeacher is a teacher record with optional load caps (0 means unlimited).
type RawTeacher struct {
	ID             string
	Name           string
	MaxLoadPerDay  int
	MaxLoadPerWeek int
}

// RawUnavailability blocks one teacher slot.
type RawUnavailability struct {
	TeacherID string
	Day       int
	Period    int
}

// RawRoom is a room record.
type RawRoom struct {
	ID         string
	Name       string
	RoomTypeID string
	Capacity   int
}

// RawRoomType is a room type record.
type RawRoomType struct {
	ID   string
	Name string
}

// RawInput bundles every collaborator fact the assembler consumes.
type RawInput struct {
	Lessons        []RawLesson
	Assignments    []RawAssignment
	Unavailability []RawUnavailability
	Teachers       []RawTeacher
	Rooms          []RawRoom
	RoomTypes      []RawRoomType
}

// GridConfig sizes the weekly grid. Zero values fall back to defaults.
type GridConfig struct {
	DaysPerWeek        int
	HoursPerDay        int
	MultiResourceRooms int
}

func (g GridConfig) withDefaults() GridConfig {
	if g.DaysPerWeek == 0 {
		g.DaysPerWeek = DefaultDaysPerWeek
	}
	if g.HoursPerDay == 0 {
		g.HoursPerDay = DefaultHoursPerDay
	}
	if g.MultiResourceRooms == 0 {
		g.MultiResourceRooms = DefaultMultiResourceRooms
	}
	return g
}

func (g GridConfig) issues() []IntegrityIssue {
	var issues []IntegrityIssue
	if g.DaysPerWeek < 1 || g.DaysPerWeek > maxDaysPerWeek {
		issues = append(issues, IntegrityIssue{Entity: "grid", EntityID: "daysPerWeek", Reason: fmt.Sprintf("must be between 1 and %d, got %d", maxDaysPerWeek, g.DaysPerWeek)})
	}
	if g.HoursPerDay < 1 || g.HoursPerDay > maxHoursPerDay {
		issues = append(issues, IntegrityIssue{Entity: "grid", EntityID: "hoursPerDay", Reason: fmt.Sprintf("must be between 1 and %d, got %d", maxHoursPerDay, g.HoursPerDay)})
	}
	if g.MultiResourceRooms < 1 {
		issues = append(issues, IntegrityIssue{Entity: "grid", EntityID: "multiResourceRooms", Reason: "must be positive"})
	}
	return issues
}

// Assemble normalises raw records into a SchedulerInput. It returns human readable notices for
// tolerated oddities and a *DataIntegrityError listing every record that prevents scheduling.
func Assemble(raw RawInput, grid GridConfig) (*SchedulerInput, []string, error) {
	grid = grid.withDefaults()
	var (
		notices []string
		issues  []IntegrityIssue
	)

	issues = append(issues, grid.issues()...)

	roomTypes := make(map[string]bool, len(raw.RoomTypes))
	for _, rt := range raw.RoomTypes {
		if roomTypes[rt.ID] {
			notices = append(notices, fmt.Sprintf("duplicate room type %s ignored", rt.ID))
			continue
		}
		roomTypes[rt.ID] = true
	}

	teacherIndex := make(map[string]int, len(raw.Teachers))
	teachers := make([]Teacher, 0, len(raw.Teachers))
	for _, t := range raw.Teachers {
		if _, dup := teacherIndex[t.ID]; dup {
			notices = append(notices, fmt.Sprintf("duplicate teacher %s ignored", t.ID))
			continue
		}
		teacherIndex[t.ID] = len(teachers)
		teachers = append(teachers, Teacher{
			ID:          t.ID,
			Name:        t.Name,
			MaxPerDay:   maxInt(t.MaxLoadPerDay, 0),
			MaxPerWeek:  maxInt(t.MaxLoadPerWeek, 0),
			Unavailable: make(map[Slot]bool),
		})
	}

	rooms := make([]Room, 0, len(raw.Rooms))
	seenRooms := make(map[string]bool, len(raw.Rooms))
	for _, r := range raw.Rooms {
		if seenRooms[r.ID] {
			notices = append(notices, fmt.Sprintf("duplicate room %s ignored", r.ID))
			continue
		}
		seenRooms[r.ID] = true
		if !roomTypes[r.RoomTypeID] {
			issues = append(issues, IntegrityIssue{Entity: "room", EntityID: r.ID, Name: r.Name, Reason: fmt.Sprintf("unknown room type %q", r.RoomTypeID)})
			continue
		}
		rooms = append(rooms, Room{ID: r.ID, Name: r.Name, RoomTypeID: r.RoomTypeID, Capacity: r.Capacity})
	}

	assigned := make(map[string][]string)
	for _, a := range raw.Assignments {
		if !containsString(assigned[a.LessonID], a.TeacherID) {
			assigned[a.LessonID] = append(assigned[a.LessonID], a.TeacherID)
		}
	}

	lessons := make([]LessonDemand, 0, len(raw.Lessons))
	seenLessons := make(map[string]bool, len(raw.Lessons))
	for _, l := range raw.Lessons {
		if seenLessons[l.ID] {
			issues = append(issues, IntegrityIssue{Entity: "lesson", EntityID: l.ID, Name: l.Name, Reason: "duplicate lesson id"})
			continue
		}
		seenLessons[l.ID] = true
		if !l.IncludeInSchedule {
			notices = append(notices, fmt.Sprintf("lesson %s (%s) excluded from scheduling", l.ID, l.Name))
			continue
		}

		valid := true
		report := func(reason string) {
			issues = append(issues, IntegrityIssue{Entity: "lesson", EntityID: l.ID, Name: l.Name, Reason: reason})
			valid = false
		}
		if l.WeeklyHours <= 0 {
			report(fmt.Sprintf("weekly hours must be positive, got %d", l.WeeklyHours))
		}
		teacherID := ""
		switch owners := assigned[l.ID]; len(owners) {
		case 0:
			report("no teacher assigned")
		case 1:
			teacherID = owners[0]
			if _, ok := teacherIndex[teacherID]; !ok {
				report(fmt.Sprintf("assigned teacher %q does not exist", teacherID))
			}
		default:
			report(fmt.Sprintf("assigned to %d teachers, expected exactly one", len(owners)))
		}
		var typeIDs []string
		for _, typeID := range l.SuitableRoomTypeIDs {
			if !roomTypes[typeID] {
				report(fmt.Sprintf("unknown room type %q", typeID))
				continue
			}
			if !containsString(typeIDs, typeID) {
				typeIDs = append(typeIDs, typeID)
			}
		}
		if !valid {
			continue
		}
		lessons = append(lessons, LessonDemand{
			ID:                        l.ID,
			Name:                      l.Name,
			ClassID:                   l.ClassID,
			TeacherID:                 teacherID,
			WeeklyHours:               l.WeeklyHours,
			Splittable:                l.Splittable,
			IncludeInSchedule:         true,
			RequiresMultipleResources: l.RequiresMultipleResources,
			SuitableRoomTypeIDs:       typeIDs,
		})
	}

	for _, u := range raw.Unavailability {
		idx, ok := teacherIndex[u.TeacherID]
		if !ok {
			notices = append(notices, fmt.Sprintf("unavailability for unknown teacher %s ignored", u.TeacherID))
			continue
		}
		if u.Day < 1 || u.Day > grid.DaysPerWeek || u.Period < 1 || u.Period > grid.HoursPerDay {
			notices = append(notices, fmt.Sprintf("unavailability for teacher %s at day %d period %d is outside the grid", u.TeacherID, u.Day, u.Period))
			continue
		}
		teachers[idx].Unavailable[Slot{Day: u.Day, Period: u.Period}] = true
	}

	if len(issues) > 0 {
		return nil, notices, &DataIntegrityError{Issues: issues}
	}

	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	return &SchedulerInput{
		Lessons:            lessons,
		Teachers:           teachers,
		Rooms:              rooms,
		HoursPerDay:        grid.HoursPerDay,
		DaysPerWeek:        grid.DaysPerWeek,
		MultiResourceRooms: grid.MultiResourceRooms,
	}, notices, nil
}

func (in *SchedulerInput) gridConfig() GridConfig {
	return GridConfig{DaysPerWeek: in.DaysPerWeek, HoursPerDay: in.HoursPerDay, MultiResourceRooms: in.MultiResourceRooms}
}

// normalized returns a shallow copy of the input with zero grid dimensions replaced by defaults.
func (in *SchedulerInput) normalized() *SchedulerInput {
	grid := in.gridConfig().withDefaults()
	out := *in
	out.DaysPerWeek = grid.DaysPerWeek
	out.HoursPerDay = grid.HoursPerDay
	out.MultiResourceRooms = grid.MultiResourceRooms
	return &out
}

// Check reports the problems that would make an attempt over the input meaningless: grid
// dimensions out of range, duplicate ids, rooms without a type and lessons pointing at teachers
// that are not part of the input. A room type with no rooms is not an error; its lessons stay
// unassigned. Inputs built by Assemble always pass.
func (in *SchedulerInput) Check() error {
	issues := in.gridConfig().issues()

	teachers := make(map[string]bool, len(in.Teachers))
	for _, t := range in.Teachers {
		if teachers[t.ID] {
			issues = append(issues, IntegrityIssue{Entity: "teacher", EntityID: t.ID, Name: t.Name, Reason: "duplicate teacher id"})
		}
		teachers[t.ID] = true
	}
	rooms := make(map[string]bool, len(in.Rooms))
	for _, r := range in.Rooms {
		if rooms[r.ID] {
			issues = append(issues, IntegrityIssue{Entity: "room", EntityID: r.ID, Name: r.Name, Reason: "duplicate room id"})
		}
		rooms[r.ID] = true
		if r.RoomTypeID == "" {
			issues = append(issues, IntegrityIssue{Entity: "room", EntityID: r.ID, Name: r.Name, Reason: "missing room type"})
		}
	}

	lessons := make(map[string]bool, len(in.Lessons))
	for _, l := range in.Lessons {
		report := func(reason string) {
			issues = append(issues, IntegrityIssue{Entity: "lesson", EntityID: l.ID, Name: l.Name, Reason: reason})
		}
		if lessons[l.ID] {
			report("duplicate lesson id")
		}
		lessons[l.ID] = true
		if !l.IncludeInSchedule {
			continue
		}
		if l.WeeklyHours <= 0 {
			report(fmt.Sprintf("weekly hours must be positive, got %d", l.WeeklyHours))
		}
		if !teachers[l.TeacherID] {
			report(fmt.Sprintf("assigned teacher %q does not exist", l.TeacherID))
		}
	}

	if len(issues) > 0 {
		return &DataIntegrityError{Issues: issues}
	}
	return nil
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
