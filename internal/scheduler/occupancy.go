package scheduler

// grid tracks which cells of the week are taken for one resource.
type grid struct {
	periods int
	cells   []bool
}

func newGrid(days, periods int) *grid {
	return &grid{periods: periods, cells: make([]bool, days*periods)}
}

func (g *grid) index(day, period int) int {
	return (day-1)*g.periods + (period - 1)
}

func (g *grid) busy(day, period int) bool {
	return g.cells[g.index(day, period)]
}

func (g *grid) reserve(day, period int) {
	g.cells[g.index(day, period)] = true
}

// teacherAvailability combines registered unavailability with the placements of the current attempt.
type teacherAvailability struct {
	maxPerDay  int
	maxPerWeek int
	blocked    map[Slot]bool
	assigned   *grid
	perDay     []int
	weekly     int
}

func newTeacherAvailability(t Teacher, days, periods int) *teacherAvailability {
	return &teacherAvailability{
		maxPerDay:  t.MaxPerDay,
		maxPerWeek: t.MaxPerWeek,
		blocked:    t.Unavailable,
		assigned:   newGrid(days, periods),
		perDay:     make([]int, days+1),
	}
}

// canTeach reports whether a block of length periods starting at start fits the teacher.
func (t *teacherAvailability) canTeach(day, start, length int) bool {
	if t.maxPerDay > 0 && t.perDay[day]+length > t.maxPerDay {
		return false
	}
	if t.maxPerWeek > 0 && t.weekly+length > t.maxPerWeek {
		return false
	}
	for period := start; period < start+length; period++ {
		if t.blocked[Slot{Day: day, Period: period}] || t.assigned.busy(day, period) {
			return false
		}
	}
	return true
}

func (t *teacherAvailability) reserve(day, period int) {
	t.assigned.reserve(day, period)
	t.perDay[day]++
	t.weekly++
}

// attemptState is the per-attempt occupancy arena. It is never shared between attempts.
type attemptState struct {
	days     int
	periods  int
	teachers map[string]*teacherAvailability
	classes  map[string]*grid
	rooms    map[string]*grid
	schedule Schedule
}

func newAttemptState(input *SchedulerInput) *attemptState {
	s := &attemptState{
		days:     input.DaysPerWeek,
		periods:  input.HoursPerDay,
		teachers: make(map[string]*teacherAvailability, len(input.Teachers)),
		classes:  make(map[string]*grid),
		rooms:    make(map[string]*grid, len(input.Rooms)),
		schedule: make(Schedule),
	}
	for _, t := range input.Teachers {
		s.teachers[t.ID] = newTeacherAvailability(t, s.days, s.periods)
	}
	for _, r := range input.Rooms {
		s.rooms[r.ID] = newGrid(s.days, s.periods)
	}
	for _, l := range input.Lessons {
		if _, ok := s.classes[l.ClassID]; !ok {
			s.classes[l.ClassID] = newGrid(s.days, s.periods)
		}
	}
	return s
}

func (s *attemptState) classFree(classID string, day, start, length int) bool {
	class := s.classes[classID]
	for period := start; period < start+length; period++ {
		if class.busy(day, period) {
			return false
		}
	}
	return true
}

func (s *attemptState) roomFree(roomID string, day, start, length int) bool {
	room := s.rooms[roomID]
	for period := start; period < start+length; period++ {
		if room.busy(day, period) {
			return false
		}
	}
	return true
}

// adjacency counts occupied periods of the teacher or class directly around a block.
func (s *attemptState) adjacency(lesson *LessonDemand, day, start, length int) int {
	score := 0
	teacher := s.teachers[lesson.TeacherID].assigned
	class := s.classes[lesson.ClassID]
	for _, period := range []int{start - 1, start + length} {
		if period < 1 || period > s.periods {
			continue
		}
		if teacher.busy(day, period) {
			score++
		}
		if class.busy(day, period) {
			score++
		}
	}
	return score
}

func (s *attemptState) place(lesson *LessonDemand, day, start, length int, roomIDs []string) {
	teacher := s.teachers[lesson.TeacherID]
	class := s.classes[lesson.ClassID]
	for period := start; period < start+length; period++ {
		teacher.reserve(day, period)
		class.reserve(day, period)
		for _, roomID := range roomIDs {
			s.rooms[roomID].reserve(day, period)
		}
		var rooms []string
		if len(roomIDs) > 0 {
			rooms = append([]string(nil), roomIDs...)
		}
		p := Placement{
			LessonID:   lesson.ID,
			LessonName: lesson.Name,
			ClassID:    lesson.ClassID,
			Day:        day,
			Period:     period,
			TeacherID:  lesson.TeacherID,
			RoomIDs:    rooms,
		}
		s.schedule[p.Key()] = p
	}
}
