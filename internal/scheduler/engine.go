package scheduler

import (
	"math/rand"
)

// Engine performs single randomized constructive attempts over an immutable input.
// An Engine is safe for concurrent use; every attempt allocates its own state.
type Engine struct {
	input         *SchedulerInput
	suitableRooms map[string][]string
}

// NewEngine precomputes the room candidates of every lesson.
// Zero grid dimensions fall back to the Assemble defaults.
func NewEngine(input *SchedulerInput) *Engine {
	input = input.normalized()
	e := &Engine{
		input:         input,
		suitableRooms: make(map[string][]string, len(input.Lessons)),
	}
	for _, lesson := range input.Lessons {
		if !lesson.NeedsRoom() {
			continue
		}
		var ids []string
		for _, room := range input.Rooms {
			if containsString(lesson.SuitableRoomTypeIDs, room.RoomTypeID) {
				ids = append(ids, room.ID)
			}
		}
		e.suitableRooms[lesson.ID] = ids
	}
	return e
}

type workUnit struct {
	lesson *LessonDemand
	length int
}

type candidate struct {
	day   int
	start int
	score int
}

// Attempt builds one schedule. Infeasibility is reported through Unassigned, never as an error.
func (e *Engine) Attempt(rng *rand.Rand) AttemptResult {
	state := newAttemptState(e.input)
	units := e.workUnits()
	rng.Shuffle(len(units), func(i, j int) { units[i], units[j] = units[j], units[i] })

	remaining := make(map[string]int)
	for _, unit := range units {
		if unit.length > e.input.HoursPerDay {
			remaining[unit.lesson.ID] += unit.length
			continue
		}
		if !e.placeUnit(state, unit, rng) {
			remaining[unit.lesson.ID] += unit.length
		}
	}

	unassigned := make([]UnassignedRemainder, 0, len(remaining))
	for _, lesson := range e.input.Lessons {
		if hours := remaining[lesson.ID]; hours > 0 {
			unassigned = append(unassigned, UnassignedRemainder{
				LessonID:       lesson.ID,
				LessonName:     lesson.Name,
				RemainingHours: hours,
			})
		}
	}
	return AttemptResult{Schedule: state.schedule, Unassigned: unassigned}
}

// workUnits splits splittable lessons into one-period units and keeps the rest as whole blocks.
func (e *Engine) workUnits() []workUnit {
	var units []workUnit
	for i := range e.input.Lessons {
		lesson := &e.input.Lessons[i]
		if !lesson.IncludeInSchedule || lesson.WeeklyHours <= 0 {
			continue
		}
		if lesson.Splittable {
			for h := 0; h < lesson.WeeklyHours; h++ {
				units = append(units, workUnit{lesson: lesson, length: 1})
			}
			continue
		}
		units = append(units, workUnit{lesson: lesson, length: lesson.WeeklyHours})
	}
	return units
}

func (e *Engine) roomsNeeded(lesson *LessonDemand) int {
	if !lesson.NeedsRoom() {
		return 0
	}
	if lesson.RequiresMultipleResources {
		return maxInt(e.input.MultiResourceRooms, 1)
	}
	return 1
}

func (e *Engine) freeRooms(state *attemptState, lesson *LessonDemand, day, start, length int) []string {
	var free []string
	for _, roomID := range e.suitableRooms[lesson.ID] {
		if state.roomFree(roomID, day, start, length) {
			free = append(free, roomID)
		}
	}
	return free
}

func (e *Engine) placeUnit(state *attemptState, unit workUnit, rng *rand.Rand) bool {
	lesson := unit.lesson
	need := e.roomsNeeded(lesson)
	if need > len(e.suitableRooms[lesson.ID]) {
		return false
	}
	teacher := state.teachers[lesson.TeacherID]

	var best []candidate
	bestScore := -1
	for day := 1; day <= state.days; day++ {
		for start := 1; start+unit.length-1 <= state.periods; start++ {
			if !teacher.canTeach(day, start, unit.length) {
				continue
			}
			if !state.classFree(lesson.ClassID, day, start, unit.length) {
				continue
			}
			if need > 0 && len(e.freeRooms(state, lesson, day, start, unit.length)) < need {
				continue
			}
			c := candidate{day: day, start: start, score: state.adjacency(lesson, day, start, unit.length)}
			switch {
			case c.score > bestScore:
				bestScore = c.score
				best = append(best[:0], c)
			case c.score == bestScore:
				best = append(best, c)
			}
		}
	}
	if len(best) == 0 {
		return false
	}

	chosen := best[rng.Intn(len(best))]
	var rooms []string
	if need > 0 {
		free := e.freeRooms(state, lesson, chosen.day, chosen.start, unit.length)
		rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
		rooms = free[:need]
	}
	state.place(lesson, chosen.day, chosen.start, unit.length, rooms)
	return true
}
