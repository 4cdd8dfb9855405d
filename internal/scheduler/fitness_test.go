package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountGapsTeachersAndClasses(t *testing.T) {
	schedule := Schedule{}
	add := func(p Placement) { schedule[p.Key()] = p }
	add(Placement{LessonID: "math", ClassID: "10A", TeacherID: "t-1", Day: 1, Period: 1})
	add(Placement{LessonID: "math", ClassID: "10A", TeacherID: "t-1", Day: 1, Period: 3})
	add(Placement{LessonID: "bio", ClassID: "10A", TeacherID: "t-2", Day: 1, Period: 6})
	add(Placement{LessonID: "bio", ClassID: "10B", TeacherID: "t-2", Day: 2, Period: 2})

	// t-1: one gap on day 1; t-2: single periods per day; 10A: periods 1,3,6 -> 3 gaps.
	assert.Equal(t, 4, countGaps(schedule))
}

func TestWorkloadVarianceCountsIdleTeachers(t *testing.T) {
	input := &SchedulerInput{Lessons: []LessonDemand{
		{ID: "a", TeacherID: "t-1", ClassID: "10A", WeeklyHours: 2, IncludeInSchedule: true},
		{ID: "b", TeacherID: "t-2", ClassID: "10A", WeeklyHours: 2, IncludeInSchedule: true},
	}}
	schedule := Schedule{}
	for period := 1; period <= 2; period++ {
		p := Placement{LessonID: "a", ClassID: "10A", TeacherID: "t-1", Day: 1, Period: period}
		schedule[p.Key()] = p
	}
	assert.InDelta(t, 1.0, workloadVariance(input, schedule), 1e-9)
	assert.Equal(t, 0.0, workloadVariance(&SchedulerInput{}, Schedule{}))
}

func TestEvaluateWeightsTerms(t *testing.T) {
	input := &SchedulerInput{Lessons: []LessonDemand{
		{ID: "a", TeacherID: "t-1", ClassID: "10A", WeeklyHours: 3, Splittable: true, IncludeInSchedule: true},
	}}
	schedule := Schedule{}
	for _, period := range []int{1, 3} {
		p := Placement{LessonID: "a", ClassID: "10A", TeacherID: "t-1", Day: 1, Period: period}
		schedule[p.Key()] = p
	}
	result := AttemptResult{
		Schedule:   schedule,
		Unassigned: []UnassignedRemainder{{LessonID: "a", RemainingHours: 1}},
	}

	fitness := Evaluate(input, result, Weights{Unassigned: 100, Workload: 1, Gaps: 10})
	assert.Equal(t, 1, fitness.UnassignedHours)
	assert.Equal(t, 2, fitness.TotalGaps)
	assert.Equal(t, 0.0, fitness.WorkloadVariance)
	assert.Equal(t, 120.0, fitness.Score)
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Unassigned: 1, Workload: 5, Gaps: 1}.Validate())
	assert.Error(t, Weights{Unassigned: 1, Workload: 1, Gaps: 2}.Validate())
	assert.Error(t, Weights{Unassigned: 10, Workload: -1, Gaps: 1}.Validate())
}
