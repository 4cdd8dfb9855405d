package scheduler

import (
	"fmt"
	"sort"
)

// Weights scale the three penalty terms of the fitness score.
type Weights struct {
	Unassigned float64
	Workload   float64
	Gaps       float64
}

// DefaultWeights keep unassigned hours dominant over the aesthetic terms.
func DefaultWeights() Weights {
	return Weights{Unassigned: 1000, Workload: 1, Gaps: 1}
}

// Validate rejects negative weights and any weighting where coverage does not dominate.
func (w Weights) Validate() error {
	if w.Unassigned < 0 || w.Workload < 0 || w.Gaps < 0 {
		return fmt.Errorf("fitness weights must be non-negative")
	}
	if w.Unassigned < w.Workload || w.Unassigned < w.Gaps {
		return fmt.Errorf("unassigned weight (%.2f) must be >= workload (%.2f) and gap (%.2f) weights", w.Unassigned, w.Workload, w.Gaps)
	}
	return nil
}

// Fitness is the scored summary of one attempt. Lower Score is better.
type Fitness struct {
	Score            float64
	WorkloadVariance float64
	TotalGaps        int
	UnassignedHours  int
}

// Evaluate scores an attempt against the input it was built from.
func Evaluate(input *SchedulerInput, result AttemptResult, w Weights) Fitness {
	unassigned := 0
	for _, rem := range result.Unassigned {
		unassigned += rem.RemainingHours
	}
	variance := workloadVariance(input, result.Schedule)
	gaps := countGaps(result.Schedule)
	return Fitness{
		Score:            float64(unassigned)*w.Unassigned + variance*w.Workload + float64(gaps)*w.Gaps,
		WorkloadVariance: variance,
		TotalGaps:        gaps,
		UnassignedHours:  unassigned,
	}
}

// workloadVariance is the population variance of placed hours over teachers that own at least
// one schedulable lesson.
func workloadVariance(input *SchedulerInput, schedule Schedule) float64 {
	index := make(map[string]int)
	for _, lesson := range input.Lessons {
		if _, ok := index[lesson.TeacherID]; !ok {
			index[lesson.TeacherID] = len(index)
		}
	}
	if len(index) == 0 {
		return 0
	}
	// Summed in a fixed order so equal schedules always produce bit-identical scores.
	loads := make([]float64, len(index))
	for _, p := range schedule {
		if i, ok := index[p.TeacherID]; ok {
			loads[i]++
		}
	}
	var sum float64
	for _, v := range loads {
		sum += v
	}
	mean := sum / float64(len(loads))
	var sq float64
	for _, v := range loads {
		sq += (v - mean) * (v - mean)
	}
	return sq / float64(len(loads))
}

type dayKey struct {
	owner string
	day   int
}

// countGaps sums the empty periods strictly inside every teacher's and class's day.
func countGaps(schedule Schedule) int {
	teacherDays := make(map[dayKey][]int)
	classDays := make(map[dayKey][]int)
	for _, p := range schedule {
		tk := dayKey{owner: p.TeacherID, day: p.Day}
		teacherDays[tk] = append(teacherDays[tk], p.Period)
		ck := dayKey{owner: p.ClassID, day: p.Day}
		classDays[ck] = append(classDays[ck], p.Period)
	}
	return gapsIn(teacherDays) + gapsIn(classDays)
}

func gapsIn(days map[dayKey][]int) int {
	total := 0
	for _, periods := range days {
		if len(periods) < 2 {
			continue
		}
		sort.Ints(periods)
		distinct := 1
		for i := 1; i < len(periods); i++ {
			if periods[i] != periods[i-1] {
				distinct++
			}
		}
		total += periods[len(periods)-1] - periods[0] + 1 - distinct
	}
	return total
}
