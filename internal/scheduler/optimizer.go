package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MinAttempts = 1
	MaxAttempts = 500
)

// ClampAttempts bounds a caller supplied attempt count to [MinAttempts, MaxAttempts].
func ClampAttempts(n int) int {
	if n < MinAttempts {
		return MinAttempts
	}
	if n > MaxAttempts {
		return MaxAttempts
	}
	return n
}

// OptimizerConfig governs the multi-start search.
type OptimizerConfig struct {
	Weights Weights
	Workers int
}

// Optimizer runs independent attempts and keeps the best scoring one.
type Optimizer struct {
	weights Weights
	workers int
	logger  *zap.Logger

	// attemptDone runs inside the attempt goroutine once an attempt has been scored. Tests use it.
	attemptDone func(index int)
}

// NewOptimizer validates the weights and applies defaults for zero values.
func NewOptimizer(cfg OptimizerConfig, logger *zap.Logger) (*Optimizer, error) {
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{weights: cfg.Weights, workers: cfg.Workers, logger: logger}, nil
}

type attemptOutcome struct {
	index   int
	result  AttemptResult
	fitness Fitness
}

// Run assembles the raw records and generates a schedule. A data integrity failure aborts the
// run before any attempt is made.
func (o *Optimizer) Run(ctx context.Context, raw RawInput, grid GridConfig, numAttempts int, seed int64) *BestResult {
	input, notices, err := Assemble(raw, grid)
	logs := make([]string, 0, len(notices)+1)
	for _, notice := range notices {
		logs = append(logs, "assembler: "+notice)
	}
	if err != nil {
		var integrity *DataIntegrityError
		if errors.As(err, &integrity) {
			logs = append(logs, fmt.Sprintf("aborted: %d data integrity issues", len(integrity.Issues)))
		}
		o.logger.Warn("timetable input rejected", zap.Error(err))
		return &BestResult{Success: false, Seed: seed, Logs: logs, Error: err}
	}
	logs = append(logs, fmt.Sprintf("assembler: %d lessons, %d teachers, %d rooms on a %dx%d grid",
		len(input.Lessons), len(input.Teachers), len(input.Rooms), input.DaysPerWeek, input.HoursPerDay))

	result := o.Generate(ctx, input, numAttempts, seed)
	result.Logs = append(logs, result.Logs...)
	return result
}

// Generate runs numAttempts independent attempts (clamped to [1, 500]) and returns the best one.
// Attempt i is seeded with seed+i so a run is reproducible regardless of execution order.
// Zero grid dimensions take the Assemble defaults and an input failing Check is rejected with a
// *DataIntegrityError before any attempt runs.
func (o *Optimizer) Generate(ctx context.Context, input *SchedulerInput, numAttempts int, seed int64) *BestResult {
	attempts := ClampAttempts(numAttempts)
	logs := []string{fmt.Sprintf("running %d attempts with seed %d on %d workers", attempts, seed, o.workers)}
	if input == nil {
		return &BestResult{Success: false, Attempts: attempts, Seed: seed, Logs: logs, Error: errors.New("scheduler input is nil")}
	}
	input = input.normalized()
	if err := input.Check(); err != nil {
		var integrity *DataIntegrityError
		if errors.As(err, &integrity) {
			logs = append(logs, fmt.Sprintf("aborted: %d data integrity issues", len(integrity.Issues)))
		}
		o.logger.Warn("timetable input rejected", zap.Error(err))
		return &BestResult{Success: false, Seed: seed, Logs: logs, Error: err}
	}

	started := time.Now()
	engine := NewEngine(input)
	outcomes := make([]*attemptOutcome, attempts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := 0; i < attempts; i++ {
		if gctx.Err() != nil {
			break
		}
		index := i
		g.Go(func() (err error) {
			if gctx.Err() != nil {
				return nil
			}
			defer func() {
				if r := recover(); r != nil {
					err = &EngineFailureError{Attempt: index, Cause: r}
				}
			}()
			result := engine.Attempt(rand.New(rand.NewSource(seed + int64(index))))
			outcomes[index] = &attemptOutcome{
				index:   index,
				result:  result,
				fitness: Evaluate(input, result, o.weights),
			}
			if o.attemptDone != nil {
				o.attemptDone(index)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logs = append(logs, fmt.Sprintf("run failed: %v", err))
		o.logger.Error("timetable attempt failed", zap.Error(err))
		return &BestResult{Success: false, Attempts: attempts, Seed: seed, Logs: logs, Error: err}
	}

	var best *attemptOutcome
	completed := 0
	for _, outcome := range outcomes {
		if outcome == nil {
			continue
		}
		completed++
		logs = append(logs, fmt.Sprintf("attempt %d: score=%.2f unassigned=%d variance=%.2f gaps=%d",
			outcome.index, outcome.fitness.Score, outcome.fitness.UnassignedHours, outcome.fitness.WorkloadVariance, outcome.fitness.TotalGaps))
		if best == nil || better(outcome, best) {
			best = outcome
		}
	}

	if best == nil {
		err := ctx.Err()
		if err == nil {
			err = errors.New("no attempt completed")
		}
		logs = append(logs, fmt.Sprintf("run cancelled before any attempt completed: %v", err))
		return &BestResult{Success: false, Attempts: attempts, Seed: seed, Logs: logs, Error: err}
	}
	if completed < attempts {
		logs = append(logs, fmt.Sprintf("run cancelled after %d of %d attempts", completed, attempts))
	}
	logs = append(logs, fmt.Sprintf("selected attempt %d: score=%.2f unassigned=%d variance=%.2f gaps=%d",
		best.index, best.fitness.Score, best.fitness.UnassignedHours, best.fitness.WorkloadVariance, best.fitness.TotalGaps))

	o.logger.Info("timetable generated",
		zap.Int("attempts", completed),
		zap.Int("best_attempt", best.index),
		zap.Float64("fitness", best.fitness.Score),
		zap.Int("unassigned_hours", best.fitness.UnassignedHours),
		zap.Duration("elapsed", time.Since(started)),
	)

	return &BestResult{
		Success:              true,
		Schedule:             best.result.Schedule,
		UnassignedLessons:    best.result.Unassigned,
		FitnessScore:         best.fitness.Score,
		WorkloadVariance:     best.fitness.WorkloadVariance,
		TotalGaps:            best.fitness.TotalGaps,
		TotalUnassignedHours: best.fitness.UnassignedHours,
		AttemptIndex:         best.index,
		Attempts:             completed,
		Seed:                 seed,
		Logs:                 logs,
	}
}

// better orders outcomes by score, then unassigned hours, then attempt index.
func better(a, b *attemptOutcome) bool {
	if a.fitness.Score != b.fitness.Score {
		return a.fitness.Score < b.fitness.Score
	}
	if a.fitness.UnassignedHours != b.fitness.UnassignedHours {
		return a.fitness.UnassignedHours < b.fitness.UnassignedHours
	}
	return a.index < b.index
}
