package sweepgo

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/hupe1980/sweepgo/dataset"
	"github.com/hupe1980/sweepgo/worker"
)

// Order selects how the scheduler interleaves level and repeat progression.
type Order uint8

const (
	// OrderRepeatsFirst exhausts the repeat range at each level before
	// advancing to the next level.
	OrderRepeatsFirst Order = iota
	// OrderLevelFirst exhausts the level range at each repeat count before
	// adding repeats.
	OrderLevelFirst
	// OrderAlternating interleaves level and repeat steps so cheap refinements
	// in either direction come first.
	OrderAlternating
)

// RunState describes the outcome of one scheduled sweep run.
type RunState uint8

const (
	// StatePending - the run has not been dispatched yet.
	StatePending RunState = iota
	// StateDispatched - the run is executing.
	StateDispatched
	// StateCached - the run was served whole from the result cache.
	StateCached
	// StateComputed - the run executed and assembled, but its commit to the
	// result cache failed or result caching was disabled.
	StateComputed
	// StateCommitted - the run executed, assembled and committed.
	StateCommitted
	// StateAborted - the run failed; the schedule stopped at this run.
	StateAborted
)

// String implements fmt.Stringer.
func (s RunState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDispatched:
		return "dispatched"
	case StateCached:
		return "cached"
	case StateComputed:
		return "computed"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("runstate(%d)", uint8(s))
	}
}

// Benchmark pairs a sweep configuration with the worker that computes it.
type Benchmark struct {
	Name   string
	Config *Config
	Worker *worker.Adapter
}

// RunResult is the outcome of one (benchmark, level, repeats) run.
type RunResult struct {
	Benchmark string
	Level     int
	Repeats   int
	State     RunState
	Dataset   *dataset.Dataset
	Samples   int
	Hits      int
	Err       error
}

// Scheduler drives registered benchmarks through progressively finer sweeps:
// coarse low-level grids first, refined high-level grids later. Because the
// sample cache reuses coordinates shared across levels, each refinement pays
// only for the samples it adds.
type Scheduler struct {
	sweeper    *Sweeper
	benchmarks []Benchmark

	minLevel, maxLevel   int
	minRepeat, maxRepeat int
	order                Order
}

// SchedulerOption configures Scheduler constructor behavior.
type SchedulerOption func(*Scheduler)

// WithLevels sets the inclusive level progression range. Defaults to a single
// run at level 1.
func WithLevels(min, max int) SchedulerOption {
	return func(s *Scheduler) {
		s.minLevel, s.maxLevel = min, max
	}
}

// WithRepeatRange sets the inclusive repeat progression range. Defaults to a
// single repeat.
func WithRepeatRange(min, max int) SchedulerOption {
	return func(s *Scheduler) {
		s.minRepeat, s.maxRepeat = min, max
	}
}

// WithOrder sets the level/repeat interleaving. Defaults to repeats-first.
func WithOrder(order Order) SchedulerOption {
	return func(s *Scheduler) { s.order = order }
}

// NewScheduler creates a Scheduler over the given Sweeper.
func NewScheduler(sweeper *Sweeper, optFns ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		sweeper:   sweeper,
		minLevel:  1,
		maxLevel:  1,
		minRepeat: 1,
		maxRepeat: 1,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Register adds a benchmark to the schedule. Registration order is preserved
// within each (level, repeats) step.
func (s *Scheduler) Register(name string, cfg *Config, w *worker.Adapter) {
	s.benchmarks = append(s.benchmarks, Benchmark{Name: name, Config: cfg, Worker: w})
}

type combo struct {
	level   int
	repeats int
}

// combos enumerates the (level, repeats) progression in the configured order.
func (s *Scheduler) combos() []combo {
	var out []combo
	for l := s.minLevel; l <= s.maxLevel; l++ {
		for r := s.minRepeat; r <= s.maxRepeat; r++ {
			out = append(out, combo{level: l, repeats: r})
		}
	}

	switch s.order {
	case OrderLevelFirst:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].repeats != out[j].repeats {
				return out[i].repeats < out[j].repeats
			}
			return out[i].level < out[j].level
		})
	case OrderAlternating:
		sort.SliceStable(out, func(i, j int) bool {
			di := (out[i].level - s.minLevel) + (out[i].repeats - s.minRepeat)
			dj := (out[j].level - s.minLevel) + (out[j].repeats - s.minRepeat)
			if di != dj {
				return di < dj
			}
			return out[i].level < out[j].level
		})
	default: // OrderRepeatsFirst: the enumeration order above.
	}
	return out
}

// Run executes the full schedule. On the first failing run it stops and
// returns the results collected so far, the failed run included, together
// with the error.
func (s *Scheduler) Run(ctx context.Context) ([]RunResult, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	logger := s.sweeper.opts.logger.WithRun(uuid.NewString())
	combos := s.combos()

	logger.Info("schedule started",
		"benchmarks", len(s.benchmarks),
		"steps", len(combos),
		"levels", fmt.Sprintf("%d-%d", s.minLevel, s.maxLevel),
		"repeats", fmt.Sprintf("%d-%d", s.minRepeat, s.maxRepeat),
	)

	results := make([]RunResult, 0, len(combos)*len(s.benchmarks))
	for _, c := range combos {
		for _, b := range s.benchmarks {
			if err := ctx.Err(); err != nil {
				return results, err
			}

			logger.Debug("run state",
				"benchmark", b.Name,
				"level", c.level,
				"repeats", c.repeats,
				"state", StateDispatched.String(),
			)

			cfg := b.Config.withRepeats(c.repeats)
			ds, report, err := s.sweeper.run(ctx, cfg, b.Worker, c.level)

			res := RunResult{
				Benchmark: b.Name,
				Level:     c.level,
				Repeats:   c.repeats,
				Dataset:   ds,
				Samples:   report.samples,
				Hits:      report.hits,
				Err:       err,
			}
			switch {
			case err != nil:
				res.State = StateAborted
			case report.cached:
				res.State = StateCached
			case report.committed:
				res.State = StateCommitted
			default:
				res.State = StateComputed
			}
			results = append(results, res)

			if err != nil {
				logger.Error("schedule aborted",
					"benchmark", b.Name,
					"level", c.level,
					"repeats", c.repeats,
					"error", err,
				)
				return results, fmt.Errorf("schedule: benchmark %s at level %d, repeats %d: %w", b.Name, c.level, c.repeats, err)
			}
		}
	}

	logger.Info("schedule completed", "runs", len(results))
	return results, nil
}

func (s *Scheduler) validate() error {
	if len(s.benchmarks) == 0 {
		return &ConfigError{Field: "Benchmarks", Reason: "no benchmarks registered"}
	}
	if s.minLevel > s.maxLevel {
		return &ConfigError{Field: "Levels", Reason: "min level exceeds max level"}
	}
	if s.minRepeat < 1 {
		return &ConfigError{Field: "Repeats", Reason: "min repeats must be at least 1"}
	}
	if s.minRepeat > s.maxRepeat {
		return &ConfigError{Field: "Repeats", Reason: "min repeats exceeds max repeats"}
	}
	for _, b := range s.benchmarks {
		if b.Config == nil || b.Worker == nil {
			return &ConfigError{Field: "Benchmarks", Reason: "benchmark " + b.Name + " is missing a config or worker"}
		}
	}
	return nil
}
