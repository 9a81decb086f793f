package fsrs

import (
	"fmt"
	"time"
)

// defaultParameters is the published 19-weight FSRS vector, embedded
// verbatim.
var defaultParameters = []float64{
	0.40255, 1.18385, 3.173, 15.69105, 7.1949, 0.5345, 1.4604, 0.0046,
	1.54575, 0.1192, 1.01925, 1.9395, 0.11, 0.29605, 2.2698, 0.2315,
	2.9898, 0.51655, 0.6621,
}

const parameterCount = 19

// Options is the Scheduler's immutable configuration, with defaults filled
// in by DefaultOptions.
type Options struct {
	Parameters       []float64
	DesiredRetention float64
	LearningSteps    []time.Duration
	RelearningSteps  []time.Duration
	MaximumInterval  int
	EnableFuzzing    bool
}

// DefaultOptions returns the published default configuration.
func DefaultOptions() Options {
	params := make([]float64, len(defaultParameters))
	copy(params, defaultParameters)
	return Options{
		Parameters:       params,
		DesiredRetention: 0.9,
		LearningSteps:    []time.Duration{time.Minute, 10 * time.Minute},
		RelearningSteps:  []time.Duration{10 * time.Minute},
		MaximumInterval:  36500,
		EnableFuzzing:    true,
	}
}

// RandSource is the pluggable uniform-random source fuzzing draws from.
// *math/rand.Rand satisfies this interface.
type RandSource interface {
	Float64() float64
}

// Clock supplies the current time. SystemClock wires to the platform clock;
// tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler is immutable configuration plus the 19 model weights. It holds
// no mutable state itself and may be shared freely across goroutines; the
// RandSource it was built with is the only ambient mutable resource, and it
// is the caller's responsibility to serialize access to that source if it
// is not itself safe for concurrent use.
type Scheduler struct {
	parameters       []float64
	desiredRetention float64
	learningSteps    []time.Duration
	relearningSteps  []time.Duration
	maximumInterval  int
	enableFuzzing    bool
	rand             RandSource
	clock            Clock
}

// SchedulerOption configures optional Scheduler collaborators.
type SchedulerOption func(*Scheduler)

// WithClock overrides the Scheduler's default SystemClock, used only by
// ReviewCardNow.
func WithClock(c Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = c }
}

// NewScheduler validates opts and constructs a Scheduler. It fails with a
// wrapped ErrContractViolation when the parameter vector is not length 19,
// desired_retention is outside (0,1), a step table entry is non-positive,
// or maximum_interval is non-positive.
func NewScheduler(opts Options, rand RandSource, schedOpts ...SchedulerOption) (*Scheduler, error) {
	if len(opts.Parameters) != parameterCount {
		return nil, fmt.Errorf("%w: expected %d parameters, got %d", ErrContractViolation, parameterCount, len(opts.Parameters))
	}
	if !(opts.DesiredRetention > 0 && opts.DesiredRetention < 1) {
		return nil, fmt.Errorf("%w: desired_retention %v must be in (0,1)", ErrContractViolation, opts.DesiredRetention)
	}
	for i, step := range opts.LearningSteps {
		if step <= 0 {
			return nil, fmt.Errorf("%w: learning_steps[%d] = %v must be positive", ErrContractViolation, i, step)
		}
	}
	for i, step := range opts.RelearningSteps {
		if step <= 0 {
			return nil, fmt.Errorf("%w: relearning_steps[%d] = %v must be positive", ErrContractViolation, i, step)
		}
	}
	if opts.MaximumInterval <= 0 {
		return nil, fmt.Errorf("%w: maximum_interval %d must be positive", ErrContractViolation, opts.MaximumInterval)
	}
	if rand == nil {
		return nil, fmt.Errorf("%w: a RandSource is required", ErrContractViolation)
	}

	params := make([]float64, len(opts.Parameters))
	copy(params, opts.Parameters)

	s := &Scheduler{
		parameters:       params,
		desiredRetention: opts.DesiredRetention,
		learningSteps:    append([]time.Duration(nil), opts.LearningSteps...),
		relearningSteps:  append([]time.Duration(nil), opts.RelearningSteps...),
		maximumInterval:  opts.MaximumInterval,
		enableFuzzing:    opts.EnableFuzzing,
		rand:             rand,
		clock:            SystemClock{},
	}
	for _, o := range schedOpts {
		o(s)
	}
	return s, nil
}

// MaximumInterval returns the configured interval ceiling in days.
func (s *Scheduler) MaximumInterval() int { return s.maximumInterval }

// DesiredRetention returns the configured target retention probability.
func (s *Scheduler) DesiredRetention() float64 { return s.desiredRetention }

// Clock returns the Scheduler's time source, used by ReviewCardNow and by
// callers (such as internal/server) that need "now" on the same clock a
// review would use.
func (s *Scheduler) Clock() Clock { return s.clock }
