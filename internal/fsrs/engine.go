package fsrs

import (
	"fmt"
	"math"
	"time"
)

// ReviewOption configures an optional field of a single ReviewCard call.
type ReviewOption func(*reviewParams)

type reviewParams struct {
	duration OptInt64
}

// WithDuration records how long the reviewer spent on this card, in
// milliseconds, in the resulting ReviewLog.
func WithDuration(d time.Duration) ReviewOption {
	return func(p *reviewParams) { p.duration = Int64(d.Milliseconds()) }
}

// ReviewCardNow reviews card with the Scheduler's configured Clock.
func (s *Scheduler) ReviewCardNow(card Card, rating Rating, opts ...ReviewOption) (Card, ReviewLog, error) {
	return s.ReviewCard(card, rating, s.clock.Now(), opts...)
}

// ReviewCard consumes (Scheduler, Card, rating, review time) and produces the
// updated Card and the ReviewLog for this review. It is a pure function of
// its inputs except for reads of the Scheduler's RandSource when fuzzing is
// enabled and the transition lands in Review.
func (s *Scheduler) ReviewCard(card Card, rating Rating, t time.Time, opts ...ReviewOption) (Card, ReviewLog, error) {
	if !rating.valid() {
		return Card{}, ReviewLog{}, fmt.Errorf("%w: rating %d out of range", ErrContractViolation, int(rating))
	}

	var p reviewParams
	for _, opt := range opts {
		opt(&p)
	}

	stability, difficulty := s.nextMemoryState(card, rating, t)

	newState, newStep, intervalMinutes := s.transition(card, rating, stability)

	if newState == Review && s.enableFuzzing {
		days := int(math.Round(intervalMinutes / 1440.0))
		days = fuzzIntervalDays(s.rand, s.maximumInterval, days)
		intervalMinutes = float64(days) * 1440.0
	}

	due := t.Add(time.Duration(math.Round(intervalMinutes)) * time.Minute)

	next := Card{
		CardID:     card.CardID,
		State:      newState,
		Step:       newStep,
		Stability:  Float64(stability),
		Difficulty: Float64(difficulty),
		Due:        due,
		LastReview: Time(t),
	}

	log := ReviewLog{
		Card:           next,
		Rating:         rating,
		ReviewDatetime: t,
		ReviewDuration: p.duration,
	}

	return next, log, nil
}

// nextMemoryState is Step 0: the memory update shared across all three
// source states.
func (s *Scheduler) nextMemoryState(card Card, rating Rating, t time.Time) (stability, difficulty float64) {
	if !card.Stability.Valid && !card.Difficulty.Valid {
		return initialStability(rating), initialDifficulty(rating)
	}

	d := 1.0
	if card.Difficulty.Valid {
		d = card.Difficulty.Value
	}

	elapsed, lessThanADay := daysSinceLastReview(card, t)
	if lessThanADay {
		return shortTermStability(s.parameters, card.Stability.Value, rating), nextDifficulty(s.parameters, d, rating)
	}

	r := retrievability(elapsed, card.Stability.Value)
	return nextStability(s.parameters, d, card.Stability.Value, r, rating), nextDifficulty(s.parameters, d, rating)
}

// daysSinceLastReview is the floor difference, in whole calendar days,
// between t and card.LastReview. When LastReview is absent it reports "not
// less than one day" so branching falls through to the long-term path; that
// path is never actually taken for a card with no last review, because the
// first-review branch in nextMemoryState is checked first.
func daysSinceLastReview(card Card, t time.Time) (days float64, lessThanADay bool) {
	if !card.LastReview.Valid {
		return math.Inf(1), false
	}
	days = math.Floor(t.Sub(card.LastReview.Value).Hours() / 24.0)
	return days, days < 1
}

// transition is Step 1: the state-specific dispatch that determines the
// next state, next step, and raw next interval in minutes.
func (s *Scheduler) transition(card Card, rating Rating, stability float64) (State, OptInt, float64) {
	switch card.State {
	case Learning:
		return s.stepTransition(card.Step, rating, s.learningSteps, Learning, stability)
	case Relearning:
		return s.stepTransition(card.Step, rating, s.relearningSteps, Relearning, stability)
	case Review:
		return s.reviewTransition(rating, stability)
	default:
		return card.State, card.Step, float64(intervalForStabilityDays(s.desiredRetention, s.maximumInterval, stability)) * 1440.0
	}
}

func (s *Scheduler) intervalForStabilityMinutes(stability float64) float64 {
	return float64(intervalForStabilityDays(s.desiredRetention, s.maximumInterval, stability)) * 1440.0
}

// stepTransition implements the step-table walk shared by Learning and
// Relearning, for every rating including "again".
func (s *Scheduler) stepTransition(step OptInt, rating Rating, steps []time.Duration, stayState State, stability float64) (State, OptInt, float64) {
	n := len(steps)
	if n == 0 {
		return Review, OptInt{}, s.intervalForStabilityMinutes(stability)
	}

	k := 0
	if step.Valid {
		k = step.Value
	}
	// A persisted step can point past the end of the table when the step
	// configuration shrank between reviews.
	if k >= n {
		k = n - 1
	}

	switch rating {
	case Again:
		if k+1 == n {
			return Review, OptInt{}, s.intervalForStabilityMinutes(stability)
		}
		return stayState, Int(0), minutesOf(steps[0])
	case Hard:
		return stayState, Int(k), hardStepMinutes(k, steps)
	case Good:
		if k+1 >= n {
			return Review, OptInt{}, s.intervalForStabilityMinutes(stability)
		}
		return stayState, Int(k + 1), minutesOf(steps[k+1])
	case Easy:
		return Review, OptInt{}, s.intervalForStabilityMinutes(stability)
	}
	return stayState, Int(k), minutesOf(steps[k])
}

// Note on relearning "again": stepTransition resets to step 0 rather than
// advancing, for Learning and Relearning alike. Review is only reached when
// step+1 equals the table length, which given the reset is unreachable
// whenever the table has more than one entry and the card keeps lapsing; a
// single-entry relearning table reaches Review on the very first "again".
// See DESIGN.md for the rationale.
func (s *Scheduler) reviewTransition(rating Rating, stability float64) (State, OptInt, float64) {
	if rating == Again {
		if len(s.relearningSteps) == 0 {
			return Review, OptInt{}, s.intervalForStabilityMinutes(stability)
		}
		return Relearning, Int(0), minutesOf(s.relearningSteps[0])
	}
	return Review, OptInt{}, s.intervalForStabilityMinutes(stability)
}

func minutesOf(d time.Duration) float64 {
	return d.Minutes()
}

// hardStepMinutes mirrors the "hard" interval rule shared by Learning and
// Relearning: at step 0 with a single-entry table it is 1.5x that entry; at
// step 0 with two or more entries it is the average of the first two; past
// step 0 it is just the current step's own duration.
func hardStepMinutes(step int, steps []time.Duration) float64 {
	if step == 0 {
		switch {
		case len(steps) == 1:
			return steps[0].Minutes() * 1.5
		case len(steps) >= 2:
			return (steps[0].Minutes() + steps[1].Minutes()) / 2.0
		}
	}
	return steps[step].Minutes()
}
