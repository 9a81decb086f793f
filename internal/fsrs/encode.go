package fsrs

import (
	"fmt"
	"time"
)

const isoLayout = time.RFC3339Nano

// EncodeCard renders c as the canonical keyed-map representation: string
// keys, ISO-8601 UTC timestamps, null for absent optionals.
func EncodeCard(c Card) map[string]any {
	m := map[string]any{
		"card_id": c.CardID,
		"state":   c.State.String(),
		"due":     c.Due.UTC().Format(isoLayout),
	}
	if c.Step.Valid {
		m["step"] = c.Step.Value
	} else {
		m["step"] = nil
	}
	if c.Stability.Valid {
		m["stability"] = c.Stability.Value
	} else {
		m["stability"] = nil
	}
	if c.Difficulty.Valid {
		m["difficulty"] = c.Difficulty.Value
	} else {
		m["difficulty"] = nil
	}
	if c.LastReview.Valid {
		m["last_review"] = c.LastReview.Value.UTC().Format(isoLayout)
	} else {
		m["last_review"] = nil
	}
	return m
}

// DecodeCard parses the keyed-map representation back into a Card. It is
// tolerant of either the canonical string form or a native Go value for
// state, step, and the timestamp fields, so a map built by hand in an
// in-process caller need not round-trip through strings. State and rating
// vocabulary is always validated against the closed enumeration.
func DecodeCard(m map[string]any) (Card, error) {
	var c Card

	id, err := decodeInt64(m["card_id"])
	if err != nil {
		return Card{}, fmt.Errorf("card_id: %w", err)
	}
	c.CardID = id

	state, err := ParseState(m["state"])
	if err != nil {
		return Card{}, fmt.Errorf("state: %w", err)
	}
	c.State = state

	if v, ok := m["step"]; ok && v != nil {
		step, err := decodeInt(v)
		if err != nil {
			return Card{}, fmt.Errorf("step: %w", err)
		}
		c.Step = Int(step)
	}

	if v, ok := m["stability"]; ok && v != nil {
		f, err := decodeFloat64(v)
		if err != nil {
			return Card{}, fmt.Errorf("stability: %w", err)
		}
		c.Stability = Float64(f)
	}

	if v, ok := m["difficulty"]; ok && v != nil {
		f, err := decodeFloat64(v)
		if err != nil {
			return Card{}, fmt.Errorf("difficulty: %w", err)
		}
		c.Difficulty = Float64(f)
	}

	due, err := decodeTime(m["due"])
	if err != nil {
		return Card{}, fmt.Errorf("due: %w", err)
	}
	c.Due = due

	if v, ok := m["last_review"]; ok && v != nil {
		t, err := decodeTime(v)
		if err != nil {
			return Card{}, fmt.Errorf("last_review: %w", err)
		}
		c.LastReview = Time(t)
	}

	return c, nil
}

// EncodeReviewLog renders l as the canonical keyed-map representation.
func EncodeReviewLog(l ReviewLog) map[string]any {
	m := map[string]any{
		"card":            EncodeCard(l.Card),
		"rating":          l.Rating.String(),
		"review_datetime": l.ReviewDatetime.UTC().Format(isoLayout),
	}
	if l.ReviewDuration.Valid {
		m["review_duration"] = l.ReviewDuration.Value
	} else {
		m["review_duration"] = nil
	}
	return m
}

// DecodeReviewLog parses the keyed-map representation back into a
// ReviewLog.
func DecodeReviewLog(m map[string]any) (ReviewLog, error) {
	var l ReviewLog

	cardVal, ok := m["card"]
	if !ok {
		return ReviewLog{}, fmt.Errorf("%w: missing card", ErrInvalidFormat)
	}
	cardMap, ok := cardVal.(map[string]any)
	if !ok {
		return ReviewLog{}, fmt.Errorf("%w: card is not a map", ErrInvalidFormat)
	}
	card, err := DecodeCard(cardMap)
	if err != nil {
		return ReviewLog{}, fmt.Errorf("card: %w", err)
	}
	l.Card = card

	rating, err := ParseRating(m["rating"])
	if err != nil {
		return ReviewLog{}, fmt.Errorf("rating: %w", err)
	}
	l.Rating = rating

	dt, err := decodeTime(m["review_datetime"])
	if err != nil {
		return ReviewLog{}, fmt.Errorf("review_datetime: %w", err)
	}
	l.ReviewDatetime = dt

	if v, ok := m["review_duration"]; ok && v != nil {
		d, err := decodeInt64(v)
		if err != nil {
			return ReviewLog{}, fmt.Errorf("review_duration: %w", err)
		}
		l.ReviewDuration = Int64(d)
	}

	return l, nil
}

func decodeTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(isoLayout, t)
		if err != nil {
			if parsed, err2 := time.Parse(time.RFC3339, t); err2 == nil {
				return parsed, nil
			}
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported timestamp value %v", ErrInvalidFormat, v)
	}
}

func decodeInt(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	default:
		return 0, fmt.Errorf("%w: unsupported integer value %v", ErrInvalidFormat, v)
	}
}

func decodeInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("%w: unsupported integer value %v", ErrInvalidFormat, v)
	}
}

func decodeFloat64(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("%w: unsupported number value %v", ErrInvalidFormat, v)
	}
}
