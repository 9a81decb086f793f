package fsrs

import "fmt"

// State is the phase a Card is in.
type State int

const (
	Learning State = iota
	Review
	Relearning
)

func (s State) String() string {
	switch s {
	case Learning:
		return "learning"
	case Review:
		return "review"
	case Relearning:
		return "relearning"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) valid() bool {
	return s >= Learning && s <= Relearning
}

// ParseState decodes a state from either its canonical string form
// ("learning", "review", "relearning") or its native integer encoding.
func ParseState(v any) (State, error) {
	switch t := v.(type) {
	case State:
		if !t.valid() {
			return 0, fmt.Errorf("%w: state %d out of range", ErrInvalidFormat, int(t))
		}
		return t, nil
	case string:
		switch t {
		case "learning":
			return Learning, nil
		case "review":
			return Review, nil
		case "relearning":
			return Relearning, nil
		default:
			return 0, fmt.Errorf("%w: unknown state %q", ErrInvalidFormat, t)
		}
	case int:
		return ParseState(State(t))
	case int64:
		return ParseState(State(t))
	case float64:
		return ParseState(State(int(t)))
	default:
		return 0, fmt.Errorf("%w: unsupported state value %v", ErrInvalidFormat, v)
	}
}
