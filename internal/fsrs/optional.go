package fsrs

import "time"

// OptInt is a nullable int, following the same Valid-flag convention the
// rest of the module uses for database/sql's sql.NullInt64 and friends.
type OptInt struct {
	Value int
	Valid bool
}

// Int wraps v as a present OptInt.
func Int(v int) OptInt { return OptInt{Value: v, Valid: true} }

// OptInt64 is a nullable int64.
type OptInt64 struct {
	Value int64
	Valid bool
}

// Int64 wraps v as a present OptInt64.
func Int64(v int64) OptInt64 { return OptInt64{Value: v, Valid: true} }

// OptFloat64 is a nullable float64.
type OptFloat64 struct {
	Value float64
	Valid bool
}

// Float64 wraps v as a present OptFloat64.
func Float64(v float64) OptFloat64 { return OptFloat64{Value: v, Valid: true} }

// OptTime is a nullable time.Time.
type OptTime struct {
	Value time.Time
	Valid bool
}

// Time wraps v as a present OptTime.
func Time(v time.Time) OptTime { return OptTime{Value: v, Valid: true} }
