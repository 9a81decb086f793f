package store

import (
	"testing"
	"time"

	"github.com/conorfennell/knolcards/internal/fsrs"
)

func TestOptConversions_RoundTrip(t *testing.T) {
	if v := optIntToSQL(fsrs.OptInt{}); v.Valid {
		t.Errorf("optIntToSQL(absent) = %+v, want invalid", v)
	}
	if v := optIntToSQL(fsrs.Int(3)); !v.Valid || v.Int64 != 3 {
		t.Errorf("optIntToSQL(3) = %+v, want valid 3", v)
	}

	if v := optFloat64ToSQL(fsrs.OptFloat64{}); v.Valid {
		t.Errorf("optFloat64ToSQL(absent) = %+v, want invalid", v)
	}
	if v := optFloat64ToSQL(fsrs.Float64(2.5)); !v.Valid || v.Float64 != 2.5 {
		t.Errorf("optFloat64ToSQL(2.5) = %+v, want valid 2.5", v)
	}

	if v := optInt64ToSQL(fsrs.OptInt64{}); v.Valid {
		t.Errorf("optInt64ToSQL(absent) = %+v, want invalid", v)
	}
	if v := optInt64ToSQL(fsrs.Int64(42)); !v.Valid || v.Int64 != 42 {
		t.Errorf("optInt64ToSQL(42) = %+v, want valid 42", v)
	}

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if v := optTimeToSQL(fsrs.OptTime{}); v.Valid {
		t.Errorf("optTimeToSQL(absent) = %+v, want invalid", v)
	}
	if v := optTimeToSQL(fsrs.Time(now)); !v.Valid || !v.Time.Equal(now) {
		t.Errorf("optTimeToSQL(now) = %+v, want valid %v", v, now)
	}
}
