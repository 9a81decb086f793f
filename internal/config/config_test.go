package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	opts, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.DesiredRetention != 0.9 {
		t.Errorf("DesiredRetention = %v, want 0.9", opts.DesiredRetention)
	}
	if opts.MaximumInterval != 36500 {
		t.Errorf("MaximumInterval = %v, want 36500", opts.MaximumInterval)
	}
	if len(opts.Parameters) != 19 {
		t.Errorf("len(Parameters) = %d, want 19", len(opts.Parameters))
	}
}

func TestLoad_FlagsOverrideDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dir", ".", "")
	fs.String("db", "knolcards.db", "")
	fs.String("listen_addr", ":8080", "")
	fs.Float64("desired_retention", 0.9, "")
	if err := fs.Set("desired_retention", "0.85"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	opts, err := Load("", fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.DesiredRetention != 0.85 {
		t.Errorf("DesiredRetention = %v, want 0.85 (flag override)", opts.DesiredRetention)
	}
}

func TestValidate_RejectsOutOfRangeRetention(t *testing.T) {
	opts := Defaults()
	opts.DesiredRetention = 1.5
	if err := Validate(opts); err == nil {
		t.Fatal("expected error for desired_retention out of (0,1)")
	}
}

func TestValidate_RejectsWrongParameterCount(t *testing.T) {
	opts := Defaults()
	opts.Parameters = opts.Parameters[:5]
	if err := Validate(opts); err == nil {
		t.Fatal("expected error for wrong parameter count")
	}
}

func TestSchedulerOptions_ConvertsMinutesToDurations(t *testing.T) {
	opts := Defaults()
	sched := opts.SchedulerOptions()
	if len(sched.LearningSteps) != len(opts.LearningSteps) {
		t.Fatalf("learning steps length mismatch")
	}
	if sched.LearningSteps[0].Minutes() != float64(opts.LearningSteps[0]) {
		t.Errorf("learning step 0 = %v minutes, want %v", sched.LearningSteps[0].Minutes(), opts.LearningSteps[0])
	}
}
