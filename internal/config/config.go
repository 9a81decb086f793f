// Package config loads knolcards' Scheduler and reconciler configuration by
// layering a YAML file, environment variables, and command-line flags, in
// that increasing order of precedence, using koanf the way its own
// documented examples compose providers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/knolcards/internal/fsrs"
)

// envPrefix is stripped and lower-cased by koanf's env provider, so
// KNOLCARDS_DESIRED_RETENTION becomes the key "desired_retention".
const envPrefix = "KNOLCARDS_"

// Options is the validated, typed configuration that feeds fsrs.NewScheduler
// plus the reconciler and server settings layered around it. Struct tags
// drive go-playground/validator; the parameter-count check (must be exactly
// 19) isn't expressible as a tag and is done by hand in Validate, mirroring
// fsrs.NewScheduler's own contract_violation check at a higher layer.
type Options struct {
	DesiredRetention float64   `koanf:"desired_retention" validate:"gt=0,lt=1"`
	LearningSteps    []int     `koanf:"learning_steps" validate:"dive,gt=0"`
	RelearningSteps  []int     `koanf:"relearning_steps" validate:"dive,gt=0"`
	MaximumInterval  int       `koanf:"maximum_interval" validate:"gt=0"`
	EnableFuzzing    bool      `koanf:"enable_fuzzing"`
	Parameters       []float64 `koanf:"parameters"`

	Dir        string `koanf:"dir" validate:"required"`
	DBPath     string `koanf:"db" validate:"required"`
	ListenAddr string `koanf:"listen_addr" validate:"required"`
}

// Defaults mirrors fsrs.DefaultOptions plus the ambient dir/db/listen
// settings the CLI previously hard-coded as flag defaults.
func Defaults() Options {
	defaults := fsrs.DefaultOptions()
	learning := make([]int, len(defaults.LearningSteps))
	for i, d := range defaults.LearningSteps {
		learning[i] = int(d / time.Minute)
	}
	relearning := make([]int, len(defaults.RelearningSteps))
	for i, d := range defaults.RelearningSteps {
		relearning[i] = int(d / time.Minute)
	}
	return Options{
		DesiredRetention: defaults.DesiredRetention,
		LearningSteps:    learning,
		RelearningSteps:  relearning,
		MaximumInterval:  defaults.MaximumInterval,
		EnableFuzzing:    defaults.EnableFuzzing,
		Parameters:       defaults.Parameters,
		Dir:              ".",
		DBPath:           "knolcards.db",
		ListenAddr:       ":8080",
	}
}

// Load layers, in koanf's documented precedence order (later beats
// earlier): built-in Defaults, an optional YAML file at configPath, the
// KNOLCARDS_-prefixed environment, and flags already parsed into fs. An
// empty configPath is not an error; the file provider is simply skipped.
func Load(configPath string, fs *pflag.FlagSet) (Options, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(defaultsMap(defaults), "."), nil); err != nil {
		return Options{}, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Options{}, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKeyTransform), nil); err != nil {
		return Options{}, fmt.Errorf("load environment: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Options{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var opts Options
	if err := k.Unmarshal("", &opts); err != nil {
		return Options{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate runs go-playground/validator over opts and checks the one
// invariant a struct tag can't express: the parameter vector must have
// exactly 19 weights. Failures are reported as fsrs.ErrContractViolation so
// callers can errors.Is against the same sentinel the scheduler itself uses.
func Validate(opts Options) error {
	if err := validator.New().Struct(opts); err != nil {
		return fmt.Errorf("%w: %v", fsrs.ErrContractViolation, err)
	}
	if len(opts.Parameters) != 19 {
		return fmt.Errorf("%w: expected 19 parameters, got %d", fsrs.ErrContractViolation, len(opts.Parameters))
	}
	return nil
}

// SchedulerOptions converts the loaded configuration into fsrs.Options.
func (o Options) SchedulerOptions() fsrs.Options {
	learning := make([]time.Duration, len(o.LearningSteps))
	for i, m := range o.LearningSteps {
		learning[i] = time.Duration(m) * time.Minute
	}
	relearning := make([]time.Duration, len(o.RelearningSteps))
	for i, m := range o.RelearningSteps {
		relearning[i] = time.Duration(m) * time.Minute
	}
	params := make([]float64, len(o.Parameters))
	copy(params, o.Parameters)
	return fsrs.Options{
		Parameters:       params,
		DesiredRetention: o.DesiredRetention,
		LearningSteps:    learning,
		RelearningSteps:  relearning,
		MaximumInterval:  o.MaximumInterval,
		EnableFuzzing:    o.EnableFuzzing,
	}
}

// defaultsMap renders opts as the flat key/value map confmap.Provider wants,
// matching the koanf tags on Options.
func defaultsMap(opts Options) map[string]any {
	return map[string]any{
		"desired_retention": opts.DesiredRetention,
		"learning_steps":    opts.LearningSteps,
		"relearning_steps":  opts.RelearningSteps,
		"maximum_interval":  opts.MaximumInterval,
		"enable_fuzzing":    opts.EnableFuzzing,
		"parameters":        opts.Parameters,
		"dir":               opts.Dir,
		"db":                opts.DBPath,
		"listen_addr":       opts.ListenAddr,
	}
}

// envKeyTransform turns KNOLCARDS_DESIRED_RETENTION into "desired_retention",
// koanf's documented pattern for env.Provider's transform function. Keys keep
// their underscores because the koanf tags on Options use them verbatim.
func envKeyTransform(key, value string) (string, any) {
	return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
}
