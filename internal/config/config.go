// Package config loads tvdip settings from defaults, an optional YAML file
// and TVDIP_* environment variables, in that order of precedence (lowest
// first). Command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-tvd/dsp/meanshift"
	"github.com/cwbudde/algo-tvd/dsp/tvd"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TVDIP_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full tvdip configuration.
type Config struct {
	// Method selects the denoiser: total-variation path, bilateral
	// mean-shift or cluster mean-shift.
	Method    string          `yaml:"method" validate:"oneof=tvd bilateral cluster"`
	Bilateral BilateralConfig `yaml:"bilateral"`
	Cluster   ClusterConfig   `yaml:"cluster"`
	Solver    SolverConfig    `yaml:"solver"`
	Path      PathConfig      `yaml:"path"`
	Log       LogConfig       `yaml:"log"`
	Batch     BatchConfig     `yaml:"batch"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Method names.
const (
	MethodTVD       = "tvd"
	MethodBilateral = "bilateral"
	MethodCluster   = "cluster"
)

// SolverConfig mirrors tvd.Config.
type SolverConfig struct {
	Tolerance     float64 `yaml:"tolerance" validate:"gt=0"`
	MaxIterations int     `yaml:"max_iterations" validate:"gte=1,lte=100000"`
}

// BilateralConfig mirrors meanshift.BilateralConfig.
type BilateralConfig struct {
	Kernel        string  `yaml:"kernel" validate:"oneof=hard soft"`
	Beta          float64 `yaml:"beta" validate:"gte=0"`
	Width         int     `yaml:"width" validate:"gte=0"`
	StopTol       float64 `yaml:"stop_tol" validate:"gte=0"`
	MaxIterations int     `yaml:"max_iterations" validate:"gte=1,lte=100000"`
}

// ClusterConfig mirrors meanshift.ClusterConfig. K = 0 selects mean-shift
// mode.
type ClusterConfig struct {
	K             int     `yaml:"k" validate:"gte=0"`
	Kernel        string  `yaml:"kernel" validate:"oneof=hard soft"`
	Beta          float64 `yaml:"beta" validate:"gte=0"`
	Biased        bool    `yaml:"biased"`
	StopTol       float64 `yaml:"stop_tol" validate:"gte=0"`
	MaxIterations int     `yaml:"max_iterations" validate:"gte=1,lte=100000"`
	Seed          int64   `yaml:"seed"`
}

// PathConfig selects the λ values to solve. Explicit Lambdas win; without
// them Steps values are spaced geometrically below lambda_max down to
// MinRatio·lambda_max.
type PathConfig struct {
	Lambdas  []float64 `yaml:"lambdas" validate:"omitempty,dive,gt=0"`
	Relative bool      `yaml:"relative"` // Lambdas are fractions of lambda_max
	Steps    int       `yaml:"steps" validate:"gte=0,lte=1000"`
	MinRatio float64   `yaml:"min_ratio" validate:"gt=0,lt=1"`
}

// LogConfig selects slog level and format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// BatchConfig bounds the number of traces solved concurrently. Zero uses
// one worker per CPU.
type BatchConfig struct {
	Workers int `yaml:"workers" validate:"gte=0,lte=1024"`
}

// MetricsConfig enables the Prometheus textfile export when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() Config {
	solver := tvd.DefaultConfig()
	bil := meanshift.DefaultBilateralConfig()
	clu := meanshift.DefaultClusterConfig()
	return Config{
		Method: MethodTVD,
		Bilateral: BilateralConfig{
			Kernel:        bil.Kernel.String(),
			Beta:          bil.Beta,
			Width:         bil.Width,
			StopTol:       bil.StopTol,
			MaxIterations: bil.MaxIter,
		},
		Cluster: ClusterConfig{
			K:             clu.K,
			Kernel:        clu.Kernel.String(),
			Beta:          clu.Beta,
			Biased:        clu.Biased,
			StopTol:       clu.StopTol,
			MaxIterations: clu.MaxIter,
			Seed:          clu.Seed,
		},
		Solver: SolverConfig{
			Tolerance:     solver.Tolerance,
			MaxIterations: solver.MaxIterations,
		},
		Path: PathConfig{
			Steps:    10,
			MinRatio: 0.01,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when
// path is empty) and the environment, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file keeps the defaults
		}
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = i
		}
	}

	str("METHOD", &cfg.Method)
	float("TOLERANCE", &cfg.Solver.Tolerance)
	integer("MAX_ITERATIONS", &cfg.Solver.MaxIterations)
	integer("STEPS", &cfg.Path.Steps)
	float("MIN_RATIO", &cfg.Path.MinRatio)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	integer("WORKERS", &cfg.Batch.Workers)
	str("METRICS_TEXTFILE", &cfg.Metrics.Textfile)

	if v, ok := lookup(EnvPrefix + "LAMBDAS"); ok && v != "" {
		lambdas, err := ParseLambdas(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sLAMBDAS: %w", EnvPrefix, err))
		} else {
			cfg.Path.Lambdas = lambdas
		}
	}
	if v, ok := lookup(EnvPrefix + "RELATIVE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sRELATIVE: %w", EnvPrefix, err))
		} else {
			cfg.Path.Relative = b
		}
	}
	return errors.Join(errs...)
}

// ParseLambdas parses a comma- or space-separated list of λ values.
func ParseLambdas(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(c.Path.Lambdas) == 0 && c.Path.Steps == 0 {
		return fmt.Errorf("%w: path needs lambdas or steps > 0", ErrInvalid)
	}
	for _, l := range c.Path.Lambdas {
		if math.IsInf(l, 0) || math.IsNaN(l) {
			return fmt.Errorf("%w: lambda %v is not finite", ErrInvalid, l)
		}
	}
	for name, v := range map[string]float64{
		"bilateral beta":     c.Bilateral.Beta,
		"bilateral stop_tol": c.Bilateral.StopTol,
		"cluster beta":       c.Cluster.Beta,
		"cluster stop_tol":   c.Cluster.StopTol,
	} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: %s %v is not finite", ErrInvalid, name, v)
		}
	}
	return nil
}

// BilateralOptions converts the bilateral section to meanshift settings.
func (c Config) BilateralOptions() (meanshift.BilateralConfig, error) {
	k, err := meanshift.ParseKernel(c.Bilateral.Kernel)
	if err != nil {
		return meanshift.BilateralConfig{}, err
	}
	return meanshift.BilateralConfig{
		Kernel:  k,
		Beta:    c.Bilateral.Beta,
		Width:   c.Bilateral.Width,
		StopTol: c.Bilateral.StopTol,
		MaxIter: c.Bilateral.MaxIterations,
	}, nil
}

// ClusterOptions converts the cluster section to meanshift settings.
func (c Config) ClusterOptions() (meanshift.ClusterConfig, error) {
	k, err := meanshift.ParseKernel(c.Cluster.Kernel)
	if err != nil {
		return meanshift.ClusterConfig{}, err
	}
	return meanshift.ClusterConfig{
		K:       c.Cluster.K,
		Kernel:  k,
		Beta:    c.Cluster.Beta,
		Biased:  c.Cluster.Biased,
		StopTol: c.Cluster.StopTol,
		MaxIter: c.Cluster.MaxIterations,
		Seed:    c.Cluster.Seed,
	}, nil
}

// SolverOptions converts the solver section to tvd options.
func (c Config) SolverOptions() []tvd.Option {
	return []tvd.Option{
		tvd.WithTolerance(c.Solver.Tolerance),
		tvd.WithMaxIterations(c.Solver.MaxIterations),
	}
}

// Resolve returns the path for a signal with the given lambda_max. The
// result is in the order it will be solved.
func (p PathConfig) Resolve(lambdaMax float64) []float64 {
	if len(p.Lambdas) > 0 {
		out := make([]float64, len(p.Lambdas))
		for i, l := range p.Lambdas {
			if p.Relative {
				l *= lambdaMax
			}
			out[i] = l
		}
		return out
	}
	out := make([]float64, p.Steps)
	for i := range out {
		out[i] = lambdaMax * math.Pow(p.MinRatio, float64(i+1)/float64(p.Steps))
	}
	return out
}
