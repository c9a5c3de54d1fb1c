package fit

import (
	"log/slog"
	"runtime"
)

// config collects fitting options.
type config struct {
	workers  int
	logger   *slog.Logger
	start    []float64
	maxEvals int
	logEvery int
}

// Option mutates the fitting configuration.
type Option func(*config)

func defaultConfig() config {
	return config{
		workers:  runtime.NumCPU(),
		maxEvals: 10000,
		logEvery: 1000,
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithWorkers sets the number of concurrent voxel fits in FitVolume.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithLogger sets a logger for coarse progress reporting. Without it
// the fit is silent.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithStart overrides the model's default initial values. The vector
// must match the model's free parameter count.
func WithStart(x []float64) Option {
	return func(cfg *config) {
		cfg.start = x
	}
}

// WithMaxEvals limits the number of objective evaluations per fit.
func WithMaxEvals(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxEvals = n
		}
	}
}
