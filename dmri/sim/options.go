package sim

// config collects simulation options.
type config struct {
	seed   int64
	freq   float64
	sigma  float64
	ranges map[string][2]float64
}

// Option mutates the simulation configuration.
type Option func(*config)

func defaultConfig() config {
	return config{
		seed: 1,
		freq: 0.1,
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

// WithSeed sets the seed for noise draws and phantom generation.
func WithSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.seed = seed
	}
}

// WithFrequency sets the spatial frequency of phantom parameter maps.
// Higher values vary faster across the volume.
func WithFrequency(freq float64) Option {
	return func(cfg *config) {
		if freq > 0 {
			cfg.freq = freq
		}
	}
}

// WithSigma sets the Rician noise level for dataset simulation. Zero
// leaves the signals noise free.
func WithSigma(sigma float64) Option {
	return func(cfg *config) {
		if sigma >= 0 {
			cfg.sigma = sigma
		}
	}
}

// WithRange overrides the phantom value range of one named parameter.
// Without an override the parameter's fit bounds are used.
func WithRange(name string, lo, hi float64) Option {
	return func(cfg *config) {
		if cfg.ranges == nil {
			cfg.ranges = make(map[string][2]float64)
		}
		cfg.ranges[name] = [2]float64{lo, hi}
	}
}
