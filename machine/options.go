package machine

import "go.uber.org/zap"

type runConfig[S, O any] struct {
	observer Observer[S, O]
	logger   *zap.Logger
	shards   int
}

func defaultRunConfig[S, O any]() runConfig[S, O] {
	return runConfig[S, O]{
		logger: zap.NewNop(),
		shards: 4,
	}
}

// RunOption customizes a single Run invocation.
type RunOption[S, O any] func(*runConfig[S, O])

// WithObserver installs an observer called after each completed step.
func WithObserver[S, O any](obs Observer[S, O]) RunOption[S, O] {
	return func(cfg *runConfig[S, O]) {
		cfg.observer = obs
	}
}

// WithLogger routes the run's internal logging through logger.
// Runs are silent (zap.NewNop) by default.
func WithLogger[S, O any](logger *zap.Logger) RunOption[S, O] {
	return func(cfg *runConfig[S, O]) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithRegistryShards sets the shard count of the in-flight task registry.
func WithRegistryShards[S, O any](n int) RunOption[S, O] {
	return func(cfg *runConfig[S, O]) {
		if n > 0 {
			cfg.shards = n
		}
	}
}
