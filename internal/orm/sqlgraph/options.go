package sqlgraph

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
}

func defaultOptions() *options {
	return &options{
		logger: zap.NewNop(),
	}
}

// Option configures a Graph
type Option func(*options)

// WithLogger sets the logger used for join registration and path resolution.
// A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
