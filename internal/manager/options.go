package manager

import "context"

type options struct {
	logger Logger
	ctx    context.Context
}

// Option configures a manager.
type Option func(*options)

// WithLogger sets the logger. Managers discard logs by default.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithContext sets the context queued commands run under.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: nopLogger{}, ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
