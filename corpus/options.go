package corpus

import "context"

type Option func(*Options)

type Options struct {
	BatchSize int
	Context   context.Context
}

func WithBatchSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.BatchSize = size
		}
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		BatchSize: 200,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
