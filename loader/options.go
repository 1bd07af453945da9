package loader

import "context"

type Option func(*Options)

type Options struct {
	Extension string
	Context   context.Context
}

func WithExtension(ext string) Option {
	return func(o *Options) {
		o.Extension = ext
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Extension: ".nc",
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
