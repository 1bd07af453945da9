package server

import (
	"context"
	"time"
)

// Server is a transport in front of the chat service.
type Server interface {
	Run() error
	Stop(ctx context.Context) error
}

type Option func(*Options)

type Options struct {
	Address        string
	RequestTimeout time.Duration
	Context        context.Context
}

func WithAddress(address string) Option {
	return func(o *Options) {
		o.Address = address
	}
}

// WithRequestTimeout bounds each request, generation call included.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.RequestTimeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Address: ":8000",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
