package retriever

import "context"

type SearchOption func(*SearchOptions)

type SearchOptions struct {
	Limit   int
	Context context.Context
}

func WithSearchLimit(limit int) SearchOption {
	return func(o *SearchOptions) {
		o.Limit = limit
	}
}

func NewSearchOptions(opts ...SearchOption) SearchOptions {
	options := SearchOptions{
		Limit:   5,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
