package warehouse

import (
	"context"

	"github.com/SonakshiKundu06/FloatChat/loader"
)

// Warehouse holds the loaded measurement records in relational form for
// ad-hoc inspection alongside the vector index.
type Warehouse interface {
	// Load replaces the warehouse contents with the given records.
	Load(ctx context.Context, records []loader.Record) error
	CountByYear(ctx context.Context) ([]YearCount, error)
	Profiles(ctx context.Context, filter Filter) ([]loader.Record, error)
	Close() error
}

type YearCount struct {
	Year  int
	Count int
}

// Filter narrows a profile query. Nil bounds are ignored.
type Filter struct {
	Year   *int
	LatMin *float64
	LatMax *float64
	LonMin *float64
	LonMax *float64
	Limit  int
}
