package loader

import "context"

// Dataset is a decoded measurement file: flat columns plus global attributes.
// Column names keep the casing the file used; lookups try alternates.
type Dataset struct {
	Path    string
	Rows    int
	Floats  map[string][]float64
	Strings map[string][]string
	Attrs   map[string]string
}

// Decoder turns one raw measurement file into a Dataset.
type Decoder interface {
	Decode(ctx context.Context, path string) (*Dataset, error)
}

// Float returns the first matching numeric column, broadcast to Rows. Columns
// recorded once per profile are tiled across that profile's depth levels.
func (d *Dataset) Float(names ...string) ([]float64, bool) {
	for _, name := range names {
		if col, ok := d.Floats[name]; ok {
			return broadcast(col, d.Rows), true
		}
	}
	return nil, false
}

// String returns the first matching string column, broadcast to Rows.
func (d *Dataset) String(names ...string) ([]string, bool) {
	for _, name := range names {
		if col, ok := d.Strings[name]; ok {
			return broadcast(col, d.Rows), true
		}
	}
	return nil, false
}

// Attr returns the first matching global attribute.
func (d *Dataset) Attr(names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := d.Attrs[name]; ok && len(v) > 0 {
			return v, true
		}
	}
	return "", false
}

func broadcast[T any](col []T, rows int) []T {
	if len(col) == rows || len(col) == 0 || rows == 0 {
		return col
	}

	if rows%len(col) != 0 {
		return col
	}

	per := rows / len(col)

	out := make([]T, 0, rows)
	for _, v := range col {
		for range per {
			out = append(out, v)
		}
	}

	return out
}
