package netcdf

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"

	"github.com/SonakshiKundu06/FloatChat/loader"
)

type netcdfDecoder struct{}

// NewDecoder returns a Decoder for NetCDF measurement files.
func NewDecoder() loader.Decoder {
	return &netcdfDecoder{}
}

func (d *netcdfDecoder) Decode(ctx context.Context, path string) (*loader.Dataset, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf: %w", err)
	}
	defer group.Close()

	ds := &loader.Dataset{
		Path:    path,
		Floats:  map[string][]float64{},
		Strings: map[string][]string{},
		Attrs:   map[string]string{},
	}

	attrs := group.Attributes()
	for _, key := range attrs.Keys() {
		if v, has := attrs.Get(key); has {
			if s, ok := v.(string); ok {
				ds.Attrs[key] = s
			}
		}
	}

	for _, name := range group.ListVariables() {
		variable, err := group.GetVariable(name)
		if err != nil {
			continue
		}

		value := reflect.ValueOf(variable.Values)

		if strs := appendStrings(nil, value); len(strs) > 0 {
			ds.Strings[name] = strs
			if len(strs) > ds.Rows {
				ds.Rows = len(strs)
			}
			continue
		}

		floats := appendFloats(nil, value)
		if len(floats) == 0 {
			continue
		}

		if fill, ok := fillValue(variable.Attributes); ok {
			for i, v := range floats {
				if v == fill {
					floats[i] = math.NaN()
				}
			}
		}

		ds.Floats[name] = floats
		if len(floats) > ds.Rows {
			ds.Rows = len(floats)
		}
	}

	return ds, nil
}

func appendFloats(dst []float64, v reflect.Value) []float64 {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			dst = appendFloats(dst, v.Index(i))
		}
	case reflect.Interface, reflect.Pointer:
		if !v.IsNil() {
			dst = appendFloats(dst, v.Elem())
		}
	case reflect.Float32, reflect.Float64:
		dst = append(dst, v.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst = append(dst, float64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst = append(dst, float64(v.Uint()))
	}
	return dst
}

func appendStrings(dst []string, v reflect.Value) []string {
	switch v.Kind() {
	case reflect.String:
		dst = append(dst, v.String())
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		for i := range v.Len() {
			dst = appendStrings(dst, v.Index(i))
		}
	case reflect.Interface, reflect.Pointer:
		if !v.IsNil() {
			dst = appendStrings(dst, v.Elem())
		}
	}
	return dst
}

func fillValue(attrs interface {
	Keys() []string
	Get(key string) (val any, has bool)
}) (float64, bool) {
	if attrs == nil {
		return 0, false
	}

	raw, has := attrs.Get("_FillValue")
	if !has {
		return 0, false
	}

	fill := appendFloats(nil, reflect.ValueOf(raw))
	if len(fill) != 1 {
		return 0, false
	}

	return fill[0], true
}
