package sqlite

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SonakshiKundu06/FloatChat/loader"
	"github.com/SonakshiKundu06/FloatChat/warehouse"
)

func newTestWarehouse(t *testing.T) warehouse.Warehouse {
	t.Helper()

	w := NewWarehouse(warehouse.WithLocation(filepath.Join(t.TempDir(), "warehouse.db")))
	t.Cleanup(func() { w.Close() })

	return w
}

func sampleRecords() []loader.Record {
	when := time.Date(2016, 2, 8, 12, 0, 0, 0, time.UTC)

	return []loader.Record{
		{
			Platform:    "0042682",
			Cycle:       1,
			Latitude:    24.6,
			Longitude:   -81.8,
			Pressure:    5.2,
			Temperature: 28.3,
			Salinity:    36.7,
			Time:        when,
			Year:        2016,
			SourceFile:  "2016/D0042682_001.nc",
		},
		{
			Platform:    "0042682",
			Cycle:       1,
			Latitude:    24.6,
			Longitude:   -81.8,
			Pressure:    1500.0,
			Temperature: 2.1,
			Salinity:    33.5,
			Time:        when,
			Year:        2016,
			SourceFile:  "2016/D0042682_001.nc",
		},
		{
			Platform:            "7900001",
			Cycle:               4,
			Latitude:            -60.2,
			Longitude:           45.1,
			Pressure:            10.0,
			Temperature:         math.NaN(),
			Salinity:            34.1,
			PressureAdjusted:    math.NaN(),
			TemperatureAdjusted: math.NaN(),
			SalinityAdjusted:    math.NaN(),
			Year:                2017,
			SourceFile:          "2017/R7900001_004.nc",
		},
	}
}

func TestLoadAndCountByYear(t *testing.T) {
	ctx := context.Background()
	w := newTestWarehouse(t)

	require.NoError(t, w.Load(ctx, sampleRecords()))

	counts, err := w.CountByYear(ctx)
	require.NoError(t, err)
	assert.Equal(t, []warehouse.YearCount{
		{Year: 2016, Count: 2},
		{Year: 2017, Count: 1},
	}, counts)
}

func TestLoadReplacesContents(t *testing.T) {
	ctx := context.Background()
	w := newTestWarehouse(t)

	require.NoError(t, w.Load(ctx, sampleRecords()))
	require.NoError(t, w.Load(ctx, sampleRecords()[:1]))

	counts, err := w.CountByYear(ctx)
	require.NoError(t, err)
	assert.Equal(t, []warehouse.YearCount{{Year: 2016, Count: 1}}, counts)
}

func TestProfilesFilter(t *testing.T) {
	ctx := context.Background()
	w := newTestWarehouse(t)

	require.NoError(t, w.Load(ctx, sampleRecords()))

	year := 2016
	latMin := 20.0
	got, err := w.Profiles(ctx, warehouse.Filter{Year: &year, LatMin: &latMin})
	require.NoError(t, err)
	require.Len(t, got, 2)

	for _, rec := range got {
		assert.Equal(t, "0042682", rec.Platform)
		assert.Equal(t, 2016, rec.Year)
		assert.InDelta(t, 24.6, rec.Latitude, 1e-9)
	}
	assert.True(t, got[0].Time.Equal(time.Date(2016, 2, 8, 12, 0, 0, 0, time.UTC)))
}

func TestProfilesLimit(t *testing.T) {
	ctx := context.Background()
	w := newTestWarehouse(t)

	require.NoError(t, w.Load(ctx, sampleRecords()))

	got, err := w.Profiles(ctx, warehouse.Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestProfilesMissingValuesRoundTrip(t *testing.T) {
	ctx := context.Background()
	w := newTestWarehouse(t)

	require.NoError(t, w.Load(ctx, sampleRecords()))

	year := 2017
	got, err := w.Profiles(ctx, warehouse.Filter{Year: &year})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.True(t, math.IsNaN(got[0].Temperature))
	assert.True(t, math.IsNaN(got[0].PressureAdjusted))
	assert.True(t, got[0].Time.IsZero())
	assert.InDelta(t, 34.1, got[0].Salinity, 1e-9)
}

func TestProfilesEmptyWarehouse(t *testing.T) {
	w := newTestWarehouse(t)

	got, err := w.Profiles(context.Background(), warehouse.Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewWarehouseRequiresLocation(t *testing.T) {
	assert.Panics(t, func() { NewWarehouse() })
}
