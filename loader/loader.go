package loader

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// juldEpoch anchors the JULD day-offset encoding.
var juldEpoch = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

var attrTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Load decodes one measurement file into records. Timestamps resolve through a
// fallback chain: a row-level time column, the JULD day-offset column, the
// time_coverage_start attribute, the date_creation attribute, and finally the
// zero time for every row.
func Load(ctx context.Context, decoder Decoder, path string) ([]Record, error) {
	ds, err := decoder.Decode(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	times := resolveTimes(ds)
	years := deriveYears(times, ds.Path)

	platforms, _ := ds.String("platform_number", "PLATFORM_NUMBER")
	cycles, _ := ds.Float("cycle_number", "CYCLE_NUMBER")
	lats, _ := ds.Float("latitude", "LATITUDE")
	lons, _ := ds.Float("longitude", "LONGITUDE")
	pres, _ := ds.Float("pres", "PRES")
	temp, _ := ds.Float("temp", "TEMP")
	psal, _ := ds.Float("psal", "PSAL")
	presAdj, _ := ds.Float("pres_adjusted", "PRES_ADJUSTED")
	tempAdj, _ := ds.Float("temp_adjusted", "TEMP_ADJUSTED")
	psalAdj, _ := ds.Float("psal_adjusted", "PSAL_ADJUSTED")

	records := make([]Record, ds.Rows)

	for i := range records {
		records[i] = Record{
			Platform:            stringAt(platforms, i),
			Cycle:               intAt(cycles, i),
			Latitude:            floatAt(lats, i),
			Longitude:           floatAt(lons, i),
			Pressure:            floatAt(pres, i),
			Temperature:         floatAt(temp, i),
			Salinity:            floatAt(psal, i),
			PressureAdjusted:    floatAt(presAdj, i),
			TemperatureAdjusted: floatAt(tempAdj, i),
			SalinityAdjusted:    floatAt(psalAdj, i),
			Time:                times[i],
			Year:                years[i],
			SourceFile:          ds.Path,
		}
	}

	return records, nil
}

// LoadAll walks a raw-data root laid out as <year>/<file> and concatenates the
// records of every file it can decode. A file that fails to decode is logged
// and skipped; it never aborts the batch.
func LoadAll(ctx context.Context, decoder Decoder, root string, opts ...Option) ([]Record, error) {
	options := NewOptions(opts...)

	yearDirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read raw root %s: %w", root, err)
	}

	records := []Record{}

	for _, yearDir := range yearDirs {
		if !yearDir.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(yearDir.Name()); err != nil {
			continue
		}

		dir := filepath.Join(root, yearDir.Name())

		files, err := os.ReadDir(dir)
		if err != nil {
			slog.WarnContext(ctx, "skipping year directory", "dir", dir, "error", err)
			continue
		}

		for _, file := range files {
			if file.IsDir() || !strings.HasSuffix(file.Name(), options.Extension) {
				continue
			}

			path := filepath.Join(dir, file.Name())

			recs, err := Load(ctx, decoder, path)
			if err != nil {
				slog.WarnContext(ctx, "skipping measurement file", "path", path, "error", err)
				continue
			}

			records = append(records, recs...)
		}
	}

	return records, nil
}

func resolveTimes(ds *Dataset) []time.Time {
	if col, ok := ds.Float("time", "TIME"); ok {
		return timesFrom(col, ds.Rows, epochSeconds)
	}

	if col, ok := ds.Float("JULD", "juld"); ok {
		return timesFrom(col, ds.Rows, juldDays)
	}

	if raw, ok := ds.Attr("time_coverage_start"); ok {
		for _, layout := range attrTimeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return repeatTime(t, ds.Rows)
			}
		}
	}

	if raw, ok := ds.Attr("date_creation"); ok {
		if t, err := time.Parse("20060102150405", raw); err == nil {
			return repeatTime(t, ds.Rows)
		}
	}

	return make([]time.Time, ds.Rows)
}

func deriveYears(times []time.Time, path string) []int {
	years := make([]int, len(times))

	resolved := false
	for _, t := range times {
		if !t.IsZero() {
			resolved = true
			break
		}
	}

	if resolved {
		for i, t := range times {
			if t.IsZero() {
				years[i] = -1
			} else {
				years[i] = t.Year()
			}
		}
		return years
	}

	year := -1
	if n, err := strconv.Atoi(filepath.Base(filepath.Dir(path))); err == nil {
		year = n
	}

	for i := range years {
		years[i] = year
	}

	return years
}

func timesFrom(col []float64, rows int, convert func(float64) time.Time) []time.Time {
	times := make([]time.Time, rows)
	for i := range times {
		v := floatAt(col, i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		times[i] = convert(v)
	}
	return times
}

func epochSeconds(v float64) time.Time {
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}

func juldDays(v float64) time.Time {
	return juldEpoch.Add(time.Duration(v * 24 * float64(time.Hour)))
}

func repeatTime(t time.Time, rows int) []time.Time {
	times := make([]time.Time, rows)
	for i := range times {
		times[i] = t
	}
	return times
}

func floatAt(col []float64, i int) float64 {
	if i < len(col) {
		return col[i]
	}
	return math.NaN()
}

func intAt(col []float64, i int) int {
	v := floatAt(col, i)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}

func stringAt(col []string, i int) string {
	if i < len(col) {
		return strings.TrimSpace(col[i])
	}
	return ""
}
