package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/SonakshiKundu06/FloatChat/loader"
	"github.com/SonakshiKundu06/FloatChat/retriever"
)

// groupKey identifies one profile: a single float deployment within one file.
type groupKey struct {
	platform   string
	cycle      int
	sourceFile string
}

type Builder struct {
	retriever retriever.Retriever
	options   Options
}

func New(retriever retriever.Retriever, opts ...Option) *Builder {
	if retriever == nil {
		panic("retriever is required")
	}

	return &Builder{
		retriever: retriever,
		options:   NewOptions(opts...),
	}
}

// Build groups records into profiles, renders one summary document per
// profile, and indexes them in batches. It returns the number of documents
// indexed. A failed batch aborts the build; batches already written persist.
func (b *Builder) Build(ctx context.Context, records []loader.Record) (int, error) {
	keys, groups := group(records)

	docs := make([]retriever.Document, 0, b.options.BatchSize)
	indexed := 0

	flush := func() error {
		if len(docs) == 0 {
			return nil
		}
		if err := b.retriever.Index(ctx, docs); err != nil {
			return fmt.Errorf("index batch of %d: %w", len(docs), err)
		}
		indexed += len(docs)
		docs = docs[:0]
		return nil
	}

	for ordinal, key := range keys {
		profile := groups[key]

		docs = append(docs, retriever.Document{
			Id:      fmt.Sprintf("%s_%d_%d", key.platform, key.cycle, ordinal),
			Content: Summary(profile),
			Metadata: map[string]any{
				"year": profile[0].Year,
				"file": key.sourceFile,
			},
		})

		if len(docs) >= b.options.BatchSize {
			if err := flush(); err != nil {
				return indexed, err
			}
		}
	}

	if err := flush(); err != nil {
		return indexed, err
	}

	slog.InfoContext(ctx, "corpus built", "profiles", len(keys), "documents", indexed)

	return indexed, nil
}

// group partitions records by (platform, cycle, source file), keeping
// first-seen order so document ordinals are stable for a given input.
func group(records []loader.Record) ([]groupKey, map[groupKey][]loader.Record) {
	var keys []groupKey
	groups := map[groupKey][]loader.Record{}

	for _, rec := range records {
		key := groupKey{
			platform:   rec.Platform,
			cycle:      rec.Cycle,
			sourceFile: rec.SourceFile,
		}

		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}

		groups[key] = append(groups[key], rec)
	}

	return keys, groups
}

// Summary renders one profile into a text document, e.g.
//
//	On 2016-02-08, float 0042682 at 24.60N, -81.80W recorded 72 depth levels
//	with temperature range 2.10–28.30 °C and salinity range 33.50–36.70 PSU.
//
// A series that is entirely absent drops its range clause.
func Summary(profile []loader.Record) string {
	first := profile[0]

	when := "unknown time"
	if !first.Time.IsZero() {
		when = first.Time.Format("2006-01-02")
	}

	floatId := first.Platform
	if len(floatId) == 0 {
		floatId = "unknown float"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "On %s, float %s at %.2fN, %.2fW recorded %d depth levels",
		when, floatId, orZero(first.Latitude), orZero(first.Longitude), len(profile))

	var clauses []string

	if min, max, ok := seriesRange(profile, func(r loader.Record) float64 { return r.Temperature }); ok {
		clauses = append(clauses, fmt.Sprintf("temperature range %.2f–%.2f °C", min, max))
	}

	if min, max, ok := seriesRange(profile, func(r loader.Record) float64 { return r.Salinity }); ok {
		clauses = append(clauses, fmt.Sprintf("salinity range %.2f–%.2f PSU", min, max))
	}

	if len(clauses) > 0 {
		sb.WriteString(" with ")
		sb.WriteString(strings.Join(clauses, " and "))
	}

	sb.WriteString(".")

	return sb.String()
}

func seriesRange(profile []loader.Record, value func(loader.Record) float64) (float64, float64, bool) {
	min, max := math.Inf(1), math.Inf(-1)
	found := false

	for _, rec := range profile {
		v := value(rec)
		if math.IsNaN(v) {
			continue
		}
		found = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return min, max, found
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
