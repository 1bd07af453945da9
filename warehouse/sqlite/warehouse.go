package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SonakshiKundu06/FloatChat/loader"
	"github.com/SonakshiKundu06/FloatChat/warehouse"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	platform_number TEXT,
	cycle_number INTEGER,
	latitude REAL,
	longitude REAL,
	pres REAL,
	temp REAL,
	psal REAL,
	pres_adjusted REAL,
	temp_adjusted REAL,
	psal_adjusted REAL,
	time TEXT,
	year INTEGER,
	source_file TEXT
)`

type sqliteWarehouse struct {
	options warehouse.Options
	conn    *sql.DB
}

func (s *sqliteWarehouse) Load(ctx context.Context, records []loader.Record) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles"); err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (
			platform_number, cycle_number, latitude, longitude,
			pres, temp, psal, pres_adjusted, temp_adjusted, psal_adjusted,
			time, year, source_file
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(
			ctx,
			rec.Platform,
			rec.Cycle,
			nullable(rec.Latitude),
			nullable(rec.Longitude),
			nullable(rec.Pressure),
			nullable(rec.Temperature),
			nullable(rec.Salinity),
			nullable(rec.PressureAdjusted),
			nullable(rec.TemperatureAdjusted),
			nullable(rec.SalinityAdjusted),
			nullableTime(rec.Time),
			rec.Year,
			rec.SourceFile,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *sqliteWarehouse) CountByYear(ctx context.Context) ([]warehouse.YearCount, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT year, COUNT(*) FROM profiles GROUP BY year ORDER BY year")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []warehouse.YearCount

	for rows.Next() {
		var yc warehouse.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, yc)
	}

	return counts, rows.Err()
}

func (s *sqliteWarehouse) Profiles(ctx context.Context, filter warehouse.Filter) ([]loader.Record, error) {
	clauses := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Year != nil {
		clauses = append(clauses, "year = "+arg(*filter.Year))
	}
	if filter.LatMin != nil {
		clauses = append(clauses, "latitude >= "+arg(*filter.LatMin))
	}
	if filter.LatMax != nil {
		clauses = append(clauses, "latitude <= "+arg(*filter.LatMax))
	}
	if filter.LonMin != nil {
		clauses = append(clauses, "longitude >= "+arg(*filter.LonMin))
	}
	if filter.LonMax != nil {
		clauses = append(clauses, "longitude <= "+arg(*filter.LonMax))
	}

	query := `
		SELECT
			platform_number, cycle_number, latitude, longitude,
			pres, temp, psal, pres_adjusted, temp_adjusted, psal_adjusted,
			time, year, source_file
		FROM profiles
	`

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []loader.Record

	for rows.Next() {
		var rec loader.Record
		var lat, lon, pres, temp, psal, presAdj, tempAdj, psalAdj sql.NullFloat64
		var when sql.NullString

		err := rows.Scan(
			&rec.Platform,
			&rec.Cycle,
			&lat,
			&lon,
			&pres,
			&temp,
			&psal,
			&presAdj,
			&tempAdj,
			&psalAdj,
			&when,
			&rec.Year,
			&rec.SourceFile,
		)
		if err != nil {
			return nil, err
		}

		rec.Latitude = fromNullable(lat)
		rec.Longitude = fromNullable(lon)
		rec.Pressure = fromNullable(pres)
		rec.Temperature = fromNullable(temp)
		rec.Salinity = fromNullable(psal)
		rec.PressureAdjusted = fromNullable(presAdj)
		rec.TemperatureAdjusted = fromNullable(tempAdj)
		rec.SalinityAdjusted = fromNullable(psalAdj)

		if when.Valid {
			rec.Time, _ = time.Parse(time.RFC3339Nano, when.String)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

func (s *sqliteWarehouse) Close() error {
	return s.conn.Close()
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func nullableTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func NewWarehouse(opts ...warehouse.Option) warehouse.Warehouse {
	options := warehouse.NewOptions(opts...)

	if len(options.Location) == 0 {
		panic("missing location for sqlite warehouse")
	}

	if err := os.MkdirAll(filepath.Dir(options.Location), 0o755); err != nil {
		detail := "failed to create data directory for sqlite warehouse"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	conn, err := sql.Open("sqlite", options.Location+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		detail := "failed to open sqlite warehouse"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if _, err := conn.Exec(schema); err != nil {
		detail := "failed to migrate sqlite warehouse"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	return &sqliteWarehouse{
		options: options,
		conn:    conn,
	}
}
