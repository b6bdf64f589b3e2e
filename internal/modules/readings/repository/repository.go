package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"
	"strings"
	"time"

	"sensorapi/internal/metrics"
	"sensorapi/internal/modules/readings/types"
)

//go:embed sql/get-latest-reading.sql
var getLatestReadingSQL string

//go:embed sql/get-readings.sql
var getReadingsSQL string

const (
	opLatest = "latest"
	opRange  = "range"
)

type ReadingRepository interface {
	// GetLatest returns the reading with the highest reading_id, or nil when
	// the table is empty.
	GetLatest(ctx context.Context) (*types.Reading, error)
	// GetRange returns up to q.Limit readings, newest first, whose date lies
	// within the inclusive bounds that are set.
	GetRange(ctx context.Context, q types.RangeQuery) ([]types.Reading, error)
}

// StoreError reports a failed store operation. Its message is the driver's.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

type repositoryImpl struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

func NewRepository(db *sql.DB, m *metrics.Metrics) ReadingRepository {
	return &repositoryImpl{db: db, metrics: m}
}

func (r *repositoryImpl) GetLatest(ctx context.Context) (*types.Reading, error) {
	readings, err := r.query(ctx, opLatest, strings.TrimSpace(getLatestReadingSQL))
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}
	return &readings[0], nil
}

func (r *repositoryImpl) GetRange(ctx context.Context, q types.RangeQuery) ([]types.Reading, error) {
	query, args := buildRangeQuery(q)
	return r.query(ctx, opRange, query, args...)
}

func (r *repositoryImpl) query(ctx context.Context, op string, query string, args ...any) (out []types.Reading, err error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveQuery(op, time.Since(start), err)
		if err != nil {
			err = &StoreError{Op: op, Err: err}
		}
	}()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Error("close readings rows", "op", op, "error", closeErr)
		}
	}()
	return scanReadings(rows)
}

// buildRangeQuery appends the optional date bounds, newest-first ordering and
// the row cap to the base select. Values are always bound, never inlined.
func buildRangeQuery(q types.RangeQuery) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if q.StartDate != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, q.StartDate)
	}
	if q.EndDate != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, q.EndDate)
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(getReadingsSQL))
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY reading_id DESC LIMIT ?")

	limit := q.Limit
	if limit <= 0 {
		limit = types.DefaultLimit
	}
	args = append(args, limit)
	return b.String(), args
}
