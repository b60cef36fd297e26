package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"hisdash/internal/models"
)

// ErrNoDatabase indicates a query load without a configured database.
var ErrNoDatabase = errors.New("no database configured")

// NewPool opens and pings a Postgres connection pool.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	if minConns > 0 {
		cfg.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// PostgresSource reads billing rows from a HIS reporting database.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource wraps an open pool.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Query runs sql and returns its result as a table. Column names become the header
// and every value is rendered as text, so the rows go through the same normalization
// as a CSV payload.
func (p *PostgresSource) Query(ctx context.Context, sql string) (*models.Table, error) {
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()

	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = strings.TrimSpace(fd.Name)
	}

	table := &models.Table{Header: header}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(table.Rows)+1, err)
		}

		var raw models.RawRecord
		for i, v := range values {
			raw.SetField(header[i], stringify(v))
		}

		table.Rows = append(table.Rows, raw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return table, nil
}

// stringify renders a decoded column value in a form the normalizer parses.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 {
			return val.Format("2006-01-02")
		}

		return val.Format("20060102150405")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}

		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
