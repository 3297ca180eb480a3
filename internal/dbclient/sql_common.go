package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"prism/internal/domain"
)

// sqlConnector is the shared implementation for MySQL, Postgres, and SQLite.
type sqlConnector struct {
	driverName string
	db         *sql.DB
}

// newSQLConnector opens a pooled generic SQL connector.
func newSQLConnector(driverName, dsn string) (*sqlConnector, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlConnector{driverName: driverName, db: db}, nil
}

func (c *sqlConnector) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return c.db.PingContext(ctx)
}

// Select issues one read-only projection and drains the cursor. The context
// governs the whole call; cancellation aborts the query and the deferred
// Close releases the connection back to the pool.
func (c *sqlConnector) Select(ctx context.Context, relation string, fields []domain.Field) ([][]any, error) {
	query := buildSelect(c.driverName, relation, fields)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	numCols := len(fields)
	var records [][]any
	for rows.Next() {
		values := make([]any, numCols)
		ptrs := make([]any, numCols)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		record := make([]any, numCols)
		for i, v := range values {
			record[i] = coerceValue(fields[i].Type, normalizeValue(v))
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return records, nil
}

func (c *sqlConnector) Close() error {
	return c.db.Close()
}

// buildSelect renders the projection query. Every identifier here has already
// been validated against the schema; values never appear in the text, so the
// statement carries no bound parameters at all.
func buildSelect(driverName, relation string, fields []domain.Field) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = quoteIdent(driverName, f.Name)
	}
	return fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(cols, ", "), quoteIdent(driverName, relation))
}

// quoteIdent quotes an identifier for the driver's dialect.
func quoteIdent(driverName, name string) string {
	if driverName == "mysql" {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// normalizeValue maps driver-level values onto plain Go values.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	default:
		return v
	}
}
