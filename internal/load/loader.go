// Package load pushes validated records into the downstream analytical
// database. Only rows the engine classified valid are loaded; rejected
// rows stay in the report side-channels for remediation.
//
// Each table lands in a text-typed staging table (stg_<table>) so the
// warehouse's own load step keeps ownership of final typing. Bulk transfer
// uses the PostgreSQL COPY protocol.
package load

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/DataGate/internal/engine"
	"github.com/JonMunkholm/DataGate/internal/schema"
)

// Loader owns a connection pool to the staging database.
type Loader struct {
	pool *pgxpool.Pool
}

// New connects to the staging database and verifies the connection.
func New(ctx context.Context, databaseURL string) (*Loader, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping staging database: %w", err)
	}
	return &Loader{pool: pool}, nil
}

// Close releases the connection pool.
func (l *Loader) Close() {
	l.pool.Close()
}

// StagingTable returns the staging table name for a schema.
func StagingTable(s *schema.TableSchema) string {
	return "stg_" + strings.ToLower(s.TableName)
}

// LoadValid creates the staging table when missing and bulk-loads the
// result's valid rows via COPY. Returns the number of rows copied.
func (l *Loader) LoadValid(ctx context.Context, s *schema.TableSchema, res *engine.Result) (int64, error) {
	table := StagingTable(s)
	columns := stagingColumns(s)

	if err := l.ensureTable(ctx, table, columns); err != nil {
		return 0, err
	}

	rows := res.ValidRows
	copied, err := l.pool.CopyFrom(ctx,
		pgx.Identifier{table},
		append([]string{"source_row"}, columns...),
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			values := make([]any, 0, len(rows[i].Fields)+1)
			values = append(values, rows[i].RowNumber)
			for _, v := range rows[i].Fields {
				values = append(values, v)
			}
			return values, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return copied, nil
}

func (l *Loader) ensureTable(ctx context.Context, table string, columns []string) error {
	var defs []string
	defs = append(defs, pgx.Identifier{"source_row"}.Sanitize()+" integer")
	for _, col := range columns {
		defs = append(defs, pgx.Identifier{col}.Sanitize()+" text")
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{table}.Sanitize(), strings.Join(defs, ", "))
	if _, err := l.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create staging table %s: %w", table, err)
	}
	return nil
}

// stagingColumns lowercases schema column names for the staging DDL.
func stagingColumns(s *schema.TableSchema) []string {
	names := s.ColumnNames()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}
