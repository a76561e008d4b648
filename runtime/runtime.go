// Package runtime declares the narrow contract generated DAO code depends
// on. It never executes SQL itself: it exists so generated code compiles
// against an interface rather than a concrete *sql.DB, matching the
// teacher project's own preference (internal/apply.Applier) for leaning on
// database/sql's interfaces directly instead of inventing a custom pool
// abstraction.
package runtime

import (
	"context"
	"database/sql"
)

// Queryer is everything a generated DAO method needs to run a query or
// statement. *sql.DB and *sql.Tx both satisfy it with no adapter.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Row is the row-decoding surface a generated ScanRow method consumes.
// *sql.Row and *sql.Rows both satisfy it.
type Row interface {
	Scan(dest ...any) error
}

var (
	_ Queryer = (*sql.DB)(nil)
	_ Queryer = (*sql.Tx)(nil)
	_ Row     = (*sql.Row)(nil)
	_ Row     = (*sql.Rows)(nil)
)
