package storage

import (
	"context"
	"database/sql"

	"github.com/ministore/fsp/fsp/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Adapter abstracts the database a pushdown query runs against.
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	// Target names the database for logs; it never contains credentials.
	Target() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error
}

// Builder interface for placeholder management
type Builder interface {
	Arg(v any) string
	Args() []any
	Len() int
}

// NewBuilder returns a placeholder builder in the adapter's style.
func NewBuilder(a Adapter) *sqlbuilder.Builder {
	return sqlbuilder.New(a.PlaceholderStyle())
}
