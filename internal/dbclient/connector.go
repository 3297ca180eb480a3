package dbclient

import (
	"context"
	"fmt"

	"prism/internal/domain"
)

// Connector abstracts read-only access to one external data source.
// Implementations are safe for concurrent use; each Select runs on its own
// connection drawn from the driver's pool and releases it when done.
type Connector interface {
	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Select runs a single projection over the relation and returns one
	// value slice per record, values aligned positionally with fields.
	// Only pre-validated identifiers may appear in fields; no caller
	// values ever reach the query text.
	Select(ctx context.Context, relation string, fields []domain.Field) ([][]any, error)

	// Close closes the connection pool.
	Close() error
}

// New opens a Connector for the given data source. The password comes
// separately so credentials never live on the source record.
func New(src *domain.DataSource, password string) (Connector, error) {
	switch src.Driver {
	case domain.DriverSQLite:
		return newSQLiteConnector(src)
	case domain.DriverMySQL:
		return newSQLConnector("mysql", buildMySQLDSN(src, password))
	case domain.DriverPostgres:
		return newSQLConnector("postgres", buildPostgresDSN(src, password))
	case domain.DriverMongoDB:
		return newMongoConnector(src, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", src.Driver)
	}
}
