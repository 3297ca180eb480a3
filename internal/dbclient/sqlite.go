package dbclient

import (
	"prism/internal/domain"

	_ "modernc.org/sqlite"
)

// newSQLiteConnector opens an SQLite file source. WAL mode with a busy
// timeout keeps concurrent readers from tripping over a writer.
func newSQLiteConnector(src *domain.DataSource) (*sqlConnector, error) {
	dsn := src.Host + "?_journal_mode=WAL&_busy_timeout=5000"
	return newSQLConnector("sqlite", dsn)
}
