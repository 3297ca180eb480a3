package domain

import "fmt"

// Driver identifies the kind of database engine behind a source.
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverMongoDB  Driver = "mongodb"
	DriverSQLite   Driver = "sqlite"
)

// ParseDriver validates a driver string from configuration.
func ParseDriver(s string) (Driver, error) {
	switch Driver(s) {
	case DriverMySQL, DriverPostgres, DriverMongoDB, DriverSQLite:
		return Driver(s), nil
	default:
		return "", fmt.Errorf("unsupported driver: %q", s)
	}
}

// DataSource describes one external tabular source: how to reach it and the
// single relation (table or collection) it serves, with that relation's
// schema. The password is not part of the record; it is resolved separately
// and handed to the connector at open time.
type DataSource struct {
	Name     string
	Driver   Driver
	Host     string // hostname, file path (sqlite), or full URI (mongodb)
	Port     int    // 0 selects the driver default
	Database string // db name; empty for sqlite
	Username string
	SSLMode  string
	Relation string
	Schema   *Schema
}
