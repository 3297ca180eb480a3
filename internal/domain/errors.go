package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest rejects an empty field request: every returned field must
// be explicitly requested, so an unbounded "select all" is not permitted.
var ErrInvalidRequest = errors.New("at least one field must be requested")

// ErrSourceNotFound rejects a request against a source name that was never
// configured.
var ErrSourceNotFound = errors.New("unknown source")

// UnknownFieldError reports every requested field name that is not in the
// schema. The whole request is rejected; nothing is partially projected.
type UnknownFieldError struct {
	Fields []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field(s): %s", strings.Join(e.Fields, ", "))
}

// DataSourceError wraps a connectivity or query-execution failure from the
// underlying store. Details stay server-side; callers only branch on the kind.
type DataSourceError struct {
	Source string
	Op     string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
