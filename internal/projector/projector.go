// Package projector turns an untrusted list of requested field names into a
// safe, minimal-column projection over one fixed relation.
package projector

import (
	"context"

	"prism/internal/dbclient"
	"prism/internal/domain"
)

// ConnectorFunc supplies a live connector for the source. The projector does
// not own the connector's lifecycle; whoever supplies it closes it.
type ConnectorFunc func(ctx context.Context) (dbclient.Connector, error)

// Projector validates field requests against a fixed schema, executes the
// resulting projection, and shapes rows in request order. It holds no
// per-call state and is safe for concurrent use.
type Projector struct {
	source   string
	relation string
	schema   *domain.Schema
	conn     ConnectorFunc
}

// New builds a Projector for one relation. The schema is fixed for the
// projector's lifetime.
func New(source, relation string, schema *domain.Schema, conn ConnectorFunc) *Projector {
	return &Projector{source: source, relation: relation, schema: schema, conn: conn}
}

// Schema returns the projector's schema.
func (p *Projector) Schema() *domain.Schema {
	return p.schema
}

// Relation returns the fixed relation name.
func (p *Projector) Relation() string {
	return p.relation
}

// Project validates the requested fields, runs a single read-only projection,
// and returns one row per record with fields in request order.
//
// An empty request fails with domain.ErrInvalidRequest. Any name not in the
// schema fails the whole request with *domain.UnknownFieldError listing every
// unrecognized name; nothing reaches the data source in either case.
// Duplicate requested fields are preserved: each occurrence produces its own
// row entry, in order.
func (p *Projector) Project(ctx context.Context, fields []string) (domain.ResultSet, error) {
	if len(fields) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	selected := make([]domain.Field, 0, len(fields))
	var unknown []string
	seenUnknown := make(map[string]bool)
	for _, name := range fields {
		f, ok := p.schema.Lookup(name)
		if !ok {
			if !seenUnknown[name] {
				seenUnknown[name] = true
				unknown = append(unknown, name)
			}
			continue
		}
		selected = append(selected, f)
	}
	if len(unknown) > 0 {
		return nil, &domain.UnknownFieldError{Fields: unknown}
	}

	conn, err := p.conn(ctx)
	if err != nil {
		return nil, &domain.DataSourceError{Source: p.source, Op: "connect", Err: err}
	}

	records, err := conn.Select(ctx, p.relation, selected)
	if err != nil {
		return nil, &domain.DataSourceError{Source: p.source, Op: "select", Err: err}
	}

	// Rows share one copy of the requested names so a caller mutating its
	// slice afterwards cannot reshape the result.
	names := append([]string(nil), fields...)
	rs := make(domain.ResultSet, 0, len(records))
	for _, record := range records {
		rs = append(rs, domain.NewRow(names, record))
	}
	return rs, nil
}
