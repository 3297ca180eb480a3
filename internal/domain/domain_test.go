package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prism/internal/domain"
)

func TestNewSchema_RejectsDuplicatesAndBadTypes(t *testing.T) {
	_, err := domain.NewSchema(nil)
	assert.Error(t, err)

	_, err = domain.NewSchema([]domain.Field{
		{Name: "id", Type: domain.FieldInt},
		{Name: "id", Type: domain.FieldString},
	})
	assert.ErrorContains(t, err, "duplicate")

	_, err = domain.NewSchema([]domain.Field{{Name: "id", Type: "uuid"}})
	assert.ErrorContains(t, err, "unknown field type")

	_, err = domain.NewSchema([]domain.Field{{Name: "", Type: domain.FieldInt}})
	assert.ErrorContains(t, err, "empty name")
}

func TestSchema_LookupIsCaseSensitive(t *testing.T) {
	schema, err := domain.NewSchema([]domain.Field{
		{Name: "name", Type: domain.FieldString},
		{Name: "Name", Type: domain.FieldInt},
	})
	require.NoError(t, err)

	lower, ok := schema.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, domain.FieldString, lower.Type)

	upper, ok := schema.Lookup("Name")
	require.True(t, ok)
	assert.Equal(t, domain.FieldInt, upper.Type)

	_, ok = schema.Lookup("NAME")
	assert.False(t, ok)
}

func TestRow_MarshalPreservesOrderAndDuplicates(t *testing.T) {
	row := domain.NewRow(
		[]string{"b", "a", "b"},
		[]any{int64(2), "x", int64(2)},
	)

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":"x","b":2}`, string(data))
}

func TestRow_GetReturnsFirstOccurrence(t *testing.T) {
	row := domain.NewRow([]string{"a", "a"}, []any{1, 2})

	v, ok := row.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = row.Get("missing")
	assert.False(t, ok)
}

func TestNewRow_LengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		domain.NewRow([]string{"a"}, []any{1, 2})
	})
}

func TestResultSet_MarshalsAsArray(t *testing.T) {
	rs := domain.ResultSet{
		domain.NewRow([]string{"n"}, []any{"Alice"}),
		domain.NewRow([]string{"n"}, []any{nil}),
	}
	data, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"Alice"},{"n":null}]`, string(data))
}

func TestErrorTaxonomy(t *testing.T) {
	unknown := &domain.UnknownFieldError{Fields: []string{"bogus", "nope"}}
	assert.Equal(t, "unknown field(s): bogus, nope", unknown.Error())

	cause := errors.New("dial tcp: refused")
	dsErr := &domain.DataSourceError{Source: "users", Op: "select", Err: cause}
	assert.ErrorIs(t, dsErr, cause)
	assert.Contains(t, dsErr.Error(), "users")

	var target *domain.UnknownFieldError
	assert.True(t, errors.As(error(unknown), &target))
}

func TestParseDriver(t *testing.T) {
	for _, good := range []string{"mysql", "postgres", "mongodb", "sqlite"} {
		d, err := domain.ParseDriver(good)
		require.NoError(t, err)
		assert.Equal(t, good, string(d))
	}
	_, err := domain.ParseDriver("oracle")
	assert.Error(t, err)
}
