package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prism/internal/config"
	"prism/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const validConfig = `
address: ":9090"
log-level: debug
query-timeout: 5s
sources:
  - name: users
    driver: sqlite
    host: /tmp/users.db
    relation: users
    schema:
      - { name: id, type: int }
      - { name: name, type: string }
`

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	// Defaults fill what the file omits.
	assert.Equal(t, 10*time.Minute, cfg.ConnectorTTL)
	assert.Equal(t, "@every 1m", cfg.HealthInterval)

	require.Len(t, cfg.Sources, 1)
	src, err := cfg.Sources[0].DataSource()
	require.NoError(t, err)
	assert.Equal(t, domain.DriverSQLite, src.Driver)
	assert.Equal(t, "users", src.Relation)
	assert.Equal(t, []string{"id", "name"}, src.Schema.FieldNames())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NoSources(t *testing.T) {
	_, err := config.Load(writeConfig(t, `address: ":8080"`))
	assert.ErrorContains(t, err, "at least one source")
}

func TestLoad_DuplicateSourceNames(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
sources:
  - name: users
    driver: sqlite
    host: /tmp/a.db
    relation: users
    schema: [{ name: id, type: int }]
  - name: users
    driver: sqlite
    host: /tmp/b.db
    relation: users
    schema: [{ name: id, type: int }]
`))
	assert.ErrorContains(t, err, "duplicate source name")
}

func TestLoad_BadDriver(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
sources:
  - name: users
    driver: oracle
    relation: users
    schema: [{ name: id, type: int }]
`))
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestLoad_BadSchema(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
sources:
  - name: users
    driver: sqlite
    host: /tmp/a.db
    relation: users
    schema:
      - { name: id, type: int }
      - { name: id, type: string }
`))
	assert.ErrorContains(t, err, "duplicate schema field")
}

func TestLoad_MissingRelation(t *testing.T) {
	_, err := config.Load(writeConfig(t, `
sources:
  - name: users
    driver: sqlite
    host: /tmp/a.db
    schema: [{ name: id, type: int }]
`))
	assert.ErrorContains(t, err, "relation is required")
}

func TestPassword(t *testing.T) {
	sc := config.SourceConfig{Name: "users"}
	pwd, err := sc.Password()
	require.NoError(t, err)
	assert.Empty(t, pwd)

	sc.PasswordEnv = "PRISM_TEST_PASSWORD"
	_, err = sc.Password()
	assert.ErrorContains(t, err, "PRISM_TEST_PASSWORD")

	t.Setenv("PRISM_TEST_PASSWORD", "s3cret")
	pwd, err = sc.Password()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pwd)
}
