package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"prism/internal/config"
	"prism/internal/dbclient"
	"prism/internal/domain"
	"prism/internal/metrics"
	"prism/internal/projector"
)

// ─────────────────────────────────────────────────────────────
// Registry — named sources, connector pooling, health checks
// ─────────────────────────────────────────────────────────────

// SourceInfo is the public description of one configured source.
type SourceInfo struct {
	Name     string         `json:"name"`
	Driver   string         `json:"driver"`
	Relation string         `json:"relation"`
	Fields   []domain.Field `json:"fields"`
}

type sourceEntry struct {
	src      *domain.DataSource
	password string
	proj     *projector.Projector
}

// Registry owns every configured source: its schema-bound projector and a
// TTL-pooled connector that is closed when it sits idle. Source membership is
// fixed at construction; only the connector pool mutates afterwards.
type Registry struct {
	log          *logrus.Logger
	queryTimeout time.Duration
	healthSpec   string

	entries map[string]*sourceEntry
	order   []string

	mu   sync.Mutex // serializes connector opens
	pool *ttlcache.Cache[string, dbclient.Connector]
	cron *cron.Cron
}

// NewRegistry builds projectors for every configured source. Passwords are
// resolved once, here, so a missing credential fails startup instead of the
// first request.
func NewRegistry(cfg *config.Config, log *logrus.Logger) (*Registry, error) {
	r := &Registry{
		log:          log,
		queryTimeout: cfg.QueryTimeout,
		healthSpec:   cfg.HealthInterval,
		entries:      make(map[string]*sourceEntry, len(cfg.Sources)),
	}

	for i := range cfg.Sources {
		sc := &cfg.Sources[i]
		src, err := sc.DataSource()
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", sc.Name, err)
		}
		password, err := sc.Password()
		if err != nil {
			return nil, err
		}
		entry := &sourceEntry{src: src, password: password}
		name := src.Name
		entry.proj = projector.New(name, src.Relation, src.Schema, func(ctx context.Context) (dbclient.Connector, error) {
			return r.connector(name)
		})
		r.entries[name] = entry
		r.order = append(r.order, name)
	}

	r.pool = ttlcache.New[string, dbclient.Connector](
		ttlcache.WithTTL[string, dbclient.Connector](cfg.ConnectorTTL),
	)
	r.pool.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, dbclient.Connector]) {
		if err := item.Value().Close(); err != nil {
			log.WithField("source", item.Key()).WithError(err).Warn("closing evicted connector")
		}
	})
	go r.pool.Start()

	return r, nil
}

// connector returns the pooled connector for a source, opening one on demand.
// Pool hits refresh the TTL, so a busy source keeps its connector alive.
func (r *Registry) connector(name string) (dbclient.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item := r.pool.Get(name); item != nil {
		return item.Value(), nil
	}
	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSourceNotFound, name)
	}
	conn, err := dbclient.New(entry.src, entry.password)
	if err != nil {
		return nil, err
	}
	r.pool.Set(name, conn, ttlcache.DefaultTTL)
	return conn, nil
}

// Project runs a field projection against a named source under the configured
// query timeout. Unknown source names fail with domain.ErrSourceNotFound.
func (r *Registry) Project(ctx context.Context, source string, fields []string) (domain.ResultSet, error) {
	entry, ok := r.entries[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrSourceNotFound, source)
	}

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	start := time.Now()
	rs, err := entry.proj.Project(ctx, fields)
	metrics.ProjectionDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	metrics.ProjectionsTotal.WithLabelValues(source, outcomeOf(err)).Inc()
	return rs, err
}

func outcomeOf(err error) string {
	var unknown *domain.UnknownFieldError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	case errors.As(err, &unknown):
		return "unknown_field"
	default:
		return "source_error"
	}
}

// Sources lists the configured sources in configuration order.
func (r *Registry) Sources() []SourceInfo {
	infos := make([]SourceInfo, 0, len(r.order))
	for _, name := range r.order {
		entry := r.entries[name]
		infos = append(infos, SourceInfo{
			Name:     name,
			Driver:   string(entry.src.Driver),
			Relation: entry.src.Relation,
			Fields:   entry.src.Schema.Fields(),
		})
	}
	return infos
}

// CheckHealth pings every source and records the result in the up gauge.
func (r *Registry) CheckHealth(ctx context.Context) {
	for _, name := range r.order {
		conn, err := r.connector(name)
		if err == nil {
			err = conn.Ping(ctx)
		}
		if err != nil {
			metrics.SourceUp.WithLabelValues(name).Set(0)
			r.log.WithField("source", name).WithError(err).Warn("health check failed")
			continue
		}
		metrics.SourceUp.WithLabelValues(name).Set(1)
	}
}

// StartHealthChecks schedules periodic health pings on the configured cron
// interval.
func (r *Registry) StartHealthChecks() error {
	c := cron.New()
	_, err := c.AddFunc(r.healthSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout)
		defer cancel()
		r.CheckHealth(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid health-interval %q: %w", r.healthSpec, err)
	}
	c.Start()
	r.cron = c
	r.log.WithField("interval", r.healthSpec).Info("health checks scheduled")
	return nil
}

// Close stops the scheduler and closes every pooled connector.
func (r *Registry) Close() {
	if r.cron != nil {
		r.cron.Stop()
	}
	r.pool.Stop()
	r.pool.DeleteAll()
}
