package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"prism/internal/domain"
	"prism/internal/service"
)

// Projections is the slice of the registry the HTTP layer needs.
type Projections interface {
	Project(ctx context.Context, source string, fields []string) (domain.ResultSet, error)
	Sources() []service.SourceInfo
}

// Server is the inbound HTTP collaborator: it parses field lists from query
// parameters, invokes the projector, and renders rows as a JSON array of
// objects with keys in request order.
type Server struct {
	projections Projections
	log         *logrus.Logger
	router      *gin.Engine
}

// New builds the router. The caller owns listening and shutdown.
func New(projections Projections, log *logrus.Logger) *Server {
	s := &Server{projections: projections, log: log}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/sources", s.listSources)
	api.GET("/sources/:source/rows", s.getRows)

	s.router = router
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) listSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": s.projections.Sources()})
}

// getRows serves GET /api/sources/:source/rows?fields=a,b (repeated fields
// params also work; forms combine in order).
func (s *Server) getRows(c *gin.Context) {
	source := c.Param("source")
	fields := parseFields(c.QueryArray("fields"))

	rs, err := s.projections.Project(c.Request.Context(), source, fields)
	if err != nil {
		s.renderError(c, source, err)
		return
	}
	c.JSON(http.StatusOK, rs)
}

// renderError maps the error taxonomy onto status codes: caller mistakes are
// 400 with the offending names, unknown sources 404, upstream failures a
// generic 502 with details only logged.
func (s *Server) renderError(c *gin.Context, source string, err error) {
	var unknown *domain.UnknownFieldError
	var upstream *domain.DataSourceError
	switch {
	case errors.Is(err, domain.ErrSourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown source: " + source})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &unknown):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "unknown field(s)",
			"fields": unknown.Fields,
		})
	case errors.As(err, &upstream):
		s.log.WithFields(logrus.Fields{
			"request_id": RequestIDFrom(c),
			"source":     source,
			"op":         upstream.Op,
		}).WithError(upstream.Err).Error("data source failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": "data source unavailable"})
	default:
		s.log.WithField("request_id", RequestIDFrom(c)).WithError(err).Error("projection failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseFields flattens repeated fields params and comma-separated lists into
// one ordered request, trimming whitespace and dropping empty entries.
// Duplicates are kept; the projector decides what they mean.
func parseFields(raw []string) []string {
	var fields []string
	for _, part := range raw {
		for _, name := range strings.Split(part, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				fields = append(fields, name)
			}
		}
	}
	return fields
}
