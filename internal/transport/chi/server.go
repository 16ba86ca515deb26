// Package chi exposes the engine over a hand-written chi HTTP API.
package chi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
	archiveuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/archive"
	healthuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/health"
	insightuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/insight"
	rankinguc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/ranking"
	similarityuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/similarity"
	snapshotuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/snapshot"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Limits holds the request bounds enforced by the API.
type Limits struct {
	DefaultK int
	MaxK     int
}

// Server wires the usecase services into HTTP handlers.
type Server struct {
	archive       *archiveuc.Service
	snapshots     *snapshotuc.Service
	ranking       *rankinguc.Service
	similarity    *similarityuc.Service
	insights      *insightuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	limits        Limits
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	archive *archiveuc.Service,
	snapshots *snapshotuc.Service,
	ranking *rankinguc.Service,
	similarity *similarityuc.Service,
	insights *insightuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	limits Limits,
) *Server {
	s := &Server{
		archive:    archive,
		snapshots:  snapshots,
		ranking:    ranking,
		similarity: similarity,
		insights:   insights,
		health:     health,
		logger:     logger,
		limits:     limits,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, CodeRecordNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrScoreOutOfRange, http.StatusBadRequest, CodeScoreOutOfRange),
		sentinelHandler(domain.ErrInvalidWeights, http.StatusBadRequest, CodeInvalidWeights),
		sentinelHandler(domain.ErrSchemaMismatch, http.StatusBadRequest, CodeSchemaMismatch),
		sentinelHandler(domain.ErrStaleEncoding, http.StatusConflict, CodeStaleEncoding),
		sentinelHandler(domain.ErrEmptyPopulation, http.StatusUnprocessableEntity, CodeEmptyPopulation),
		sentinelHandler(domain.ErrInsufficientCandidates, http.StatusUnprocessableEntity, CodeInsufficientCandidates),
	}
	return s
}

// RegisterRoutes mounts all API routes on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/records", func(r chi.Router) {
		r.Post("/", s.CreateRecord)
		r.Get("/", s.ListRecords)
		r.Get("/{id}", s.GetRecord)
		r.Delete("/{id}", s.DeleteRecord)
		r.Get("/{id}/neighbors", s.Neighbors)
	})

	r.Post("/refit", s.Refit)
	r.Get("/snapshot", s.SnapshotInfo)
	r.Get("/ranking", s.Ranking)
	r.Get("/insights/keywords", s.Keywords)
	r.Get("/insights/distribution", s.Distribution)
	r.Get("/export/{type}", s.Export)
}

// handleError maps a domain error to an HTTP response.
func (s *Server) handleError(w http.ResponseWriter, err error, msg string) {
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, msg)
}

// sentinelHandler maps a sentinel error to a status code, passing the
// wrapped error text through so callers see the offending detail.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}
