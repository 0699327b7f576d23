// Package api exposes the routing pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/route            run the pipeline on an inline design+catalog
//	GET  /v1/runs             list stored runs, newest first
//	GET  /v1/runs/{id}        fetch one stored run
//	POST /v1/runs/{id}/board  render the stored run's board plot as SVG
//	GET  /healthz             liveness and build info
//
// The server is a thin shell: all routing and caching behavior lives in
// [pipeline.Runner], and run history in a [store.Store]. Handlers only
// translate HTTP to pipeline options and back.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pinroute/pkg/buildinfo"
	"github.com/matzehuels/pinroute/pkg/errors"
	"github.com/matzehuels/pinroute/pkg/pipeline"
	"github.com/matzehuels/pinroute/pkg/render/boardsvg"
	"github.com/matzehuels/pinroute/pkg/store"
)

// maxRequestBody bounds inline design+catalog payloads (4 MiB).
const maxRequestBody = 4 << 20

// Server wires the pipeline and run store into an HTTP handler.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// NewServer creates a server. A nil store disables run persistence
// endpoints gracefully (runs are still executed, just not stored).
func NewServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Handler builds the chi router with standard middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/route", s.handleRoute)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Post("/runs/{id}/board", s.handleRunBoard)
	})
	return r
}

// routeResponse is the POST /v1/route reply.
type routeResponse struct {
	RunID     string           `json:"run_id"`
	InputHash string           `json:"input_hash"`
	Result    json.RawMessage  `json:"result"`
	Stats     pipeline.Stats   `json:"stats"`
	Cache     cacheInfoPayload `json:"cache"`
}

type cacheInfoPayload struct {
	RouteHit  bool `json:"route_hit"`
	RenderHit bool `json:"render_hit"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&opts); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "decode request: %v", err))
		return
	}
	// The API takes inline documents only; paths would read server disk.
	opts.DesignPath = ""
	opts.CatalogPath = ""
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	run := &store.Run{
		ID:        result.RunID,
		Design:    result.Design.Name,
		InputHash: result.InputHash,
		Config:    result.Config,
		Result:    result.Route,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(r.Context(), run); err != nil {
		s.logger.Error("store run", "run_id", run.ID, "err", err)
	}

	s.writeJSON(w, http.StatusOK, routeResponse{
		RunID:     result.RunID,
		InputHash: result.InputHash,
		Result:    result.Artifacts[pipeline.FormatJSON],
		Stats:     result.Stats,
		Cache: cacheInfoPayload{
			RouteHit:  result.CacheInfo.RouteHit,
			RenderHit: result.CacheInfo.RenderHit,
		},
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", q))
			return
		}
		limit = n
	}
	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err == store.ErrNotFound {
		s.writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeRunNotFound, "run not found"))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// handleRunBoard re-renders a stored run's board. The design is not
// persisted with the run, so the client must POST it again; this keeps
// stored runs small and the endpoint honest about its inputs.
func (s *Server) handleRunBoard(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err == store.ErrNotFound {
		s.writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeRunNotFound, "run not found"))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var opts pipeline.Options
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&opts); err != nil || opts.Design == nil || opts.Catalog == nil {
		s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "request must carry the run's design and catalog"))
		return
	}

	svg := boardsvg.Render(opts.Design, opts.Catalog, run.Result, boardsvg.WithLabels())
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		resp.Code = string(code)
	}
	s.writeJSON(w, status, resp)
}

// statusFor maps domain error codes to HTTP status codes. Unknown
// errors are treated as client input problems only when coded so.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidDesign),
		errors.Is(err, errors.ErrCodeInvalidCatalog),
		errors.Is(err, errors.ErrCodeInvalidReference),
		errors.Is(err, errors.ErrCodeInvalidConfig),
		errors.Is(err, errors.ErrCodeComponentNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
