package randd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saadrahim/rocRAND/internal/metrics"
	"github.com/saadrahim/rocRAND/pkg/logger"
	"github.com/saadrahim/rocRAND/pkg/models"
)

// HTTPServer exposes the job store and executor over REST.
type HTTPServer struct {
	router    chi.Router
	store     *JobStore
	executor  *Executor
	collector *metrics.Collector
}

// NewHTTPServer wires the routes.
func NewHTTPServer(store *JobStore, executor *Executor, collector *metrics.Collector) *HTTPServer {
	s := &HTTPServer{
		router:    chi.NewRouter(),
		store:     store,
		executor:  executor,
		collector: collector,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Post("/jobs/{id}/cancel", s.handleCancelJob)
		r.Get("/jobs/{id}/data", s.handleGetJobData)
		r.Get("/jobs/{id}/metrics", s.handleGetJobMetrics)
		r.Get("/metrics", s.handleServiceMetrics)
	})

	return s
}

// Handler returns the root handler for an http.Server.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCreateJob handles POST /v1/jobs
func (s *HTTPServer) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := s.store.Create(req)
	if err := s.executor.Submit(job.ID); err != nil {
		_ = s.store.SetFailed(job.ID, err.Error())
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	logger.Info("job created", "job_id", job.ID,
		"distribution", req.Distribution, "type", req.Type, "count", req.Count)
	s.writeJSON(w, http.StatusAccepted, map[string]any{"job": job})
}

// handleListJobs handles GET /v1/jobs
func (s *HTTPServer) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
			if limit > 1000 {
				limit = 1000
			}
		}
	}

	jobs := s.store.List(limit)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleGetJob handles GET /v1/jobs/{id}
func (s *HTTPServer) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// handleCancelJob handles POST /v1/jobs/{id}/cancel
func (s *HTTPServer) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Cancel(id)
	switch {
	case errors.Is(err, ErrJobNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, ErrJobNotCancellable):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("job cancelled", "job_id", id)
	job, _ := s.store.Get(id)
	s.writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// handleGetJobData handles GET /v1/jobs/{id}/data
func (s *HTTPServer) handleGetJobData(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.store.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if job.Status != models.JobStatusCompleted {
		s.writeError(w, http.StatusConflict, "job is not completed: "+string(job.Status))
		return
	}
	data, ok := s.store.Data(id)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "job data missing")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Element-Type", string(job.Request.Type))
	w.Header().Set("X-Element-Count", strconv.Itoa(job.Request.Count))
	if _, err := w.Write(data); err != nil {
		logger.Error("failed to write job data", "job_id", id, "error", err)
	}
}

// handleGetJobMetrics handles GET /v1/jobs/{id}/metrics
func (s *HTTPServer) handleGetJobMetrics(w http.ResponseWriter, r *http.Request) {
	job, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if job.Metrics == nil {
		s.writeError(w, http.StatusPreconditionFailed, "metrics not available")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"metrics": job.Metrics})
}

// handleServiceMetrics handles GET /v1/metrics
func (s *HTTPServer) handleServiceMetrics(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"summary": s.collector.GetSummary(),
	})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": message,
	})
}
