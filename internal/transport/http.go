package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/buildflow/internal/app"
	"github.com/alexanderramin/buildflow/internal/domain"
	"github.com/alexanderramin/buildflow/internal/estimate"
	"github.com/alexanderramin/buildflow/internal/repository"
	"github.com/alexanderramin/buildflow/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server serves the JSON API.
type Server struct {
	projects app.ProjectQueryUseCase
	estimate app.EstimateUseCase
	logger   zerolog.Logger
}

// NewServer builds the router: /health, /api/projects and the three analytics endpoints.
func NewServer(projects app.ProjectQueryUseCase, est app.EstimateUseCase, logger zerolog.Logger) *chi.Mux {
	srv := &Server{projects: projects, estimate: est, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/health", srv.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", srv.handleListProjects)
		r.Get("/projects/{id}", srv.handleGetProject)
		r.Get("/projects/{id}/estimate", srv.handleEstimateProject)
		r.Get("/analytics/delay", srv.handleDelay)
		r.Get("/analytics/budget-overrun", srv.handleBudgetOverrun)
		r.Get("/analytics/recommendations", srv.handleRecommendations)
	})
	return r
}

// ListenAndServe runs handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http_request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	var status *domain.ProjectStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := domain.ParseProjectStatus(raw)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		status = &st
	}
	projects, err := s.projects.List(r.Context(), status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, newProjectView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectView(p))
}

func (s *Server) handleEstimateProject(w http.ResponseWriter, r *http.Request) {
	resp, err := s.estimate.Estimate(r.Context(), app.EstimateRequest{ProjectRef: chi.URLParam(r, "id")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimateView{ProjectID: resp.Project.ID, ShortID: resp.Project.ShortID, Result: resp.Result})
}

func (s *Server) handleDelay(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.estimateFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analyticsView{
		ProjectID:             resp.Project.ID,
		DelayProbability:      &resp.Result.DelayProbability,
		BudgetOverrunEstimate: &resp.Result.BudgetOverrunEstimate,
		Recommendations:       resp.Result.Recommendations,
		Features:              resp.Result.Features,
		Source:                resp.Result.Source,
		ModelStatus:           resp.Result.ModelStatus,
	})
}

func (s *Server) handleBudgetOverrun(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.estimateFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analyticsView{
		ProjectID:             resp.Project.ID,
		BudgetOverrunEstimate: &resp.Result.BudgetOverrunEstimate,
		Recommendations:       resp.Result.Recommendations,
		Features:              resp.Result.Features,
		Source:                resp.Result.Source,
		ModelStatus:           resp.Result.ModelStatus,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.estimateFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analyticsView{
		ProjectID:       resp.Project.ID,
		Recommendations: resp.Result.Recommendations,
		Features:        resp.Result.Features,
		Source:          resp.Result.Source,
		ModelStatus:     resp.Result.ModelStatus,
	})
}

func (s *Server) estimateFromQuery(w http.ResponseWriter, r *http.Request) (*app.EstimateResponse, bool) {
	ref := r.URL.Query().Get("project")
	if ref == "" {
		writeDetail(w, http.StatusBadRequest, `query parameter "project" is required`)
		return nil, false
	}
	resp, err := s.estimate.Estimate(r.Context(), app.EstimateRequest{ProjectRef: ref})
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return resp, true
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAmbiguousProject):
		return http.StatusConflict
	case errors.Is(err, estimate.ErrInvalidSnapshot):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	detail := err.Error()
	switch code {
	case http.StatusNotFound:
		detail = "project not found"
	case http.StatusInternalServerError:
		s.logger.Error().Err(err).Msg("request failed")
		detail = "internal error"
	}
	writeDetail(w, code, detail)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
