// Package api serves meal plans over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"daily-meal-planner/internal/app"
	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/planner"
	"daily-meal-planner/internal/report"
)

const maxBodySize = 1 << 16

// Planner is the part of app.App the server needs.
type Planner interface {
	Plan(ctx context.Context, req app.Request) (app.Outcome, error)
	Catalog(ctx context.Context) (food.Catalog, error)
}

// Server exposes the planner as a small JSON API.
type Server struct {
	planner Planner
	secret  string
	logger  zerolog.Logger
	mux     *http.ServeMux
}

// NewServer creates a Server. With a non-empty secret every /api/ route
// requires a bearer token issued by IssueToken.
func NewServer(p Planner, secret string, logger zerolog.Logger) *Server {
	s := &Server{planner: p, secret: secret, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	s.mux.Handle("GET /api/catalog", s.authenticated(http.HandlerFunc(s.handleCatalog)))
	s.mux.Handle("POST /api/plan", s.authenticated(http.HandlerFunc(s.handlePlan)))
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("api server started")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	s.logger.Info().Msg("api server stopped")
	return nil
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	if s.secret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, errorResponse{Kind: "unauthorized", Message: "missing bearer token"})
			return
		}
		if _, err := VerifyToken(s.secret, raw); err != nil {
			s.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected api token")
			writeError(w, http.StatusUnauthorized, errorResponse{Kind: "unauthorized", Message: ErrUnauthorized.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type targetsJSON struct {
	Carb    float64 `json:"carb"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
}

type planRequest struct {
	Kcal      float64      `json:"kcal"`
	Allergies []string     `json:"allergies"`
	Targets   *targetsJSON `json:"targets,omitempty"`
}

type planResponse struct {
	RunID     string                 `json:"run_id,omitempty"`
	Plan      planner.DailyPlan      `json:"plan"`
	Totals    planner.NutrientTotals `json:"totals"`
	Score     float64                `json:"score"`
	Stats     planner.Stats          `json:"stats"`
	Allergens []string               `json:"allergens"`
	Report    string                 `json:"report"`
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.planner.Catalog(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load catalog")
		writeError(w, http.StatusInternalServerError, errorResponse{Kind: "internal", Message: "failed to load catalog"})
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Kind: "invalid_request", Message: "invalid JSON body: " + err.Error()})
		return
	}

	req := app.Request{Kcal: body.Kcal, Allergens: body.Allergies, Channel: "api"}
	if body.Targets != nil {
		req.Targets = &planner.Targets{
			CarbRatio:    body.Targets.Carb,
			ProteinRatio: body.Targets.Protein,
			FatRatio:     body.Targets.Fat,
		}
	}

	out, err := s.planner.Plan(r.Context(), req)
	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, errorResponse{Kind: "invalid_request", Message: err.Error()})
		return
	case err != nil:
		s.logger.Error().Err(err).Msg("failed to plan")
		writeError(w, http.StatusInternalServerError, errorResponse{Kind: "internal", Message: "failed to plan"})
		return
	}

	if !out.Planned() {
		writeError(w, http.StatusUnprocessableEntity, errorResponse{
			Kind:    string(out.Failure.Kind),
			Reason:  string(out.Failure.Reason),
			Message: out.Report,
		})
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := report.RenderHTML(out.Report)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to render html report")
			writeError(w, http.StatusInternalServerError, errorResponse{Kind: "internal", Message: "failed to render report"})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
		return
	}

	writeJSON(w, http.StatusOK, planResponse{
		RunID:     out.RunID,
		Plan:      out.Result.Plan,
		Totals:    out.Result.Totals,
		Score:     out.Result.Score,
		Stats:     out.Result.Stats,
		Allergens: out.Allergens,
		Report:    out.Report,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, e errorResponse) {
	writeJSON(w, status, e)
}
