// Package api serves the JSON REST interface over net/http.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/application/services"
	"github.com/vsinha/itam/pkg/infrastructure/config"
	"github.com/vsinha/itam/pkg/infrastructure/metrics"
)

// Services bundles the application services exposed over HTTP
type Services struct {
	Assets   *services.AssetService
	Racks    *services.RackInfoService
	Licences *services.LicenceService
	Supports *services.SupportService
}

// Server routes API requests to the application services
type Server struct {
	services Services
	auth     *authorizer
	logger   *zap.Logger
	now      func() time.Time
}

// NewServer creates an API server
func NewServer(svc Services, auth config.AuthConfig, logger *zap.Logger) (*Server, error) {
	authz, err := newAuthorizer(auth)
	if err != nil {
		return nil, apperrors.ConfigError("invalid auth configuration", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{services: svc, auth: authz, logger: logger, now: time.Now}, nil
}

// Handler returns the root handler with logging and metrics applied
func (s *Server) Handler() http.Handler {
	// /api/rack/{id}/ would overlap /api/{mode}/assets/ in one mux.
	// Every route ends in {$} so only the exact path matches.
	racks := http.NewServeMux()
	racks.HandleFunc("GET /api/rack/{id}/{$}", s.handleRack)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/{mode}/assets/{$}", inMode(s.handleListAssets))
	api.HandleFunc("POST /api/{mode}/assets/{$}", inMode(s.handleCreateAsset))
	api.HandleFunc("GET /api/{mode}/assets/deprecated/{$}", inMode(s.handleDeprecated))
	api.HandleFunc("GET /api/{mode}/assets/{id}/{$}", inMode(s.handleGetAsset))
	api.HandleFunc("PUT /api/{mode}/assets/{id}/{$}", inMode(s.handleUpdateAsset))
	api.HandleFunc("DELETE /api/{mode}/assets/{id}/{$}", inMode(s.handleDeleteAsset))
	api.HandleFunc("GET /api/{mode}/assets/{id}/parts/{$}", inMode(s.handleParts))
	api.HandleFunc("GET /api/{mode}/assets/{id}/history/{$}", inMode(s.handleHistory))
	api.HandleFunc("GET /api/{mode}/assets/{id}/attachment/{$}", inMode(s.handleGetAttachment))
	api.HandleFunc("PUT /api/{mode}/assets/{id}/attachment/{$}", inMode(s.handlePutAttachment))

	api.HandleFunc("GET /api/{mode}/sam/licences/{$}", inMode(s.handleListLicences))
	api.HandleFunc("POST /api/{mode}/sam/licences/{$}", inMode(s.handleAddLicences))
	api.HandleFunc("GET /api/{mode}/sam/licences/{id}/{$}", inMode(s.handleGetLicence))
	api.HandleFunc("PUT /api/{mode}/sam/licences/{id}/{$}", inMode(s.handleEditLicence))
	api.HandleFunc("GET /api/{mode}/sam/categories/{$}", inMode(s.handleCategories))

	api.HandleFunc("GET /api/{mode}/supports/{$}", inMode(s.handleSearchSupports))
	api.HandleFunc("POST /api/{mode}/supports/{$}", inMode(s.handleAddSupport))
	api.HandleFunc("GET /api/{mode}/supports/{id}/{$}", inMode(s.handleGetSupport))
	api.HandleFunc("PUT /api/{mode}/supports/{id}/{$}", inMode(s.handleEditSupport))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/api/rack/", s.auth.requireAuth(withMetrics(racks)))
	mux.Handle("/api/", s.auth.requireAuth(withMetrics(api)))
	return s.withLogging(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeAppError maps an application error onto its status. Internal errors
// are logged and hidden from the client.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Validation("invalid request body", err)
	}
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.code()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// withMetrics records API requests under the route pattern matched by next
func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, r.Method, sw.code(), time.Since(start))
	})
}
