// Package server exposes a scene controller over HTTP: a browser page plus
// a JSON API with one endpoint per editor command, export downloads and
// previews.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperr "github.com/matzehuels/shapeboard/pkg/errors"
	"github.com/matzehuels/shapeboard/pkg/export"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

//go:embed web
var webFS embed.FS

// maxBody limits JSON request bodies.
const maxBody = 1 << 16

// Server serves one scene. Every request goes through the controller, so
// concurrent browser tabs see and edit the same board.
type Server struct {
	ctrl     *scene.Controller
	exporter *export.Exporter
	archive  export.Downloader // optional
	logger   *log.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithArchive enables ?archive=1 on export downloads.
func WithArchive(d export.Downloader) Option {
	return func(s *Server) { s.archive = d }
}

// New builds the router. A nil logger uses log.Default().
func New(ctrl *scene.Controller, exporter *export.Exporter, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{ctrl: ctrl, exporter: exporter, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(webFS, "web")
	r.Handle("/", http.FileServer(http.FS(static)))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/scene", s.handleScene)

		r.Post("/shape", s.handleSelectShape)
		r.Put("/shape/color", s.handleShapeColor)

		r.Post("/icons", s.handleAddIcon)

		r.Route("/active", func(r chi.Router) {
			r.Put("/color", s.handleIconColor)
			r.Delete("/", s.handleDelete)
			r.Post("/duplicate", s.handleDuplicate)
			r.Post("/move", s.handleMove)
			r.Post("/scale", s.handleScale)
		})

		r.Put("/selection", s.handleSelect)
		r.Post("/selection/next", s.handleSelectNext)
		r.Delete("/selection", s.handleClearSelection)

		r.Get("/export/{format}", s.handleExport)
		r.Get("/preview.png", s.handlePreviewPNG)
		r.Get("/preview.svg", s.handlePreviewSVG)
		r.Get("/outline.svg", s.handleOutlineSVG)
		r.Get("/outline.dot", s.handleOutlineDOT)
	})
	return r
}

// requestLogger logs each request at debug level with the charm logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Microsecond),
			"req", middleware.GetReqID(r.Context()))
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: apperr.UserMessage(err), Code: string(apperr.GetCode(err))})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 499
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case apperr.IsInvalid(err):
		return http.StatusBadRequest
	}
	switch apperr.GetCode(err) {
	case apperr.ErrCodeNotFound, apperr.ErrCodeAssetNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeAssetInvalid, apperr.ErrCodeNetwork:
		return http.StatusBadGateway
	case apperr.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
