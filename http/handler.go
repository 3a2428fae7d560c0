package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sagarc03/camupload"
	"github.com/sagarc03/camupload/metrics"
)

const (
	contentTypeJPEG = "image/jpeg"
	allowedMethods  = "GET, HEAD, POST"
)

// Storage writes an upload body to a path relative to the upload base.
type Storage interface {
	Write(ctx context.Context, path string, content io.Reader) (camupload.SaveResult, error)
}

// Recorder receives request and upload events. A nil Recorder disables metrics.
// Requests are reported by dispatch tag, so unknown methods share one label.
type Recorder interface {
	RequestHandled(method camupload.Method, status int)
	UploadStored(site, camera string, bytes int64)
	UploadRejected(reason string)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

type HandlerConfig struct {
	Authenticator camupload.Authenticator
	Logger        *slog.Logger
	Metrics       Recorder
	CORS          CORSConfig

	// MaxUploadSize limits the request body in bytes; 0 means no limit.
	MaxUploadSize int64

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool

	// Now returns the local wall-clock time used for the upload target.
	Now func() time.Time
}

// Handler serves the image upload endpoint.
type Handler struct {
	config  HandlerConfig
	storage Storage
	logger  *slog.Logger
	metrics Recorder
	now     func() time.Time
}

// NewHandler creates a new Handler with the given configuration and storage.
// The configuration is copied; later changes to config have no effect.
func NewHandler(config *HandlerConfig, storage Storage) *Handler {
	h := &Handler{
		config:  *config,
		storage: storage,
		logger:  config.Logger,
		metrics: config.Metrics,
		now:     config.Now,
	}

	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.metrics == nil {
		h.metrics = nopRecorder{}
	}
	if h.now == nil {
		h.now = time.Now
	}

	return h
}

// Router returns an http.Handler that sends every path and method to the
// upload endpoint.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(h.logger, h.metrics))
	r.Use(Recoverer(h.logger))

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Handle("/*", h)
	r.NotFound(h.ServeHTTP)
	r.MethodNotAllowed(h.ServeHTTP)

	return r
}

// ServeHTTP dispatches on the request method. Every branch writes exactly
// one response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	switch camupload.ParseMethod(r.Method) {
	case camupload.MethodPost:
		h.handleUpload(w, r)
	case camupload.MethodGet:
		h.drain(r)
		WriteStatusPage(w, http.StatusOK, MsgReady)
	case camupload.MethodHead:
		h.drain(r)
		w.WriteHeader(http.StatusOK)
	default:
		h.drain(r)
		w.Header().Set("Allow", allowedMethods)
		WriteStatusPage(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	}
}

type challenger interface {
	Challenge() string
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	auth := h.config.Authenticator
	if auth == nil || !auth.Authenticate(r) {
		h.logger.Warn("invalid or missing credentials",
			"remote", r.RemoteAddr, "method", r.Method, "uri", r.RequestURI)
		h.drain(r)
		h.metrics.UploadRejected(metrics.ReasonAuth)
		h.rejectAuth(w, auth)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != contentTypeJPEG {
		h.logger.Warn("invalid or missing content type",
			"content_type", contentType, "remote", r.RemoteAddr, "method", r.Method, "uri", r.RequestURI)
		h.drain(r)
		h.metrics.UploadRejected(metrics.ReasonContentType)
		WriteStatusPage(w, http.StatusBadRequest, MsgContentType)
		return
	}

	now := h.now()
	site := camupload.UploadSite(r.URL.Path)
	camera := camupload.UploadCamera(r.URL.Path)

	result, err := h.storage.Write(r.Context(), camupload.TargetPath(site, camera, now), r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("upload exceeds size limit",
				"limit", maxErr.Limit, "remote", r.RemoteAddr, "uri", r.RequestURI)
			h.metrics.UploadRejected(metrics.ReasonTooLarge)
		} else {
			h.logger.Error("failed to store image",
				"err", err, "site", site, "camera", camera, "remote", r.RemoteAddr)
			h.metrics.UploadRejected(metrics.ReasonStorage)
			h.drain(r)
		}
		HandleError(w, err)
		return
	}

	h.logger.Info("image stored", "path", result.Path, "bytes", result.BytesWritten, "sha256", result.Checksum)
	h.metrics.UploadStored(site, camera, result.BytesWritten)
	WriteStatusPage(w, http.StatusOK, MsgAccepted)
}

func (h *Handler) rejectAuth(w http.ResponseWriter, auth camupload.Authenticator) {
	if auth != nil && auth.Mode() == camupload.AuthBasic {
		if c, ok := auth.(challenger); ok {
			w.Header().Set("WWW-Authenticate", c.Challenge())
		}
		WriteStatusPage(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	WriteStatusPage(w, http.StatusBadRequest, MsgInvalidToken)
}

// drain reads and discards the rest of the request body so the connection
// can be reused.
func (h *Handler) drain(r *http.Request) {
	if r.Body == nil {
		return
	}
	if _, err := io.Copy(io.Discard, r.Body); err != nil {
		h.logger.Debug("failed to drain request body", "err", err, "remote", r.RemoteAddr)
	}
}

type nopRecorder struct{}

func (nopRecorder) RequestHandled(camupload.Method, int) {}
func (nopRecorder) UploadStored(string, string, int64)   {}
func (nopRecorder) UploadRejected(string)                {}
