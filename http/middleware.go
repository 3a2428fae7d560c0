package http

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sagarc03/camupload"
)

// RequestLogger logs one line per request on entry and reports the final
// status to rec once the handler returns. At debug level the request
// headers are logged too, with credentials redacted.
func RequestLogger(logger *slog.Logger, rec Recorder) func(http.Handler) http.Handler {
	if rec == nil {
		rec = nopRecorder{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger.Info("request", "remote", r.RemoteAddr, "method", r.Method, "uri", r.RequestURI)
			if logger.Enabled(r.Context(), slog.LevelDebug) {
				logger.Debug("request details",
					"proto", r.Proto,
					"host", r.Host,
					"content_length", r.ContentLength,
					"headers", redactHeaders(r.Header),
				)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			rec.RequestHandled(camupload.ParseMethod(r.Method), status)

			logger.Debug("response",
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}

// Recoverer turns a panic in next into a 500 status page, unless a
// response was already started.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww, ok := w.(middleware.WrapResponseWriter)
			if !ok {
				ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			}

			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
					panic(rvr)
				}

				logger.Error("panic while handling request",
					"panic", rvr,
					"method", r.Method,
					"uri", r.RequestURI,
					"stack", string(debug.Stack()),
				)

				if ww.Status() == 0 {
					WriteStatusPage(ww, http.StatusInternalServerError, MsgUploadError)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out.Get("Authorization") != "" {
		out.Set("Authorization", "[redacted]")
	}
	return out
}
