// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/dalemusser/reelsite/internal/app/system/jsonutil"
	"github.com/dalemusser/reelsite/internal/app/system/reqlog"
	"github.com/dalemusser/reelsite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger wraps the zap logger for handler error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.LogWithFields(r, msg, err)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("request_id", reqlog.ID(r.Context())),
	}, fields...)
	e.logger.Error(msg, allFields...)
}

// Handler renders error pages for the public site and error envelopes for
// the JSON API.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new error Handler. A nil logger is replaced with a
// no-op logger.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// NotFound renders the 404 page, or the JSON envelope for /api paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r) {
		h.APINotFound(w, r)
		return
	}
	vm := viewdata.New(r, "Page Not Found")

	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "errors/not_found", vm)
}

// InternalError renders the 500 page, or the JSON envelope for /api paths.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r) {
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	vm := viewdata.New(r, "Something Went Wrong")

	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "errors/internal", vm)
}

// APINotFound answers unknown API routes.
func (h *Handler) APINotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, "Route not found")
}

// MethodNotAllowed answers a known path requested with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r) {
		jsonutil.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// Recover turns a panic in a downstream handler into a logged 500 response
// instead of a dropped connection.
func (h *Handler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.logger.Error("panic serving request",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.String("request_id", reqlog.ID(r.Context())),
				zap.ByteString("stack", debug.Stack()),
			)
			h.InternalError(w, r)
		}()
		next.ServeHTTP(w, r)
	})
}

func isAPIPath(r *http.Request) bool {
	return r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/")
}
