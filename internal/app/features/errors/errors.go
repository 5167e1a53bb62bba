// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// pageData is the view model for error pages and error snippets.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
	BackURL string
}

// ErrorLogger logs a handler failure and shows the visitor a friendly
// message: a full error page for normal requests, an error snippet swapped
// into the open modal for htmx requests.
type ErrorLogger struct {
	Log    *zap.Logger
	Render render.Renderer
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger, rn render.Renderer) *ErrorLogger {
	return &ErrorLogger{Log: logger, Render: rn}
}

// LogServerError logs err and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.page(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadRequest logs err at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.page(w, r, http.StatusBadRequest, userMsg, backURL)
}

// HTMXLogServerError is LogServerError for htmx requests.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.snippet(w, http.StatusInternalServerError, userMsg)
}

// HTMXLogBadRequest is LogBadRequest for htmx requests.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	e.snippet(w, http.StatusBadRequest, userMsg)
}

// BadRequest is LogBadRequest or HTMXLogBadRequest, whichever r expects.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	if render.IsHTMX(r) {
		e.HTMXLogBadRequest(w, r, logMsg, err, userMsg)
		return
	}
	e.LogBadRequest(w, r, logMsg, err, userMsg, "/")
}

// Forbidden logs err at warn level and renders a 403 in whichever form r
// expects.
func (e *ErrorLogger) Forbidden(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
	if render.IsHTMX(r) {
		e.snippet(w, http.StatusForbidden, userMsg)
		return
	}
	e.page(w, r, http.StatusForbidden, userMsg, "/")
}

// NotFound renders a 404 in whichever form the request expects.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, r *http.Request, userMsg string) {
	if render.IsHTMX(r) {
		e.snippet(w, http.StatusNotFound, userMsg)
		return
	}
	e.page(w, r, http.StatusNotFound, userMsg, "/")
}

func (e *ErrorLogger) page(w http.ResponseWriter, r *http.Request, status int, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(status)
	e.Render.Page(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, http.StatusText(status)),
		Status:  status,
		Message: msg,
		BackURL: backURL,
	})
}

func (e *ErrorLogger) snippet(w http.ResponseWriter, status int, msg string) {
	// htmx ignores non-2xx bodies unless told otherwise; the layout's
	// htmx config swaps 4xx/5xx into the modal.
	w.WriteHeader(status)
	e.Render.Snippet(w, "error_snippet", pageData{Status: status, Message: msg})
}

// Handler serves the standalone error routes.
type Handler struct {
	Errors *ErrorLogger
}

func NewHandler(errLog *ErrorLogger) *Handler {
	return &Handler{Errors: errLog}
}

// ServeNotFound is the router's NotFound handler.
func (h *Handler) ServeNotFound(w http.ResponseWriter, r *http.Request) {
	h.Errors.NotFound(w, r, "That page doesn't exist.")
}

// ServeCSRFFailure is csrf.Protect's error handler.
func (h *Handler) ServeCSRFFailure(w http.ResponseWriter, r *http.Request) {
	h.Errors.Forbidden(w, r, "csrf check failed", csrf.FailureReason(r),
		"This form has expired. Reload the page and try again.")
}
