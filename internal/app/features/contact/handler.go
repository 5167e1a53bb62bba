// internal/app/features/contact/handler.go
package contact

import (
	"context"
	"net/http"
	"strings"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	errorsfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/errors"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/formutil"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/htmlsanitize"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/inputval"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/ratelimit"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// API is the part of the API client the contact form uses.
type API interface {
	PostMessage(ctx context.Context, msg api.Message) error
}

type Handler struct {
	API     API
	Limiter *ratelimit.SubmitLimiter
	Render  render.Renderer
	ErrLog  *errorsfeature.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(client API, limiter *ratelimit.SubmitLimiter, rn render.Renderer, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:     client,
		Limiter: limiter,
		Render:  rn,
		ErrLog:  errLog,
		Log:     logger,
	}
}

type contactInput struct {
	Name    string `validate:"notblank,max=100" label:"Name"`
	Email   string `validate:"required,email,max=254" label:"Email"`
	Message string `validate:"notblank,max=5000" label:"Message"`
}

type formData struct {
	viewdata.BaseVM
	formutil.Base

	Name    string
	Email   string
	Message string
}

type sentData struct {
	viewdata.BaseVM
	Name string
}

func newForm(r *http.Request) formData {
	data := formData{BaseVM: viewdata.NewBaseVM(r, "Contact Us")}
	formutil.SetBase(&data.Base, "Contact Us", "/contact", "contact")
	return data
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request, status int, data formData) {
	render.Form(h.Render, w, r, status, "contact_page", "contact_form", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /contact/form – empty form                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, 0, newForm(r))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /contact                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "parse contact form", err, "The form could not be read.")
		return
	}

	in := contactInput{
		Name:    htmlsanitize.PlainText(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Message: htmlsanitize.PlainText(r.PostFormValue("message")),
	}
	data := newForm(r)
	data.Name, data.Email, data.Message = in.Name, in.Email, in.Message

	if res := inputval.Validate(in); res.HasErrors() {
		data.SetError(res.All())
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	if ok, reason := h.Limiter.Check(r, in.Email); !ok {
		h.Log.Warn("contact submission throttled", zap.String("ip", ratelimit.ClientIP(r)))
		data.SetError(reason)
		h.form(w, r, http.StatusTooManyRequests, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	msg := api.Message{Name: in.Name, Email: in.Email, Message: in.Message}
	if err := h.API.PostMessage(ctx, msg); err != nil {
		h.Log.Warn("post contact message failed", zap.Error(err))
		data.SetError("Failed to send message: " + api.Detail(err))
		h.form(w, r, api.ResponseStatus(err), data)
		return
	}

	h.Log.Info("contact message sent", zap.Int("length", len(in.Message)))
	sent := sentData{BaseVM: viewdata.NewBaseVM(r, "Message Sent"), Name: in.Name}
	if render.IsHTMX(r) {
		h.Render.Snippet(w, "contact_sent", sent)
		return
	}
	h.Render.Page(w, r, "contact_sent_page", sent)
}
