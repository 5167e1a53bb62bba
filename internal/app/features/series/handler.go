// internal/app/features/series/handler.go
package series

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	errorsfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/errors"
	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/editstate"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/formutil"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/htmlsanitize"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/images"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/uploadpolicy"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/viewdata"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
)

// PosterHint is shown on the create form, which has no poster field.
const PosterHint = "A poster can be added after saving."

// API is the part of the API client the series editors use.
type API interface {
	CreateSeries(ctx context.Context, series models.EventSeries, token string) (models.EventSeries, error)
	UpdateSeries(ctx context.Context, series models.EventSeries, token string) (models.EventSeries, error)
	DeleteSeries(ctx context.Context, seriesID int, token string) error
	UploadPoster(ctx context.Context, seriesID int, file api.File, token string) (models.EventSeries, error)
}

type Handler struct {
	API     API
	Store   *snapshotstore.Store
	Images  images.Resolver
	Uploads uploadpolicy.Policy
	Render  render.Renderer
	ErrLog  *errorsfeature.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(
	client API,
	st *snapshotstore.Store,
	img images.Resolver,
	uploads uploadpolicy.Policy,
	rn render.Renderer,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		API:     client,
		Store:   st,
		Images:  img,
		Uploads: uploads,
		Render:  rn,
		ErrLog:  errLog,
		Log:     logger,
	}
}

// formData is the view model of the create and edit forms.
type formData struct {
	viewdata.BaseVM
	formutil.Base

	Draft       *editstate.SeriesDraft
	FieldErrors editstate.FieldErrors
	SubmitLabel string
}

// FieldError returns the message for key, or "". Templates call it with
// keys like "name" or "id:12.time".
func (d formData) FieldError(key string) string {
	return d.FieldErrors[key]
}

// EventNumber is the 1-based label of the i-th event sub-form.
func (d formData) EventNumber(i int) int { return i + 1 }

func (h *Handler) newForm(r *http.Request, d *editstate.SeriesDraft) formData {
	data := formData{Draft: d}
	if d.IsNew() {
		data.BaseVM = viewdata.NewBaseVM(r, "Add Event Series")
		formutil.SetBase(&data.Base, "Add Event Series", "/series/new", "events")
		data.Hint = PosterHint
		data.SubmitLabel = "Create"
		return data
	}
	data.BaseVM = viewdata.NewBaseVM(r, "Edit Event Series")
	formutil.SetBase(&data.Base, "Edit Event Series",
		fmt.Sprintf("/series/%d/edit", d.SeriesID),
		editstate.SeriesEntity(d.Build()).Anchor())
	data.SubmitLabel = "Save"
	return data
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request, status int, data formData) {
	render.Form(h.Render, w, r, status, "series_form_page", "series_form", data)
}

// loadSeries resolves the {id} URL parameter against the snapshot. It
// writes a 404 and returns false when there is no such series.
func (h *Handler) loadSeries(w http.ResponseWriter, r *http.Request) (models.EventSeries, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.ErrLog.NotFound(w, r, "That event series doesn't exist.")
		return models.EventSeries{}, false
	}
	s, err := h.Store.Series(id)
	if err != nil {
		h.ErrLog.NotFound(w, r, "That event series doesn't exist.")
		return models.EventSeries{}, false
	}
	return s, true
}

// sanitize strips markup from every free-text field of d.
func sanitize(d *editstate.SeriesDraft) {
	d.Name = htmlsanitize.PlainText(d.Name)
	d.Description = htmlsanitize.PlainText(d.Description)
	for i := range d.Events {
		d.Events[i].Location = htmlsanitize.PlainText(d.Events[i].Location)
	}
}
