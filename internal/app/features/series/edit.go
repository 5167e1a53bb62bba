// internal/app/features/series/edit.go
package series

import (
	"context"
	"net/http"
	"strings"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/editstate"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/formutil"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /series/new                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.form(w, r, 0, h.newForm(r, editstate.NewSeriesDraft(models.EventSeries{})))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /series/new                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "parse series form", err, "The form could not be read.")
		return
	}
	d := editstate.ParseSeriesForm(r.PostForm)
	d.SeriesID = 0
	d.PosterID = ""
	sanitize(d)

	data := h.newForm(r, d)
	if fe := d.Validate(); !fe.Empty() {
		data.FieldErrors = fe
		data.SetError(fe.Summary(d.FieldOrder()))
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.API.CreateSeries(ctx, d.Build(), auth.SessionFrom(r).Token)
	if err != nil {
		h.Log.Warn("create series failed", zap.Error(err))
		data.SetError("Failed to create event series: " + api.Detail(err))
		h.form(w, r, api.ResponseStatus(err), data)
		return
	}

	entity := editstate.SeriesEntity(saved)
	if err := h.Store.Apply(entity); err != nil {
		h.Log.Warn("apply series to snapshot", zap.Int("series_id", saved.SeriesID), zap.Error(err))
	}
	h.Log.Info("series created", zap.Int("series_id", saved.SeriesID), zap.Int("events", len(saved.Events)))
	render.Redirect(w, r, "/#"+entity.Anchor())
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /series/{id}/edit                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSeries(w, r)
	if !ok {
		return
	}
	h.form(w, r, 0, h.newForm(r, editstate.NewSeriesDraft(s)))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /series/{id}/edit                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	held, ok := h.loadSeries(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "parse series form", err, "The form could not be read.")
		return
	}
	d := editstate.ParseSeriesForm(r.PostForm)
	d.SeriesID = held.SeriesID
	d.PosterID = held.PosterID
	sanitize(d)

	data := h.newForm(r, d)
	if fe := d.Validate(); !fe.Empty() {
		data.FieldErrors = fe
		data.SetError(fe.Summary(d.FieldOrder()))
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	if !d.Changed(held) {
		data.SetError(formutil.NoChanges)
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.API.UpdateSeries(ctx, d.Build(), auth.SessionFrom(r).Token)
	if err != nil {
		h.Log.Warn("update series failed", zap.Int("series_id", held.SeriesID), zap.Error(err))
		data.SetError("Failed to update event series: " + api.Detail(err))
		h.form(w, r, api.ResponseStatus(err), data)
		return
	}

	if err := h.Store.Apply(editstate.SeriesEntity(saved)); err != nil {
		h.Log.Warn("apply series to snapshot", zap.Int("series_id", saved.SeriesID), zap.Error(err))
	}
	h.Log.Info("series updated", zap.Int("series_id", saved.SeriesID), zap.Int("events", len(saved.Events)))
	render.Redirect(w, r, data.ReturnURL())
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /series/form – add or remove an event sub-form                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleFormChange re-renders the form after adding or removing an event
// sub-form. Nothing is sent to the API. The "op" field is "add" or
// "remove:<event key>".
func (h *Handler) HandleFormChange(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "parse series form", err, "The form could not be read.")
		return
	}
	d := editstate.ParseSeriesForm(r.PostForm)
	if !d.IsNew() {
		held, err := h.Store.Series(d.SeriesID)
		if err != nil {
			h.ErrLog.NotFound(w, r, "That event series doesn't exist.")
			return
		}
		d.PosterID = held.PosterID
	}

	op := r.PostFormValue("op")
	switch {
	case op == "add":
		d.AddEvent()
	case strings.HasPrefix(op, "remove:"):
		if !d.Remove(strings.TrimPrefix(op, "remove:")) {
			h.Log.Debug("remove of unknown event sub-form", zap.String("op", op))
		}
	default:
		h.ErrLog.BadRequest(w, r, "unknown series form op", nil, "That action isn't supported.")
		return
	}
	data := h.newForm(r, d)
	data.Dirty = true
	h.form(w, r, 0, data)
}
