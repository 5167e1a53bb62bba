// internal/app/features/series/delete.go
package series

import (
	"context"
	"fmt"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/editstate"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/formutil"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/viewdata"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
)

type deleteData struct {
	viewdata.BaseVM
	formutil.Base

	SeriesName string
	EventCount int
}

func (h *Handler) newDeleteForm(r *http.Request, s models.EventSeries) deleteData {
	data := deleteData{
		BaseVM:     viewdata.NewBaseVM(r, "Delete Event Series"),
		SeriesName: s.Name,
		EventCount: len(s.Events),
	}
	formutil.SetBase(&data.Base, "Delete Event Series",
		fmt.Sprintf("/series/%d/delete", s.SeriesID),
		editstate.SeriesEntity(s).Anchor())
	return data
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /series/{id}/delete – confirmation                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSeries(w, r)
	if !ok {
		return
	}
	render.Form(h.Render, w, r, 0, "series_delete_page", "series_delete_form", h.newDeleteForm(r, s))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /series/{id}/delete                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSeries(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.API.DeleteSeries(ctx, s.SeriesID, auth.SessionFrom(r).Token); err != nil {
		h.Log.Warn("delete series failed", zap.Int("series_id", s.SeriesID), zap.Error(err))
		data := h.newDeleteForm(r, s)
		data.SetError("Failed to delete event series: " + api.Detail(err))
		render.Form(h.Render, w, r, api.ResponseStatus(err), "series_delete_page", "series_delete_form", data)
		return
	}

	if err := h.Store.RemoveSeries(s.SeriesID); err != nil {
		h.Log.Warn("remove series from snapshot", zap.Int("series_id", s.SeriesID), zap.Error(err))
	}
	h.Log.Info("series deleted", zap.Int("series_id", s.SeriesID))
	render.Redirect(w, r, "/#events")
}
