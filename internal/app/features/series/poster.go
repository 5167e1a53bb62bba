// internal/app/features/series/poster.go
package series

import (
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

type posterData struct {
	viewdata.BaseVM
	formutil.Base

	SeriesName string
	CurrentURL string
	Accept     string
}

func (h *Handler) newPosterForm(r *http.Request, s models.EventSeries) posterData {
	data := posterData{
		BaseVM:     viewdata.NewBaseVM(r, "Upload Poster"),
		SeriesName: s.Name,
		CurrentURL: h.Images.Poster(s.PosterID),
		Accept:     h.Uploads.Accept(),
	}
	formutil.SetBase(&data.Base, "Upload Poster",
		fmt.Sprintf("/series/%d/poster", s.SeriesID),
		editstate.SeriesEntity(s).Anchor())
	data.Hint = h.Uploads.Describe()
	return data
}

func (h *Handler) posterForm(w http.ResponseWriter, r *http.Request, status int, data posterData) {
	render.Form(h.Render, w, r, status, "series_poster_page", "series_poster_form", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /series/{id}/poster                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePoster(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSeries(w, r)
	if !ok {
		return
	}
	h.posterForm(w, r, 0, h.newPosterForm(r, s))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /series/{id}/poster                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandlePoster(w http.ResponseWriter, r *http.Request) {
	s, ok := h.loadSeries(w, r)
	if !ok {
		return
	}
	data := h.newPosterForm(r, s)

	up, err := h.Uploads.FromRequest(w, r, "poster")
	if err != nil {
		h.Log.Info("poster upload refused", zap.Int("series_id", s.SeriesID), zap.Error(err))
		data.SetError("Failed to upload poster: " + h.Uploads.Message(err))
		h.posterForm(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "upload poster")
	defer cancel()

	file := api.File{Name: up.Name, ContentType: up.ContentType, Body: up.Reader()}
	saved, err := h.API.UploadPoster(ctx, s.SeriesID, file, auth.SessionFrom(r).Token)
	if err != nil {
		h.Log.Warn("upload poster failed", zap.Int("series_id", s.SeriesID), zap.Error(err))
		data.SetError("Failed to upload poster: " + api.Detail(err))
		h.posterForm(w, r, api.ResponseStatus(err), data)
		return
	}

	if err := h.Store.Apply(editstate.SeriesEntity(saved)); err != nil {
		h.Log.Warn("apply series to snapshot", zap.Int("series_id", saved.SeriesID), zap.Error(err))
	}
	h.Log.Info("poster uploaded",
		zap.Int("series_id", saved.SeriesID),
		zap.String("poster_id", saved.PosterID),
		zap.Int("bytes", len(up.Data)))
	render.Redirect(w, r, data.ReturnURL())
}
