// internal/app/features/musicians/headshot.go
package musicians

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

type headshotFormData struct {
	viewdata.BaseVM
	formutil.Base

	MusicianName string
	CurrentURL   string
	Accept       string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /musicians/{id}/headshot                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeHeadshot(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMusician(w, r)
	if !ok {
		return
	}
	h.headshotForm(w, r, 0, h.newHeadshotForm(r, m))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /musicians/{id}/headshot                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleHeadshot(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMusician(w, r)
	if !ok {
		return
	}
	data := h.newHeadshotForm(r, m)

	up, err := h.Uploads.FromRequest(w, r, "file")
	if err != nil {
		h.Log.Info("headshot upload refused", zap.Int("musician_id", m.ID), zap.Error(err))
		data.SetError("Failed to upload headshot: " + h.Uploads.Message(err))
		h.headshotForm(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "upload headshot")
	defer cancel()

	file := api.File{Name: up.Name, ContentType: up.ContentType, Body: up.Reader()}
	saved, err := h.API.UploadHeadshot(ctx, m.ID, file, auth.SessionFrom(r).Token)
	if err != nil {
		h.Log.Warn("upload headshot failed", zap.Int("musician_id", m.ID), zap.Error(err))
		data.SetError("Failed to upload headshot: " + api.Detail(err))
		h.headshotForm(w, r, api.ResponseStatus(err), data)
		return
	}

	if err := h.Store.Apply(editstate.MusicianEntity(saved)); err != nil {
		h.Log.Warn("apply musician to snapshot", zap.Int("musician_id", saved.ID), zap.Error(err))
	}
	h.Log.Info("headshot uploaded",
		zap.Int("musician_id", saved.ID),
		zap.String("headshot_id", saved.HeadshotID),
		zap.Int("bytes", len(up.Data)))
	render.Redirect(w, r, data.ReturnURL())
}

func (h *Handler) newHeadshotForm(r *http.Request, m models.Musician) headshotFormData {
	heading := "Change " + m.Name + "'s Headshot"
	data := headshotFormData{
		BaseVM:       viewdata.NewBaseVM(r, heading),
		MusicianName: m.Name,
		CurrentURL:   h.Images.Headshot(m.HeadshotID),
		Accept:       h.Uploads.Accept(),
	}
	formutil.SetBase(&data.Base, heading,
		fmt.Sprintf("/musicians/%d/headshot", m.ID),
		editstate.MusicianEntity(m).Anchor())
	data.Hint = h.Uploads.Describe()
	return data
}

func (h *Handler) headshotForm(w http.ResponseWriter, r *http.Request, status int, data headshotFormData) {
	render.Form(h.Render, w, r, status, "musician_headshot_page", "musician_headshot_form", data)
}
