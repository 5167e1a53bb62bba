// internal/app/features/musicians/bio.go
package musicians

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/editstate"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/formutil"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/htmlsanitize"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/inputval"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/viewdata"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
)

type bioInput struct {
	Bio string `validate:"notblank,max=5000" label:"Bio"`
}

type bioFormData struct {
	viewdata.BaseVM
	formutil.Base

	MusicianName string
	Bio          string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /musicians/{id}/bio                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeBio(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadMusician(w, r)
	if !ok {
		return
	}
	data := newBioForm(r, m)
	data.Bio = m.Bio
	h.bioForm(w, r, 0, data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /musicians/{id}/bio                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleBio(w http.ResponseWriter, r *http.Request) {
	held, ok := h.loadMusician(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "parse musician bio form", err, "The form could not be read.")
		return
	}

	in := bioInput{Bio: htmlsanitize.PlainText(r.PostFormValue("bio"))}
	data := newBioForm(r, held)
	data.Bio = in.Bio

	if res := inputval.Validate(in); res.HasErrors() {
		data.SetError(res.All())
		h.bioForm(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	edited := held
	edited.Bio = in.Bio
	draft := editstate.Draft{Held: editstate.MusicianEntity(held), Edited: editstate.MusicianEntity(edited)}
	if err := draft.Ready(); err != nil {
		if errors.Is(err, editstate.ErrUnchanged) {
			data.SetError(formutil.NoChanges)
		} else {
			data.SetError(err.Error())
		}
		h.bioForm(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.API.PatchMusician(ctx, edited, auth.SessionFrom(r).Token)
	if err != nil {
		h.Log.Warn("patch musician failed", zap.Int("musician_id", held.ID), zap.Error(err))
		data.SetError(fmt.Sprintf("Failed to update %s's bio: %s", held.Name, api.Detail(err)))
		h.bioForm(w, r, api.ResponseStatus(err), data)
		return
	}

	if err := h.Store.Apply(editstate.MusicianEntity(saved)); err != nil {
		h.Log.Warn("apply musician to snapshot", zap.Int("musician_id", saved.ID), zap.Error(err))
	}
	h.Log.Info("musician bio updated", zap.Int("musician_id", saved.ID))
	render.Redirect(w, r, data.ReturnURL())
}

func newBioForm(r *http.Request, m models.Musician) bioFormData {
	heading := "Edit " + m.Name + "'s Bio"
	data := bioFormData{
		BaseVM:       viewdata.NewBaseVM(r, heading),
		MusicianName: m.Name,
	}
	formutil.SetBase(&data.Base, heading,
		fmt.Sprintf("/musicians/%d/bio", m.ID),
		editstate.MusicianEntity(m).Anchor())
	return data
}

func (h *Handler) bioForm(w http.ResponseWriter, r *http.Request, status int, data bioFormData) {
	render.Form(h.Render, w, r, status, "musician_bio_page", "musician_bio_form", data)
}
