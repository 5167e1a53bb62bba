// internal/app/features/group/handler.go
package group

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	errorsfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/errors"
	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
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

// API is the part of the API client the group editor uses.
type API interface {
	PatchGroup(ctx context.Context, group models.Group, token string) (models.Group, error)
}

type Handler struct {
	API    API
	Store  *snapshotstore.Store
	Render render.Renderer
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(client API, st *snapshotstore.Store, rn render.Renderer, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:    client,
		Store:  st,
		Render: rn,
		ErrLog: errLog,
		Log:    logger,
	}
}

type groupInput struct {
	Bio          string `validate:"notblank,max=5000" label:"Bio"`
	LivestreamID string `validate:"ytid" label:"Livestream video id"`
}

type formData struct {
	viewdata.BaseVM
	formutil.Base

	GroupName    string
	Bio          string
	LivestreamID string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /group/edit                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	g, err := h.Store.Group()
	if err != nil {
		h.ErrLog.NotFound(w, r, "The group could not be loaded.")
		return
	}
	data := h.newForm(r, g)
	data.Bio = g.Bio
	data.LivestreamID = g.LivestreamID
	h.form(w, r, 0, data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /group/edit                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.BadRequest(w, r, "parse group form", err, "The form could not be read.")
		return
	}
	held, err := h.Store.Group()
	if err != nil {
		h.ErrLog.NotFound(w, r, "The group could not be loaded.")
		return
	}

	in := groupInput{
		Bio:          htmlsanitize.PlainText(r.PostFormValue("bio")),
		LivestreamID: strings.TrimSpace(r.PostFormValue("livestream_id")),
	}
	data := h.newForm(r, held)
	data.Bio = in.Bio
	data.LivestreamID = in.LivestreamID

	if res := inputval.Validate(in); res.HasErrors() {
		data.SetError(res.All())
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	edited := held
	edited.Bio = in.Bio
	edited.LivestreamID = in.LivestreamID
	draft := editstate.Draft{Held: editstate.GroupEntity(held), Edited: editstate.GroupEntity(edited)}
	if err := draft.Ready(); err != nil {
		if errors.Is(err, editstate.ErrUnchanged) {
			data.SetError(formutil.NoChanges)
		} else {
			data.SetError(err.Error())
		}
		h.form(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.API.PatchGroup(ctx, edited, auth.SessionFrom(r).Token)
	if err != nil {
		h.Log.Warn("patch group failed", zap.Error(err))
		data.SetError("Failed to update group bio: " + api.Detail(err))
		h.form(w, r, api.ResponseStatus(err), data)
		return
	}

	if err := h.Store.Apply(editstate.GroupEntity(saved)); err != nil {
		h.Log.Warn("apply group to snapshot", zap.Error(err))
	}
	h.Log.Info("group updated", zap.Int("group_id", saved.ID))
	render.Redirect(w, r, data.ReturnURL())
}

func (h *Handler) newForm(r *http.Request, g models.Group) formData {
	data := formData{
		BaseVM:    viewdata.NewBaseVM(r, "Edit Group Bio"),
		GroupName: g.Name,
	}
	formutil.SetBase(&data.Base, "Edit Group Bio", "/group/edit", "group")
	return data
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request, status int, data formData) {
	render.Form(h.Render, w, r, status, "group_edit_page", "group_edit_form", data)
}
