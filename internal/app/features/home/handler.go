// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/editstate"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/images"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/viewdata"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Store  *snapshotstore.Store
	Images images.Resolver
	Render render.Renderer
	Log    *zap.Logger
}

func NewHandler(st *snapshotstore.Store, img images.Resolver, rn render.Renderer, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  st,
		Images: img,
		Render: rn,
		Log:    logger,
	}
}

type musicianVM struct {
	models.Musician
	Anchor      string
	HeadshotURL string
	// ImageRight alternates the headshot side down the page.
	ImageRight bool
}

type eventVM struct {
	models.Event
	When string
}

type seriesVM struct {
	models.EventSeries
	Anchor    string
	PosterURL string
	Dates     []eventVM
}

type pageData struct {
	viewdata.BaseVM

	Loaded    bool
	LoadError string

	Group         models.Group
	LivestreamURL string
	ProgramURL    string
	Musicians     []musicianVM
	Series        []seriesVM
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – the whole site                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	data := pageData{BaseVM: viewdata.NewBaseVM(r, "Home")}

	snap, err := h.Store.Get(ctx)
	if err != nil {
		h.Log.Error("load root", zap.Error(err))
		data.LoadError = "Failed to load root: " + api.Detail(err)
		w.WriteHeader(http.StatusBadGateway)
		h.Render.Page(w, r, "home", data)
		return
	}

	data.Loaded = true
	data.Group = snap.Group
	if snap.Group.HasLivestream() {
		data.LivestreamURL = LivestreamEmbedURL(snap.Group.LivestreamID)
	}
	data.ProgramURL = h.Images.Program(snap.Group.LivestreamProgramID)

	for i, m := range snap.Musicians {
		data.Musicians = append(data.Musicians, musicianVM{
			Musician:    m,
			Anchor:      editstate.MusicianEntity(m).Anchor(),
			HeadshotURL: h.Images.Headshot(m.HeadshotID),
			ImageRight:  i%2 == 1,
		})
	}

	for _, s := range snap.Events {
		vm := seriesVM{
			EventSeries: s,
			Anchor:      editstate.SeriesEntity(s).Anchor(),
			PosterURL:   h.Images.Poster(s.PosterID),
		}
		for _, ev := range s.Events {
			vm.Dates = append(vm.Dates, eventVM{Event: ev, When: ev.DisplayTime()})
		}
		data.Series = append(data.Series, vm)
	}

	h.Render.Page(w, r, "home", data)
}
