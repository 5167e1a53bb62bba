// internal/app/features/musicians/handler.go
package musicians

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	errorsfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/errors"
	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/images"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/uploadpolicy"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
)

// API is the part of the API client the musician editors use.
type API interface {
	PatchMusician(ctx context.Context, musician models.Musician, token string) (models.Musician, error)
	UploadHeadshot(ctx context.Context, musicianID int, file api.File, token string) (models.Musician, error)
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

// loadMusician resolves the {id} URL parameter against the snapshot. It
// writes a 404 and returns false when there is no such musician.
func (h *Handler) loadMusician(w http.ResponseWriter, r *http.Request) (models.Musician, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.ErrLog.NotFound(w, r, "That musician doesn't exist.")
		return models.Musician{}, false
	}
	m, err := h.Store.Musician(id)
	if err != nil {
		h.ErrLog.NotFound(w, r, "That musician doesn't exist.")
		return models.Musician{}, false
	}
	return m, true
}
