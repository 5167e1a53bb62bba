package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// API is the slice of the API client the health check needs.
type API interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client API
	Store  *snapshotstore.Store
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client API, st *snapshotstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Store:  st,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status     string     `json:"status"`
	API        string     `json:"api"`
	APIVersion string     `json:"api_version,omitempty"`
	FetchedAt  *time.Time `json:"fetched_at,omitempty"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "api":"reachable", "api_version":"1.4.0", "fetched_at":"…" }
//
// When the API cannot be reached: 503 and
//
//	{ "status":"error", "api":"unreachable", "message":"API unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status: "ok",
		API:    "reachable",
	}

	// The held snapshot is informational; a cold store is still healthy.
	if snap, ok := h.Store.Held(); ok {
		resp.APIVersion = snap.Version
		at := h.Store.FetchedAt().UTC()
		resp.FetchedAt = &at
	}

	if err := h.Client.Ping(ctx); err != nil {
		h.Log.Error("health-check: api ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.API = "unreachable"
		resp.Message = "API unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
