package api

import (
	"context"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
)

// GetRoot fetches the whole site snapshot: version, group, musicians and
// event series.
func (c *Client) GetRoot(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := c.do(ctx, "get root", request{method: http.MethodGet, path: "/"}, &snap); err != nil {
		return models.Snapshot{}, err
	}
	if snap.Musicians == nil {
		snap.Musicians = []models.Musician{}
	}
	snap.Events = normalizeSeriesList(snap.Events)
	return snap, nil
}

// Ping checks that the API answers its root endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", request{method: http.MethodGet, path: "/"}, nil)
}
