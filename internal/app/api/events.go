package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
)

// GetSeriesList lists every event series in server order.
func (c *Client) GetSeriesList(ctx context.Context) ([]models.EventSeries, error) {
	var list []models.EventSeries
	if err := c.do(ctx, "get series list", request{method: http.MethodGet, path: "/events/"}, &list); err != nil {
		return nil, err
	}
	return normalizeSeriesList(list), nil
}

// GetSeries fetches one event series.
func (c *Client) GetSeries(ctx context.Context, seriesID int) (models.EventSeries, error) {
	var s models.EventSeries
	path := fmt.Sprintf("/events/%d", seriesID)
	if err := c.do(ctx, "get series", request{method: http.MethodGet, path: path}, &s); err != nil {
		return models.EventSeries{}, err
	}
	return normalizeSeries(s), nil
}

// CreateSeries posts a new series with all of its events.
func (c *Client) CreateSeries(ctx context.Context, series models.EventSeries, token string) (models.EventSeries, error) {
	if err := requireToken(token); err != nil {
		return models.EventSeries{}, err
	}
	var s models.EventSeries
	req := request{method: http.MethodPost, path: "/events/", token: token, body: normalizeSeries(series)}
	if err := c.do(ctx, "create series", req, &s); err != nil {
		return models.EventSeries{}, err
	}
	return normalizeSeries(s), nil
}

// UpdateSeries replaces a series, events included. The full series is sent,
// never a diff.
func (c *Client) UpdateSeries(ctx context.Context, series models.EventSeries, token string) (models.EventSeries, error) {
	if err := requireToken(token); err != nil {
		return models.EventSeries{}, err
	}
	var s models.EventSeries
	req := request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/events/%d/", series.SeriesID),
		token:  token,
		body:   normalizeSeries(series),
	}
	if err := c.do(ctx, "update series", req, &s); err != nil {
		return models.EventSeries{}, err
	}
	return normalizeSeries(s), nil
}

// DeleteSeries removes a series and its events.
func (c *Client) DeleteSeries(ctx context.Context, seriesID int, token string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	req := request{method: http.MethodDelete, path: fmt.Sprintf("/events/%d/", seriesID), token: token}
	return c.do(ctx, "delete series", req, nil)
}

// UploadPoster sets a series poster. The image is sent as the multipart
// field "poster".
func (c *Client) UploadPoster(ctx context.Context, seriesID int, file File, token string) (models.EventSeries, error) {
	if err := requireToken(token); err != nil {
		return models.EventSeries{}, err
	}
	var s models.EventSeries
	req := request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/events/%d/poster", seriesID),
		token:       token,
		uploadField: "poster",
		upload:      &file,
	}
	if err := c.do(ctx, "upload poster", req, &s); err != nil {
		return models.EventSeries{}, err
	}
	return normalizeSeries(s), nil
}

func normalizeSeries(s models.EventSeries) models.EventSeries {
	if s.Events == nil {
		s.Events = []models.Event{}
	}
	return s
}

func normalizeSeriesList(list []models.EventSeries) []models.EventSeries {
	if list == nil {
		return []models.EventSeries{}
	}
	for i := range list {
		list[i] = normalizeSeries(list[i])
	}
	return list
}
