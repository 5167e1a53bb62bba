package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
)

// GetMusicians lists the musicians in server order.
func (c *Client) GetMusicians(ctx context.Context) ([]models.Musician, error) {
	var ms []models.Musician
	if err := c.do(ctx, "get musicians", request{method: http.MethodGet, path: "/musicians/"}, &ms); err != nil {
		return nil, err
	}
	if ms == nil {
		ms = []models.Musician{}
	}
	return ms, nil
}

// GetMusician fetches one musician.
func (c *Client) GetMusician(ctx context.Context, id int) (models.Musician, error) {
	var m models.Musician
	path := fmt.Sprintf("/musicians/%d", id)
	if err := c.do(ctx, "get musician", request{method: http.MethodGet, path: path}, &m); err != nil {
		return models.Musician{}, err
	}
	return m, nil
}

// PatchMusician sends the whole musician and returns the server's copy.
func (c *Client) PatchMusician(ctx context.Context, musician models.Musician, token string) (models.Musician, error) {
	if err := requireToken(token); err != nil {
		return models.Musician{}, err
	}
	var m models.Musician
	req := request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/musicians/%d/", musician.ID),
		token:  token,
		body:   musician,
	}
	if err := c.do(ctx, "patch musician", req, &m); err != nil {
		return models.Musician{}, err
	}
	return m, nil
}

// UploadHeadshot replaces a musician's headshot. The image is sent as the
// multipart field "file".
func (c *Client) UploadHeadshot(ctx context.Context, musicianID int, file File, token string) (models.Musician, error) {
	if err := requireToken(token); err != nil {
		return models.Musician{}, err
	}
	var m models.Musician
	req := request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/musicians/%d/headshot", musicianID),
		token:       token,
		uploadField: "file",
		upload:      &file,
	}
	if err := c.do(ctx, "upload headshot", req, &m); err != nil {
		return models.Musician{}, err
	}
	return m, nil
}
