package api

import (
	"context"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
)

// GetGroup fetches the group.
func (c *Client) GetGroup(ctx context.Context) (models.Group, error) {
	var g models.Group
	if err := c.do(ctx, "get group", request{method: http.MethodGet, path: "/group/"}, &g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// PatchGroup sends the whole group and returns the server's copy.
func (c *Client) PatchGroup(ctx context.Context, group models.Group, token string) (models.Group, error) {
	if err := requireToken(token); err != nil {
		return models.Group{}, err
	}
	var g models.Group
	req := request{method: http.MethodPatch, path: "/group/", token: token, body: group}
	if err := c.do(ctx, "patch group", req, &g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}
