package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
)

// GetUsers lists the admin users.
func (c *Client) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, "get users", request{method: http.MethodGet, path: "/users/"}, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetUser fetches one admin user.
func (c *Client) GetUser(ctx context.Context, id int) (models.User, error) {
	var u models.User
	path := fmt.Sprintf("/users/%d/", id)
	if err := c.do(ctx, "get user", request{method: http.MethodGet, path: path}, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// RegisterUser tells the API about the holder of token. The API derives the
// user from the token's claims; a failure means the credential was rejected.
func (c *Client) RegisterUser(ctx context.Context, token string) (models.User, error) {
	if err := requireToken(token); err != nil {
		return models.User{}, err
	}
	var u models.User
	req := request{method: http.MethodPost, path: "/users/", token: token, body: struct{}{}}
	if err := c.do(ctx, "register user", req, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
