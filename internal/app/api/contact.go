package api

import (
	"context"
	"net/http"
)

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// PostMessage forwards a contact message. It needs no token.
func (c *Client) PostMessage(ctx context.Context, msg Message) error {
	return c.do(ctx, "post message", request{method: http.MethodPost, path: "/contact/", body: msg}, nil)
}
