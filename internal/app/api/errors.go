package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoToken is returned by mutating operations called without a token.
var ErrNoToken = errors.New("api: bearer token required")

// Error describes a failed API operation.
//
// Status is zero for transport failures (connection refused, timeout,
// undecodable response); Err then holds the cause. For non-2xx responses
// Status is the HTTP status and Detail the server's message, if any.
type Error struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("api: %s: status %d: %s", e.Op, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("api: %s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("api: %s: %v", e.Op, e.Err)
	default:
		return "api: " + e.Op + ": failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsStatus reports whether err is an *Error carrying the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Detail returns a short human-readable reason for err, preferring the
// server-supplied detail message.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoToken) {
		return "you are not signed in"
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	if apiErr.Status != 0 {
		return http.StatusText(apiErr.Status)
	}
	return "the server could not be reached"
}

// parseDetail extracts the "detail" member of an error body. The API sends
// either a string or, for request validation failures, a list of objects
// each carrying a "msg".
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
		Loc []any  `json:"loc"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if field := lastLoc(it.Loc); field != "" {
				msgs = append(msgs, field+": "+it.Msg)
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}

// ResponseStatus is the status a page should answer with when an API call
// fails: auth and lookup failures pass through, rejected input becomes 422
// and everything else is a bad gateway.
func ResponseStatus(err error) int {
	if errors.Is(err, ErrNoToken) {
		return http.StatusUnauthorized
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	switch apiErr.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return apiErr.Status
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
