// Package api is the HTTP client for The Grapefruits Duo REST API.
//
// Every remote resource gets one method on *Client. Reads are anonymous;
// mutations take the caller's bearer token explicitly and fail with
// ErrNoToken before any network traffic when it is empty.
//
// Responses are decoded field-for-field into internal/domain/models records.
// List fields keep the server's order and are never nil.
//
// The client does not retry, cache, or deduplicate calls. Any transport
// failure or non-2xx status comes back as *Error; use Detail to get a
// message fit for showing next to a form.
package api
