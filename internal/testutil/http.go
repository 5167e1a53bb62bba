package testutil

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
)

// AdminToken is the identity token carried by AdminSession.
const AdminToken = "test-admin-token"

// AdminSession returns a signed-in session for testing edit handlers.
func AdminSession() auth.Session {
	return auth.Session{
		Token: AdminToken,
		Name:  "Test Admin",
		Email: "admin@test.com",
	}
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAdminRequest creates a request carrying AdminSession.
func NewAdminRequest(method, target string) *http.Request {
	return auth.WithSession(httptest.NewRequest(method, target, nil), AdminSession())
}

// FormRequest creates a url-encoded POST carrying AdminSession.
func FormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return auth.WithSession(req, AdminSession())
}

// UploadRequest creates a multipart POST with one file part, carrying
// AdminSession.
func UploadRequest(t *testing.T, target, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return auth.WithSession(req, AdminSession())
}

// HTMX marks r as issued by htmx.
func HTMX(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}

/*─────────────────────────────────────────────────────────────────────────────*
| Renderer                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Rendered is one captured render call.
type Rendered struct {
	Name    string
	Data    any
	Snippet bool
}

// Renderer records render calls instead of executing templates.
type Renderer struct {
	mu    sync.Mutex
	calls []Rendered
}

func (rr *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data any) {
	rr.record(Rendered{Name: name, Data: data})
}

func (rr *Renderer) Snippet(w http.ResponseWriter, name string, data any) {
	rr.record(Rendered{Name: name, Data: data, Snippet: true})
}

func (rr *Renderer) record(c Rendered) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.calls = append(rr.calls, c)
}

// Last returns the most recent render call. It fails the test if nothing
// was rendered.
func (rr *Renderer) Last(t *testing.T) Rendered {
	t.Helper()
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if len(rr.calls) == 0 {
		t.Fatal("nothing was rendered")
	}
	return rr.calls[len(rr.calls)-1]
}

// Count is the number of render calls so far.
func (rr *Renderer) Count() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return len(rr.calls)
}
