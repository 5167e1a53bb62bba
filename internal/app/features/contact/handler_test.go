package contact_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/features/contact"
	errorsfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/errors"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/ratelimit"
	"github.com/thegrapefruitsduo/tgdweb/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, perWindow int) (*contact.Handler, *testutil.FakeAPI, *testutil.Renderer) {
	t.Helper()
	fake := &testutil.FakeAPI{}
	rn := &testutil.Renderer{}
	limiter := ratelimit.NewSubmitLimiter(perWindow, time.Minute)
	t.Cleanup(limiter.Stop)
	h := contact.NewHandler(fake, limiter, rn, errorsfeature.NewErrorLogger(zap.NewNop(), rn), zap.NewNop())
	return h, fake, rn
}

func post(form url.Values) *http.Request {
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Jane"},
		"email":   {"jane@example.com"},
		"message": {"Are you available in June?"},
	}
}

func TestServeForm_IsEmpty(t *testing.T) {
	h, _, rn := newTestHandler(t, 5)

	req := httptest.NewRequest("GET", "/contact/form", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeForm(httptest.NewRecorder(), req)

	got := rn.Last(t)
	assert.Equal(t, "contact_form", got.Name)
	fields := testutil.Fields(got.Data)
	assert.Equal(t, "", fields["Name"])
	assert.Equal(t, "", fields["Email"])
	assert.Equal(t, "", fields["Message"])
}

func TestHandleSubmit_SendsAndGreetsByName(t *testing.T) {
	h, fake, rn := newTestHandler(t, 5)

	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, post(validForm()))

	assert.Equal(t, http.StatusOK, rec.Code)
	calls := fake.Called("PostMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, api.Message{Name: "Jane", Email: "jane@example.com", Message: "Are you available in June?"}, calls[0].Arg)

	got := rn.Last(t)
	assert.Equal(t, "contact_sent", got.Name)
	assert.Equal(t, "Jane", testutil.Fields(got.Data)["Name"])
}

func TestHandleSubmit_StripsMarkup(t *testing.T) {
	h, fake, _ := newTestHandler(t, 5)

	form := validForm()
	form.Set("message", `Hi <script>alert(1)</script><b>there</b>`)
	h.HandleSubmit(httptest.NewRecorder(), post(form))

	calls := fake.Called("PostMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "Hi there", calls[0].Arg.(api.Message).Message)
}

func TestHandleSubmit_InvalidEmail(t *testing.T) {
	h, fake, rn := newTestHandler(t, 5)

	form := validForm()
	form.Set("email", "jane at example")
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, post(form))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, fake.Called("PostMessage"))
	fields := testutil.Fields(rn.Last(t).Data)
	assert.Contains(t, fields["Error"], "A valid email address is required.")
	assert.Equal(t, "Jane", fields["Name"], "input is echoed back")
}

func TestHandleSubmit_APIFailure(t *testing.T) {
	h, fake, rn := newTestHandler(t, 5)
	fake.Errs = map[string]error{"PostMessage": &api.Error{Status: http.StatusServiceUnavailable, Detail: "Mail service unavailable"}}

	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, post(validForm()))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, testutil.Fields(rn.Last(t).Data)["Error"], "Failed to send message: Mail service unavailable")
}

func TestHandleSubmit_RateLimited(t *testing.T) {
	h, fake, _ := newTestHandler(t, 2)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.HandleSubmit(rec, post(validForm()))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, post(validForm()))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Len(t, fake.Called("PostMessage"), 2)
}
