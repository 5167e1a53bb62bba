package series_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	errorsfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/errors"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/features/series"
	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/editstate"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/images"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/uploadpolicy"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"github.com/thegrapefruitsduo/tgdweb/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	h     *series.Handler
	api   *testutil.FakeAPI
	store *snapshotstore.Store
	rn    *testutil.Renderer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	fake := &testutil.FakeAPI{Snapshot: testutil.SampleSnapshot()}
	st := testutil.NewStore(t, fake.Snapshot)
	rn := &testutil.Renderer{}
	h := series.NewHandler(fake, st,
		images.NewResolver("https://img.example.com"),
		uploadpolicy.Default(0),
		rn, errorsfeature.NewErrorLogger(zap.NewNop(), rn), zap.NewNop())
	return fixture{h: h, api: fake, store: st, rn: rn}
}

// heldForm is the edit form for the sample series exactly as prefilled.
func heldForm() url.Values {
	return url.Values{
		"series_id":   {"7"},
		"name":        {"Spring Tour"},
		"description": {"Four cities in April."},
		"event_id":    {"11", "12"},
		"location":    {"Columbia, MO", "Kansas City, MO"},
		"time":        {"2026-04-03T19:30", "2026-04-05T15:00"},
		"ticket_url":  {"https://tickets.example.com/11", ""},
		"map_url":     {"", ""},
	}
}

func draftOf(t *testing.T, r testutil.Rendered) *editstate.SeriesDraft {
	t.Helper()
	d, ok := testutil.Fields(r.Data)["Draft"].(*editstate.SeriesDraft)
	require.True(t, ok, "view model has no draft")
	return d
}

func withID(r *http.Request, id string) *http.Request {
	return testutil.WithChiURLParam(r, "id", id)
}

func TestServeNew_StartsWithOneBlankEvent(t *testing.T) {
	f := newFixture(t)

	f.h.ServeNew(httptest.NewRecorder(), testutil.HTMX(testutil.NewAdminRequest("GET", "/series/new")))

	got := f.rn.Last(t)
	assert.Equal(t, "series_form", got.Name)
	d := draftOf(t, got)
	assert.True(t, d.IsNew())
	require.Len(t, d.Events, 1)
	assert.Equal(t, "new:0", d.Events[0].Key)

	fields := testutil.Fields(got.Data)
	assert.Equal(t, series.PosterHint, fields["Hint"])
	assert.Equal(t, "/series/new", fields["Action"])
}

func TestHandleCreate_SendsWholeSeries(t *testing.T) {
	f := newFixture(t)

	form := url.Values{
		"series_id":   {""},
		"name":        {"Summer Nights"},
		"description": {"Outdoor shows."},
		"event_id":    {"", ""},
		"location":    {"St. Louis, MO", "Chicago, IL"},
		"time":        {"2026-07-01T20:00", "2026-07-03T20:00"},
		"ticket_url":  {"", "https://tickets.example.com/chi"},
		"map_url":     {"https://maps.example.com/stl", ""},
	}
	rec := httptest.NewRecorder()
	f.h.HandleCreate(rec, testutil.HTMX(testutil.FormRequest("/series/new", form)))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/#series-101", rec.Header().Get("HX-Redirect"))

	calls := f.api.Called("CreateSeries")
	require.Len(t, calls, 1)
	sent := calls[0].Arg.(models.EventSeries)
	require.Len(t, sent.Events, 2)
	assert.Equal(t, "St. Louis, MO", sent.Events[0].Location)
	assert.Equal(t, "https://tickets.example.com/chi", sent.Events[1].TicketURL)

	held, err := f.store.Series(101)
	require.NoError(t, err)
	assert.Equal(t, "Summer Nights", held.Name)
	assert.Len(t, held.Events, 2)
}

func TestHandleCreate_ValidationErrorsPerField(t *testing.T) {
	f := newFixture(t)

	form := url.Values{
		"name":        {""},
		"description": {"Outdoor shows."},
		"event_id":    {""},
		"location":    {"St. Louis, MO"},
		"time":        {"soon"},
		"ticket_url":  {"tickets.example.com"},
		"map_url":     {""},
	}
	rec := httptest.NewRecorder()
	f.h.HandleCreate(rec, testutil.HTMX(testutil.FormRequest("/series/new", form)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, f.api.Called("CreateSeries"))

	fe := testutil.Fields(f.rn.Last(t).Data)["FieldErrors"].(editstate.FieldErrors)
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "new:0.time")
	assert.Contains(t, fe, "new:0.ticket_url")
	assert.NotContains(t, fe, "new:0.location")
}

func TestHandleEdit_UnchangedIsRefused(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.HandleEdit(rec, withID(testutil.HTMX(testutil.FormRequest("/series/7/edit", heldForm())), "7"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, f.api.Called("UpdateSeries"))
	assert.Contains(t, testutil.Fields(f.rn.Last(t).Data)["Error"], "Nothing to save")
}

func TestHandleEdit_RemovedEventIsDropped(t *testing.T) {
	f := newFixture(t)

	form := heldForm()
	form["event_id"] = []string{"11"}
	form["location"] = []string{"Columbia, MO"}
	form["time"] = []string{"2026-04-03T19:30"}
	form["ticket_url"] = []string{"https://tickets.example.com/11"}
	form["map_url"] = []string{""}

	rec := httptest.NewRecorder()
	f.h.HandleEdit(rec, withID(testutil.FormRequest("/series/7/edit", form), "7"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#series-7", rec.Header().Get("Location"))

	calls := f.api.Called("UpdateSeries")
	require.Len(t, calls, 1)
	sent := calls[0].Arg.(models.EventSeries)
	assert.Equal(t, 7, sent.SeriesID)
	assert.Equal(t, "spring.png", sent.PosterID, "poster id is kept on update")
	require.Len(t, sent.Events, 1)
	assert.Equal(t, 11, sent.Events[0].EventID)

	held, err := f.store.Series(7)
	require.NoError(t, err)
	assert.Len(t, held.Events, 1)
}

func TestHandleEdit_APIFailureKeepsHeldCopy(t *testing.T) {
	f := newFixture(t)
	f.api.Errs = map[string]error{"UpdateSeries": &api.Error{Status: http.StatusUnprocessableEntity, Detail: "time: invalid datetime"}}

	form := heldForm()
	form.Set("name", "Spring Tour 2026")
	rec := httptest.NewRecorder()
	f.h.HandleEdit(rec, withID(testutil.HTMX(testutil.FormRequest("/series/7/edit", form)), "7"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, testutil.Fields(f.rn.Last(t).Data)["Error"], "Failed to update event series: time: invalid datetime")

	held, err := f.store.Series(7)
	require.NoError(t, err)
	assert.Equal(t, "Spring Tour", held.Name)
}

func TestHandleFormChange_Add(t *testing.T) {
	f := newFixture(t)

	form := heldForm()
	form.Set("op", "add")
	f.h.HandleFormChange(httptest.NewRecorder(), testutil.HTMX(testutil.FormRequest("/series/form", form)))

	got := f.rn.Last(t)
	assert.Equal(t, "series_form", got.Name)
	d := draftOf(t, got)
	require.Len(t, d.Events, 3)
	assert.Equal(t, "new:0", d.Events[2].Key)
	assert.Equal(t, true, testutil.Fields(got.Data)["Dirty"])
	assert.Empty(t, f.api.Calls(), "form changes never reach the API")
}

func TestHandleFormChange_RemoveByIdentity(t *testing.T) {
	f := newFixture(t)

	form := heldForm()
	form.Set("op", "remove:id:11")
	f.h.HandleFormChange(httptest.NewRecorder(), testutil.HTMX(testutil.FormRequest("/series/form", form)))

	d := draftOf(t, f.rn.Last(t))
	require.Len(t, d.Events, 1)
	assert.Equal(t, 12, d.Events[0].EventID)
}

func TestHandleFormChange_UnknownOp(t *testing.T) {
	f := newFixture(t)

	form := heldForm()
	form.Set("op", "explode")
	rec := httptest.NewRecorder()
	f.h.HandleFormChange(rec, testutil.HTMX(testutil.FormRequest("/series/form", form)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.HandleDelete(rec, withID(testutil.HTMX(testutil.FormRequest("/series/7/delete", url.Values{})), "7"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/#events", rec.Header().Get("HX-Redirect"))
	calls := f.api.Called("DeleteSeries")
	require.Len(t, calls, 1)
	assert.Equal(t, 7, calls[0].Arg)
	assert.Equal(t, testutil.AdminToken, calls[0].Token)

	_, err := f.store.Series(7)
	assert.ErrorIs(t, err, snapshotstore.ErrNotFound)
}

func TestHandleDelete_Failure(t *testing.T) {
	f := newFixture(t)
	f.api.Errs = map[string]error{"DeleteSeries": &api.Error{Status: http.StatusForbidden, Detail: "Not an admin"}}

	rec := httptest.NewRecorder()
	f.h.HandleDelete(rec, withID(testutil.HTMX(testutil.FormRequest("/series/7/delete", url.Values{})), "7"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "series_delete_form", f.rn.Last(t).Name)
	_, err := f.store.Series(7)
	assert.NoError(t, err)
}

func TestServeEdit_UnknownSeries(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.h.ServeEdit(rec, withID(testutil.NewAdminRequest("GET", "/series/99/edit"), "99"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePoster_Uploads(t *testing.T) {
	f := newFixture(t)
	jpeg := append([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), make([]byte, 32)...)

	req := testutil.UploadRequest(t, "/series/7/poster", "poster", "spring-2026.jpg", "image/jpeg", jpeg)
	rec := httptest.NewRecorder()
	f.h.HandlePoster(rec, withID(testutil.HTMX(req), "7"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/#series-7", rec.Header().Get("HX-Redirect"))
	held, err := f.store.Series(7)
	require.NoError(t, err)
	assert.Equal(t, "spring-2026.jpg", held.PosterID)
	assert.Len(t, held.Events, 2)
}

func TestHandlePoster_MissingFile(t *testing.T) {
	f := newFixture(t)

	req := testutil.UploadRequest(t, "/series/7/poster", "other", "x.jpg", "image/jpeg", []byte("\xff\xd8\xff"))
	rec := httptest.NewRecorder()
	f.h.HandlePoster(rec, withID(testutil.HTMX(req), "7"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, f.api.Called("UploadPoster"))
	assert.Contains(t, testutil.Fields(f.rn.Last(t).Data)["Error"], "choose an image to upload.")
}
