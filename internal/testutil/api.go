package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/api"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
)

// Call is one recorded FakeAPI call.
type Call struct {
	Method string
	Token  string
	Arg    any
}

// FakeAPI stands in for *api.Client. Write methods echo their input the way
// the server does, assigning ids to new records. Errs makes a method fail.
type FakeAPI struct {
	Snapshot models.Snapshot
	Errs     map[string]error

	mu       sync.Mutex
	calls    []Call
	nextID   int
	uploaded []byte
}

func (f *FakeAPI) record(method, token string, arg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: method, Token: token, Arg: arg})
	return f.Errs[method]
}

// Calls returns the calls made so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Called returns the recorded calls to method.
func (f *FakeAPI) Called(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Uploaded returns the bytes of the last file upload.
func (f *FakeAPI) Uploaded() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploaded
}

func (f *FakeAPI) id() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextID == 0 {
		f.nextID = 100
	}
	f.nextID++
	return f.nextID
}

func (f *FakeAPI) GetRoot(ctx context.Context) (models.Snapshot, error) {
	if err := f.record("GetRoot", "", nil); err != nil {
		return models.Snapshot{}, err
	}
	return f.Snapshot.Clone(), nil
}

func (f *FakeAPI) Ping(ctx context.Context) error {
	return f.record("Ping", "", nil)
}

func (f *FakeAPI) RegisterUser(ctx context.Context, token string) (models.User, error) {
	if err := f.record("RegisterUser", token, nil); err != nil {
		return models.User{}, err
	}
	return models.User{ID: 1, Name: "Test Admin", Email: "admin@test.com"}, nil
}

func (f *FakeAPI) PatchGroup(ctx context.Context, g models.Group, token string) (models.Group, error) {
	if err := f.record("PatchGroup", token, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (f *FakeAPI) PatchMusician(ctx context.Context, m models.Musician, token string) (models.Musician, error) {
	if err := f.record("PatchMusician", token, m); err != nil {
		return models.Musician{}, err
	}
	return m, nil
}

func (f *FakeAPI) UploadHeadshot(ctx context.Context, id int, file api.File, token string) (models.Musician, error) {
	if err := f.record("UploadHeadshot", token, id); err != nil {
		return models.Musician{}, err
	}
	if err := f.keep(file); err != nil {
		return models.Musician{}, err
	}
	for _, m := range f.Snapshot.Musicians {
		if m.ID == id {
			m.HeadshotID = file.Name
			return m, nil
		}
	}
	return models.Musician{}, &api.Error{Op: "upload headshot", Status: 404, Detail: "Musician not found"}
}

func (f *FakeAPI) CreateSeries(ctx context.Context, s models.EventSeries, token string) (models.EventSeries, error) {
	if err := f.record("CreateSeries", token, s.Clone()); err != nil {
		return models.EventSeries{}, err
	}
	s = s.Clone()
	s.SeriesID = f.id()
	for i := range s.Events {
		s.Events[i].EventID = f.id()
	}
	return s, nil
}

func (f *FakeAPI) UpdateSeries(ctx context.Context, s models.EventSeries, token string) (models.EventSeries, error) {
	if err := f.record("UpdateSeries", token, s.Clone()); err != nil {
		return models.EventSeries{}, err
	}
	s = s.Clone()
	for i := range s.Events {
		if s.Events[i].EventID == 0 {
			s.Events[i].EventID = f.id()
		}
	}
	return s, nil
}

func (f *FakeAPI) DeleteSeries(ctx context.Context, id int, token string) error {
	return f.record("DeleteSeries", token, id)
}

func (f *FakeAPI) UploadPoster(ctx context.Context, id int, file api.File, token string) (models.EventSeries, error) {
	if err := f.record("UploadPoster", token, id); err != nil {
		return models.EventSeries{}, err
	}
	if err := f.keep(file); err != nil {
		return models.EventSeries{}, err
	}
	for _, s := range f.Snapshot.Events {
		if s.SeriesID == id {
			s = s.Clone()
			s.PosterID = file.Name
			return s, nil
		}
	}
	return models.EventSeries{}, &api.Error{Op: "upload poster", Status: 404, Detail: "Event series not found"}
}

func (f *FakeAPI) PostMessage(ctx context.Context, msg api.Message) error {
	return f.record("PostMessage", "", msg)
}

func (f *FakeAPI) keep(file api.File) error {
	if file.Body == nil {
		return fmt.Errorf("upload %s: empty body", file.Name)
	}
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.uploaded = data
	f.mu.Unlock()
	return nil
}
