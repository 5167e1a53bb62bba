// internal/app/store/snapshot/snapshotstore.go
package snapshotstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/editstate"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found in snapshot")

// Fetcher loads the root document. *api.Client satisfies it.
type Fetcher interface {
	GetRoot(ctx context.Context) (models.Snapshot, error)
}

// Store holds the one snapshot the process renders from.
//
// Reads return deep copies. Writes replace one entity at a time with the
// copy the API returned; the last successful response wins and nothing is
// merged.
type Store struct {
	fetcher Fetcher
	maxAge  time.Duration
	log     *zap.Logger
	now     func() time.Time

	loads singleflight.Group

	mu        sync.RWMutex
	snap      *models.Snapshot
	fetchedAt time.Time
}

// New builds a Store. maxAge of zero keeps the snapshot until an edit
// replaces part of it or the process restarts.
func New(f Fetcher, maxAge time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		fetcher: f,
		maxAge:  maxAge,
		log:     logger,
		now:     time.Now,
	}
}

// Get returns the held snapshot, fetching it first when none is held or it
// is stale. Concurrent callers share one fetch. When a refetch fails but an
// older snapshot is held, the older one is returned.
func (s *Store) Get(ctx context.Context) (models.Snapshot, error) {
	s.mu.RLock()
	held, fresh := s.snap, s.freshLocked()
	s.mu.RUnlock()

	if held != nil && fresh {
		return s.copy()
	}

	if err := s.load(ctx); err != nil {
		if held != nil {
			s.log.Warn("snapshot refresh failed; serving stale copy", zap.Error(err))
			return s.copy()
		}
		return models.Snapshot{}, err
	}
	return s.copy()
}

// Refresh refetches the snapshot unconditionally.
func (s *Store) Refresh(ctx context.Context) error {
	return s.load(ctx)
}

// Held returns the snapshot without fetching.
func (s *Store) Held() (models.Snapshot, bool) {
	snap, err := s.copy()
	return snap, err == nil
}

// FetchedAt is when the held snapshot was loaded; zero if none.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// Group returns the held group.
func (s *Store) Group() (models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return models.Group{}, ErrNotFound
	}
	return s.snap.Group, nil
}

// Musician returns the held musician with id.
func (s *Store) Musician(id int) (models.Musician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap != nil {
		for _, m := range s.snap.Musicians {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return models.Musician{}, fmt.Errorf("musician %d: %w", id, ErrNotFound)
}

// Series returns the held event series with id.
func (s *Store) Series(id int) (models.EventSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap != nil {
		for _, es := range s.snap.Events {
			if es.SeriesID == id {
				return es.Clone(), nil
			}
		}
	}
	return models.EventSeries{}, fmt.Errorf("series %d: %w", id, ErrNotFound)
}

// Apply replaces the held copy of e's payload with e's payload. A series
// not yet held is appended. Last write wins.
func (s *Store) Apply(e editstate.Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return fmt.Errorf("apply %s: %w", e.Kind, ErrNotFound)
	}

	switch e.Kind {
	case editstate.KindGroup:
		s.snap.Group = *e.Group
		return nil

	case editstate.KindMusician:
		for i := range s.snap.Musicians {
			if s.snap.Musicians[i].ID == e.Musician.ID {
				s.snap.Musicians[i] = *e.Musician
				return nil
			}
		}
		return fmt.Errorf("musician %d: %w", e.Musician.ID, ErrNotFound)

	case editstate.KindSeries:
		series := e.Series.Clone()
		for i := range s.snap.Events {
			if s.snap.Events[i].SeriesID == series.SeriesID {
				s.snap.Events[i] = series
				return nil
			}
		}
		s.snap.Events = append(s.snap.Events, series)
		return nil

	default:
		return fmt.Errorf("%w: %s", editstate.ErrBadEntity, e.Kind)
	}
}

// RemoveSeries drops a deleted series from the held snapshot.
func (s *Store) RemoveSeries(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil {
		for i := range s.snap.Events {
			if s.snap.Events[i].SeriesID == id {
				s.snap.Events = append(s.snap.Events[:i], s.snap.Events[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("series %d: %w", id, ErrNotFound)
}

func (s *Store) load(ctx context.Context) error {
	ch := s.loads.DoChan("root", func() (any, error) {
		snap, err := s.fetcher.GetRoot(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snap = &snap
		s.fetchedAt = s.now()
		s.mu.Unlock()

		s.log.Info("snapshot loaded",
			zap.String("version", snap.Version),
			zap.Int("musicians", len(snap.Musicians)),
			zap.Int("series", len(snap.Events)))
		return nil, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return fmt.Errorf("load snapshot: %w", res.Err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) freshLocked() bool {
	if s.maxAge <= 0 {
		return true
	}
	return s.now().Sub(s.fetchedAt) < s.maxAge
}

func (s *Store) copy() (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return models.Snapshot{}, ErrNotFound
	}
	return s.snap.Clone(), nil
}
