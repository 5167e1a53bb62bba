package testutil

import (
	"context"
	"testing"

	snapshotstore "github.com/thegrapefruitsduo/tgdweb/internal/app/store/snapshot"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
	"go.uber.org/zap"
)

// SampleSnapshot returns a root document with the group, two musicians and
// one series of two events.
func SampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Version: "1.4.0",
		Group: models.Group{
			ID:           1,
			Name:         "The Grapefruits Duo",
			Bio:          "A clarinet and percussion duo.",
			LivestreamID: "dQw4w9WgXcQ",
		},
		Musicians: []models.Musician{
			{ID: 1, Name: "Rachel", Bio: "Clarinetist.", HeadshotID: "rachel.jpg"},
			{ID: 2, Name: "Amy", Bio: "Percussionist."},
		},
		Events: []models.EventSeries{
			{
				SeriesID:    7,
				Name:        "Spring Tour",
				Description: "Four cities in April.",
				PosterID:    "spring.png",
				Events: []models.Event{
					{EventID: 11, Location: "Columbia, MO", Time: "2026-04-03T19:30:00", TicketURL: "https://tickets.example.com/11"},
					{EventID: 12, Location: "Kansas City, MO", Time: "2026-04-05T15:00:00"},
				},
			},
		},
	}
}

// NewStore returns a snapshot store already holding snap.
func NewStore(t *testing.T, snap models.Snapshot) *snapshotstore.Store {
	t.Helper()
	api := &FakeAPI{Snapshot: snap}
	st := snapshotstore.New(api, 0, zap.NewNop())
	if _, err := st.Get(context.Background()); err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	return st
}
