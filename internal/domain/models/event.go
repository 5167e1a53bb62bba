// internal/domain/models/event.go
package models

import (
	"strings"
	"time"
)

// Event is a single concert date. It belongs to exactly one EventSeries.
//
// Time is kept as the ISO-8601 string the API sends; use ParsedTime for
// formatting. TicketURL and MapURL are optional.
type Event struct {
	EventID   int    `json:"event_id"`
	Location  string `json:"location"`
	Time      string `json:"time"`
	TicketURL string `json:"ticket_url,omitempty"`
	MapURL    string `json:"map_url,omitempty"`
}

// EventSeries is a named, described, ordered collection of events with an
// optional poster image.
type EventSeries struct {
	SeriesID    int     `json:"series_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Events      []Event `json:"events"`
	PosterID    string  `json:"poster_id,omitempty"`
}

// Clone returns a copy of s that shares no event storage with s.
func (s EventSeries) Clone() EventSeries {
	out := s
	out.Events = make([]Event, len(s.Events))
	copy(out.Events, s.Events)
	return out
}

// HasPoster reports whether a poster image has been uploaded.
func (s EventSeries) HasPoster() bool {
	return s.PosterID != ""
}

// timeLayouts are the formats the API and browsers produce for event times.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// FormTimeLayout is the value format of an <input type="datetime-local">.
const FormTimeLayout = "2006-01-02T15:04"

// ParsedTime parses Time. Times without a zone are read as local wall-clock
// time, which is how the venue listings are entered. An unparseable or empty
// value returns the zero time.
func (e Event) ParsedTime() time.Time {
	raw := strings.TrimSpace(e.Time)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormTime renders Time for a datetime-local input. Unparseable values are
// passed through unchanged so the editor can see and fix them.
func (e Event) FormTime() string {
	t := e.ParsedTime()
	if t.IsZero() {
		return e.Time
	}
	return t.Format(FormTimeLayout)
}

// DisplayTime renders Time for the public listing.
func (e Event) DisplayTime() string {
	t := e.ParsedTime()
	if t.IsZero() {
		return e.Time
	}
	return t.Format("Monday, January 2, 2006 · 3:04 PM")
}
