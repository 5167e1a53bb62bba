package editstate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
)

// EventField is one event sub-form. Key identifies it within the draft:
// "id:<event_id>" for a saved event, "new:<n>" for the n-th unsaved one.
type EventField struct {
	Key       string
	EventID   int
	Location  string
	Time      string
	TicketURL string
	MapURL    string
}

// IsNew reports whether the event has not been saved yet.
func (f EventField) IsNew() bool { return f.EventID == 0 }

// SeriesDraft is the editable form state of an event series.
type SeriesDraft struct {
	SeriesID    int
	Name        string
	Description string
	PosterID    string
	Events      []EventField
}

// NewSeriesDraft prefills a draft from a held series. A zero series yields
// a create draft with one blank event.
func NewSeriesDraft(s models.EventSeries) *SeriesDraft {
	d := &SeriesDraft{
		SeriesID:    s.SeriesID,
		Name:        s.Name,
		Description: s.Description,
		PosterID:    s.PosterID,
	}
	for _, ev := range s.Events {
		d.Events = append(d.Events, EventField{
			EventID:   ev.EventID,
			Location:  ev.Location,
			Time:      ev.FormTime(),
			TicketURL: ev.TicketURL,
			MapURL:    ev.MapURL,
		})
	}
	if s.SeriesID == 0 && len(d.Events) == 0 {
		d.Events = append(d.Events, EventField{})
	}
	d.rekey()
	return d
}

// IsNew reports whether the series has not been saved yet.
func (d *SeriesDraft) IsNew() bool { return d.SeriesID == 0 }

// AddEvent appends a blank sub-form and returns its key.
func (d *SeriesDraft) AddEvent() string {
	d.Events = append(d.Events, EventField{})
	d.rekey()
	return d.Events[len(d.Events)-1].Key
}

// Remove deletes the sub-form with the given key. It reports whether one
// was found.
func (d *SeriesDraft) Remove(key string) bool {
	for i, f := range d.Events {
		if f.Key == key {
			d.Events = append(d.Events[:i], d.Events[i+1:]...)
			d.rekey()
			return true
		}
	}
	return false
}

// Build reconstructs the full ordered series from the current fields.
func (d *SeriesDraft) Build() models.EventSeries {
	s := models.EventSeries{
		SeriesID:    d.SeriesID,
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		PosterID:    d.PosterID,
		Events:      make([]models.Event, 0, len(d.Events)),
	}
	for _, f := range d.Events {
		s.Events = append(s.Events, models.Event{
			EventID:   f.EventID,
			Location:  strings.TrimSpace(f.Location),
			Time:      strings.TrimSpace(f.Time),
			TicketURL: strings.TrimSpace(f.TicketURL),
			MapURL:    strings.TrimSpace(f.MapURL),
		})
	}
	return s
}

// FieldErrors maps a form field to its message. Event fields are keyed
// "<event key>.<field>".
type FieldErrors map[string]string

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// Summary joins the messages in a stable order for an inline error banner.
func (fe FieldErrors) Summary(order []string) string {
	msgs := make([]string, 0, len(fe))
	seen := make(map[string]bool, len(fe))
	for _, k := range order {
		if m, ok := fe[k]; ok && !seen[m] {
			msgs = append(msgs, m)
			seen[m] = true
		}
	}
	return strings.Join(msgs, " ")
}

// Validate checks required fields and URL shapes.
func (d *SeriesDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Series name is required."
	}
	if strings.TrimSpace(d.Description) == "" {
		errs["description"] = "Series description is required."
	}
	for i, f := range d.Events {
		n := i + 1
		if strings.TrimSpace(f.Location) == "" {
			errs[f.Key+".location"] = fmt.Sprintf("Event %d needs a location.", n)
		}
		t := strings.TrimSpace(f.Time)
		switch {
		case t == "":
			errs[f.Key+".time"] = fmt.Sprintf("Event %d needs a date and time.", n)
		case (models.Event{Time: t}).ParsedTime().IsZero():
			errs[f.Key+".time"] = fmt.Sprintf("Event %d has an invalid date and time.", n)
		}
		if u := strings.TrimSpace(f.TicketURL); u != "" && !urlutil.IsValidAbsHTTPURL(u) {
			errs[f.Key+".ticket_url"] = fmt.Sprintf("Event %d ticket link must start with http:// or https://.", n)
		}
		if u := strings.TrimSpace(f.MapURL); u != "" && !urlutil.IsValidAbsHTTPURL(u) {
			errs[f.Key+".map_url"] = fmt.Sprintf("Event %d map link must start with http:// or https://.", n)
		}
	}
	return errs
}

// FieldOrder lists the keys Validate may produce, in form order.
func (d *SeriesDraft) FieldOrder() []string {
	order := []string{"name", "description"}
	for _, f := range d.Events {
		order = append(order,
			f.Key+".location", f.Key+".time", f.Key+".ticket_url", f.Key+".map_url")
	}
	return order
}

// Changed reports whether the draft differs from held.
func (d *SeriesDraft) Changed(held models.EventSeries) bool {
	return Draft{Held: SeriesEntity(held), Edited: SeriesEntity(d.Build())}.Changed()
}

func (d *SeriesDraft) rekey() {
	n := 0
	for i := range d.Events {
		if d.Events[i].EventID != 0 {
			d.Events[i].Key = "id:" + strconv.Itoa(d.Events[i].EventID)
			continue
		}
		d.Events[i].Key = "new:" + strconv.Itoa(n)
		n++
	}
}

// Form field names. Event fields repeat once per sub-form, in order.
const (
	FieldSeriesID    = "series_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPosterID    = "poster_id"
	FieldEventID     = "event_id"
	FieldLocation    = "location"
	FieldTime        = "time"
	FieldTicketURL   = "ticket_url"
	FieldMapURL      = "map_url"
)

// ParseSeriesForm rebuilds a draft from posted form values. Repeated event
// fields are matched by position; a missing trailing value is empty.
func ParseSeriesForm(form url.Values) *SeriesDraft {
	d := &SeriesDraft{
		SeriesID:    atoi(form.Get(FieldSeriesID)),
		Name:        form.Get(FieldName),
		Description: form.Get(FieldDescription),
		PosterID:    form.Get(FieldPosterID),
	}

	ids := form[FieldEventID]
	locs := form[FieldLocation]
	times := form[FieldTime]
	tickets := form[FieldTicketURL]
	maps := form[FieldMapURL]

	n := max(len(ids), len(locs), len(times), len(tickets), len(maps))
	for i := 0; i < n; i++ {
		d.Events = append(d.Events, EventField{
			EventID:   atoi(at(ids, i)),
			Location:  at(locs, i),
			Time:      at(times, i),
			TicketURL: at(tickets, i),
			MapURL:    at(maps, i),
		})
	}
	d.rekey()
	return d
}

func at(vals []string, i int) string {
	if i < len(vals) {
		return vals[i]
	}
	return ""
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
