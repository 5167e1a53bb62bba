// Package editstate holds the per-entity editing protocol shared by the
// group, musician and series forms: which entity is being edited, the draft
// built from a form, and whether it differs from the held copy.
package editstate

import (
	"errors"
	"fmt"

	"github.com/thegrapefruitsduo/tgdweb/internal/domain/models"
)

// Kind tags the payload an Entity carries.
type Kind int

const (
	KindGroup Kind = iota + 1
	KindMusician
	KindSeries
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMusician:
		return "musician"
	case KindSeries:
		return "series"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrUnchanged is returned when a submitted draft equals the held entity.
	ErrUnchanged = errors.New("nothing changed")

	ErrBadEntity = errors.New("malformed entity")
)

// Entity is one editable record. Exactly the payload matching Kind is set.
type Entity struct {
	Kind     Kind
	Group    *models.Group
	Musician *models.Musician
	Series   *models.EventSeries
}

func GroupEntity(g models.Group) Entity {
	return Entity{Kind: KindGroup, Group: &g}
}

func MusicianEntity(m models.Musician) Entity {
	return Entity{Kind: KindMusician, Musician: &m}
}

func SeriesEntity(s models.EventSeries) Entity {
	s = s.Clone()
	return Entity{Kind: KindSeries, Series: &s}
}

// Validate reports whether e carries exactly the payload its Kind names.
func (e Entity) Validate() error {
	set := 0
	if e.Group != nil {
		set++
	}
	if e.Musician != nil {
		set++
	}
	if e.Series != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: %d payloads for %s", ErrBadEntity, set, e.Kind)
	}

	switch e.Kind {
	case KindGroup:
		if e.Group == nil {
			return fmt.Errorf("%w: group kind without group", ErrBadEntity)
		}
	case KindMusician:
		if e.Musician == nil {
			return fmt.Errorf("%w: musician kind without musician", ErrBadEntity)
		}
	case KindSeries:
		if e.Series == nil {
			return fmt.Errorf("%w: series kind without series", ErrBadEntity)
		}
	default:
		return fmt.Errorf("%w: unknown %s", ErrBadEntity, e.Kind)
	}
	return nil
}

// ID is the server id of the payload (group id, musician id or series id).
func (e Entity) ID() int {
	switch e.Kind {
	case KindGroup:
		if e.Group != nil {
			return e.Group.ID
		}
	case KindMusician:
		if e.Musician != nil {
			return e.Musician.ID
		}
	case KindSeries:
		if e.Series != nil {
			return e.Series.SeriesID
		}
	}
	return 0
}

// Anchor is the page fragment where the entity is displayed.
func (e Entity) Anchor() string {
	switch e.Kind {
	case KindGroup:
		return "group"
	case KindMusician:
		return fmt.Sprintf("musician-%d", e.ID())
	case KindSeries:
		return fmt.Sprintf("series-%d", e.ID())
	default:
		return ""
	}
}

// Equal compares payloads of the same kind. Series event times compare as
// instants when both sides parse.
func (e Entity) Equal(o Entity) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case KindGroup:
		return e.Group != nil && o.Group != nil && *e.Group == *o.Group
	case KindMusician:
		return e.Musician != nil && o.Musician != nil && *e.Musician == *o.Musician
	case KindSeries:
		return e.Series != nil && o.Series != nil && seriesEqual(*e.Series, *o.Series)
	default:
		return false
	}
}

func seriesEqual(a, b models.EventSeries) bool {
	if a.SeriesID != b.SeriesID || a.Name != b.Name || a.Description != b.Description || a.PosterID != b.PosterID {
		return false
	}
	if len(a.Events) != len(b.Events) {
		return false
	}
	for i := range a.Events {
		if !eventEqual(a.Events[i], b.Events[i]) {
			return false
		}
	}
	return true
}

func eventEqual(a, b models.Event) bool {
	if a.EventID != b.EventID || a.Location != b.Location || a.TicketURL != b.TicketURL || a.MapURL != b.MapURL {
		return false
	}
	if a.Time == b.Time {
		return true
	}
	ta, tb := a.ParsedTime(), b.ParsedTime()
	return !ta.IsZero() && !tb.IsZero() && ta.Equal(tb)
}

// Draft pairs the held entity with the values the user submitted.
type Draft struct {
	Held   Entity
	Edited Entity
}

// Changed reports whether the edit differs from what is held.
func (d Draft) Changed() bool {
	return !d.Held.Equal(d.Edited)
}

// Ready validates both sides and refuses unchanged drafts.
func (d Draft) Ready() error {
	if err := d.Edited.Validate(); err != nil {
		return err
	}
	if d.Held.Kind == 0 {
		return nil
	}
	if err := d.Held.Validate(); err != nil {
		return err
	}
	if d.Held.Kind != d.Edited.Kind {
		return fmt.Errorf("%w: editing %s as %s", ErrBadEntity, d.Held.Kind, d.Edited.Kind)
	}
	if !d.Changed() {
		return ErrUnchanged
	}
	return nil
}
