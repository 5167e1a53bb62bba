// internal/domain/models/snapshot.go
package models

// Snapshot is the root document of the API: everything the page shows.
type Snapshot struct {
	Version   string        `json:"version"`
	Group     Group         `json:"group"`
	Musicians []Musician    `json:"musicians"`
	Events    []EventSeries `json:"events"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Musicians = make([]Musician, len(s.Musicians))
	copy(out.Musicians, s.Musicians)
	out.Events = make([]EventSeries, len(s.Events))
	for i, series := range s.Events {
		out.Events[i] = series.Clone()
	}
	return out
}
