package evt

import "fmt"

// RawEvent holds the tagged lines of one start_event/end_event block.
// Neutrino, TrackIn and Hit collect one numeric row per occurrence, any other
// tag keeps the tokens of its last occurrence in Scalars.
type RawEvent struct {
	Start    []string
	Scalars  map[string][]string
	Neutrino [][]float64
	TrackIn  [][]float64
	Hit      [][]float64
	// Line of the start_event line in the input
	Line int
}

// IsMultiRowTag reports whether every occurrence of tag appends a row.
func IsMultiRowTag(tag string) bool {
	switch tag {
	case TagNeutrino, TagTrackIn, TagHit:
		return true
	default:
		return false
	}
}

// ID returns the first start_event token, the event identifier.
func (e RawEvent) ID() string {
	if len(e.Start) == 0 {
		return ""
	}
	return e.Start[0]
}

func (e RawEvent) Rows(tag string) [][]float64 {
	switch tag {
	case TagNeutrino:
		return e.Neutrino
	case TagTrackIn:
		return e.TrackIn
	case TagHit:
		return e.Hit
	default:
		return nil
	}
}

func (e *RawEvent) appendRow(tag string, row []float64) {
	switch tag {
	case TagNeutrino:
		e.Neutrino = append(e.Neutrino, row)
	case TagTrackIn:
		e.TrackIn = append(e.TrackIn, row)
	case TagHit:
		e.Hit = append(e.Hit, row)
	}
}

// Event is a fully converted EVT event.
type Event struct {
	ID      string
	Number  int
	Start   []string
	Tree    ParticleTree
	Hits    HitCollections
	Summary Summary
}

// Converter turns raw events into Events for one detector geometry.
type Converter struct {
	Geometry   Geometry
	PulseWidth float64
	// Summarize fills Event.Summary
	Summarize bool
}

func NewConverter(geometry Geometry) Converter {
	return Converter{
		Geometry:   geometry,
		PulseWidth: DefaultPulseWidth,
		Summarize:  true,
	}
}

// Convert builds the particle tree and the hit collections of raw. Any error
// is fatal for this event only.
func (c Converter) Convert(raw RawEvent) (Event, error) {
	tree, err := BuildParticleTree(raw)
	if err != nil {
		return Event{}, fmt.Errorf("error building particle tree: %w", err)
	}
	hits, err := classifyHits(raw, c.Geometry, c.PulseWidth)
	if err != nil {
		return Event{}, fmt.Errorf("error classifying hits of event %s: %w", raw.ID(), err)
	}
	event := Event{
		ID:    raw.ID(),
		Start: raw.Start,
		Tree:  tree,
		Hits:  hits,
	}
	if c.Summarize {
		event.Summary = Summarize(hits)
	}
	return event, nil
}

// EventSink receives converted events in input order.
type EventSink interface {
	WriteEvent(event *Event) error
}
