package evt

import (
	"fmt"

	"golang.org/x/exp/slices"
)

const hitFields = 8

// DefaultPulseWidth is the width given to every hit, EVT files carry none.
const DefaultPulseWidth = 30.0

type Hit struct {
	Key      OMKey
	PmtIndex int
	Charge   float64
	Time     float64
	Width    float64
	// Origin is 0 for background hits and positive for signal hits.
	Origin int
}

// HitSeriesMap groups hits by detector coordinate in row order.
type HitSeriesMap map[OMKey][]Hit

func (m HitSeriesMap) add(key OMKey, hit Hit) {
	m[key] = append(m[key], hit)
}

// Keys returns the coordinates of m sorted by string, module and pmt.
func (m HitSeriesMap) Keys() []OMKey {
	keys := make([]OMKey, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, OMKey.Compare)
	return keys
}

// Len returns the number of hits in all series.
func (m HitSeriesMap) Len() int {
	n := 0
	for _, series := range m {
		n += len(series)
	}
	return n
}

type HitCollections struct {
	// All hits keyed by pmt
	All HitSeriesMap
	// Signal hits keyed by pmt
	Signal HitSeriesMap
	// Signal hits keyed by module, pmt always 0
	MergedModule HitSeriesMap
}

// ClassifyHits decodes every hit row of event. Unlike track_in rows a
// malformed hit row aborts the whole classification.
func ClassifyHits(event RawEvent, geometry Geometry) (HitCollections, error) {
	return classifyHits(event, geometry, DefaultPulseWidth)
}

func classifyHits(event RawEvent, geometry Geometry, width float64) (HitCollections, error) {
	collections := HitCollections{
		All:          make(HitSeriesMap),
		Signal:       make(HitSeriesMap),
		MergedModule: make(HitSeriesMap),
	}
	if err := geometry.Validate(); err != nil {
		return HitCollections{}, fmt.Errorf("invalid geometry: %w", err)
	}
	for i, row := range event.Hit {
		hit, signal, err := decodeHit(row, i, geometry, width)
		if err != nil {
			return HitCollections{}, err
		}
		collections.All.add(hit.Key, hit)
		if !signal {
			continue
		}
		collections.Signal.add(hit.Key, hit)
		merged := hit
		merged.Key = hit.Key.Module()
		collections.MergedModule.add(merged.Key, merged)
	}
	if verbosity > 1 {
		message := fmt.Sprintf("Event %s: %d hits, %d signal hits in %d modules",
			event.ID(), collections.All.Len(), collections.Signal.Len(), len(collections.MergedModule))
		logger.Info(message, "hits")
	}
	return collections, nil
}

func decodeHit(row []float64, index int, geometry Geometry, width float64) (Hit, bool, error) {
	_, rest, _ := UnpackNFirst(row, 1)
	pmt, rest, _ := UnpackNFirst(rest, 1)
	// charge, time, geant code, origin, 2 unused
	if len(rest) != 6 {
		return Hit{}, false, &ErrMalformedRow{Tag: TagHit, Index: index, Fields: len(row), Expected: hitFields, Row: row}
	}
	pmtIndex := int(pmt[0])
	origin := int(rest[3])
	hit := Hit{
		Key:      geometry.OMKey(pmtIndex),
		PmtIndex: pmtIndex,
		Charge:   rest[0],
		Time:     rest[1],
		Width:    width,
		Origin:   origin,
	}
	return hit, origin > 0, nil
}
