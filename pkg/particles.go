package evt

import "fmt"

const (
	neutrinoFields = 14
	trackInFields  = 10
)

type Position struct {
	X, Y, Z float64
}

type Direction struct {
	X, Y, Z float64
}

type Particle struct {
	Pos    Position
	Dir    Direction
	Energy float64
	Time   float64
	PDG    int
}

// ParticleTree is the primary with its secondaries attached directly below.
// Skipped lists the track_in rows that could not be decoded.
type ParticleTree struct {
	Primary     Particle
	Secondaries []Particle
	Skipped     []*ErrMalformedRow
}

// BuildParticleTree decodes the single neutrino row as primary and every
// track_in row as a secondary. Malformed track_in rows are skipped.
func BuildParticleTree(event RawEvent) (ParticleTree, error) {
	primary, err := Primary(event)
	if err != nil {
		return ParticleTree{}, err
	}
	tree := ParticleTree{Primary: primary}
	for i, row := range event.TrackIn {
		secondary, err := decodeSecondary(row, i)
		if err != nil {
			logger.Error(fmt.Sprintf("event %s: %v", event.ID(), err))
			tree.Skipped = append(tree.Skipped, err)
			continue
		}
		tree.Secondaries = append(tree.Secondaries, secondary)
	}
	return tree, nil
}

// Primary decodes the neutrino row of event.
func Primary(event RawEvent) (Particle, error) {
	switch n := len(event.Neutrino); {
	case n == 0:
		return Particle{}, &ErrMissingPrimary{Event: event.ID()}
	case n > 1:
		return Particle{}, &ErrUnsupportedMultiPrimary{Event: event.ID(), Count: n}
	}
	row := event.Neutrino[0]
	particle, rest := decodeTrack(row)
	// energy, time, 3 unused, pdg, 1 unused
	if len(rest) != 7 {
		return Particle{}, &ErrMalformedRow{Tag: TagNeutrino, Index: 0, Fields: len(row), Expected: neutrinoFields, Row: row}
	}
	particle.Energy = rest[0]
	particle.Time = rest[1]
	particle.PDG = int(rest[5])
	return particle, nil
}

func decodeSecondary(row []float64, index int) (Particle, *ErrMalformedRow) {
	particle, rest := decodeTrack(row)
	if len(rest) != 3 {
		return Particle{}, &ErrMalformedRow{Tag: TagTrackIn, Index: index, Fields: len(row), Expected: trackInFields, Row: row}
	}
	particle.Energy = rest[0]
	particle.Time = rest[1]
	particle.PDG = int(rest[2])
	return particle, nil
}

// decodeTrack reads the id, position and direction common to neutrino and
// track_in rows and returns what follows them.
func decodeTrack(row []float64) (Particle, []float64) {
	_, rest, _ := UnpackNFirst(row, 1)
	pos, rest, _ := UnpackNFirst(rest, 3)
	dir, rest, _ := UnpackNFirst(rest, 3)
	return Particle{
		Pos: Position{X: pos[0], Y: pos[1], Z: pos[2]},
		Dir: Direction{X: dir[0], Y: dir[1], Z: dir[2]},
	}, rest
}
