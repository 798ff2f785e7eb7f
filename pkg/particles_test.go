package evt

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNeutrino = []float64{1, -60.5, 40.2, 10.0, 0.1, -0.2, 0.97, 1500.0, 0.5, 1, 0, 0, 14, 2}
	testMuon     = []float64{1, -60.5, 40.2, 10.0, 0.12, -0.21, 0.97, 1200.0, 0.5, 13}
	testProton   = []float64{2, -60.5, 40.2, 10.0, 0.05, 0.3, 0.95, 300.0, 0.5, 2212}
)

func TestBuildParticleTree(t *testing.T) {
	event := RawEvent{
		Start:    []string{"1", "1"},
		Neutrino: [][]float64{testNeutrino},
		TrackIn:  [][]float64{testMuon, testProton},
	}
	tree, err := BuildParticleTree(event)
	require.NoError(t, err)

	want := ParticleTree{
		Primary: Particle{
			Pos:    Position{-60.5, 40.2, 10.0},
			Dir:    Direction{0.1, -0.2, 0.97},
			Energy: 1500.0,
			Time:   0.5,
			PDG:    14,
		},
		Secondaries: []Particle{
			{Pos: Position{-60.5, 40.2, 10.0}, Dir: Direction{0.12, -0.21, 0.97}, Energy: 1200.0, Time: 0.5, PDG: 13},
			{Pos: Position{-60.5, 40.2, 10.0}, Dir: Direction{0.05, 0.3, 0.95}, Energy: 300.0, Time: 0.5, PDG: 2212},
		},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestBuildParticleTreeMultiplePrimaries(t *testing.T) {
	event := RawEvent{
		Start:    []string{"7"},
		Neutrino: [][]float64{testNeutrino, testNeutrino},
	}
	_, err := BuildParticleTree(event)

	var multi *ErrUnsupportedMultiPrimary
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, "7", multi.Event)
	assert.Equal(t, 2, multi.Count)
}

func TestBuildParticleTreeMissingPrimary(t *testing.T) {
	_, err := BuildParticleTree(RawEvent{Start: []string{"3"}, TrackIn: [][]float64{testMuon}})

	var missing *ErrMissingPrimary
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "3", missing.Event)
}

func TestBuildParticleTreeSkipsMalformedSecondary(t *testing.T) {
	event := RawEvent{
		Neutrino: [][]float64{testNeutrino},
		TrackIn:  [][]float64{{1, 2, 3}},
	}
	tree, err := BuildParticleTree(event)
	require.NoError(t, err)

	assert.Empty(t, tree.Secondaries)
	require.Len(t, tree.Skipped, 1)
	assert.Equal(t, TagTrackIn, tree.Skipped[0].Tag)
	assert.Equal(t, 3, tree.Skipped[0].Fields)
	assert.Equal(t, trackInFields, tree.Skipped[0].Expected)
}

func TestBuildParticleTreeKeepsGoodSecondaries(t *testing.T) {
	tooLong := append(append([]float64{}, testMuon...), 99)
	event := RawEvent{
		Neutrino: [][]float64{testNeutrino},
		TrackIn:  [][]float64{testMuon, tooLong, testProton},
	}
	tree, err := BuildParticleTree(event)
	require.NoError(t, err)

	require.Len(t, tree.Secondaries, 2)
	assert.Equal(t, 13, tree.Secondaries[0].PDG)
	assert.Equal(t, 2212, tree.Secondaries[1].PDG)
	require.Len(t, tree.Skipped, 1)
	assert.Equal(t, 1, tree.Skipped[0].Index)
}

func TestPrimaryMalformedRowIsFatal(t *testing.T) {
	event := RawEvent{Neutrino: [][]float64{testNeutrino[:10]}}
	_, err := Primary(event)

	var malformed *ErrMalformedRow
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, TagNeutrino, malformed.Tag)
	assert.Equal(t, neutrinoFields, malformed.Expected)
	assert.Contains(t, err.Error(), "got 10 fields")
}
