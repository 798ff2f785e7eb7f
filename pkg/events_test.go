package evt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterConvertExample(t *testing.T) {
	reader := openExample(t, ReaderOptions{})
	_, err := reader.ReadHeader()
	require.NoError(t, err)
	raw, err := reader.NextEvent()
	require.NoError(t, err)

	converter := NewConverter(DefaultGeometry())
	event, err := converter.Convert(raw)
	require.NoError(t, err)

	assert.Equal(t, "1", event.ID)
	assert.Equal(t, 14, event.Tree.Primary.PDG)
	assert.Len(t, event.Tree.Secondaries, 2)
	assert.Equal(t, 3, event.Hits.All.Len())
	assert.Equal(t, 2, event.Hits.Signal.Len())
	assert.Len(t, event.Hits.MergedModule[OMKey{1, 13, 0}], 2)
	assert.Equal(t, 3, event.Summary.Hits)
	assert.Equal(t, 2, event.Summary.Modules)

	raw, err = reader.NextEvent()
	require.NoError(t, err)
	event, err = converter.Convert(raw)
	require.NoError(t, err)
	assert.Equal(t, "2", event.ID)
	assert.Empty(t, event.Tree.Secondaries)
	assert.Len(t, event.Tree.Skipped, 1)
	assert.Contains(t, event.Hits.All, OMKey{9, 18, 0})
}

func TestConverterPulseWidthAndSummary(t *testing.T) {
	raw := RawEvent{
		Neutrino: [][]float64{testNeutrino},
		Hit:      [][]float64{{1, 168, 2.5, 1023.4, 0, 1, 0, 0}},
	}
	converter := NewConverter(DefaultGeometry())
	converter.PulseWidth = 12.5
	converter.Summarize = false

	event, err := converter.Convert(raw)
	require.NoError(t, err)
	assert.Equal(t, 12.5, event.Hits.All[OMKey{1, 13, 12}][0].Width)
	assert.Equal(t, Summary{}, event.Summary)
}

func TestConverterErrors(t *testing.T) {
	converter := NewConverter(DefaultGeometry())

	_, err := converter.Convert(RawEvent{
		Start:    []string{"4"},
		Neutrino: [][]float64{testNeutrino, testNeutrino},
	})
	var multi *ErrUnsupportedMultiPrimary
	assert.True(t, errors.As(err, &multi))

	_, err = converter.Convert(RawEvent{
		Start:    []string{"5"},
		Neutrino: [][]float64{testNeutrino},
		Hit:      [][]float64{{1, 2}},
	})
	var malformed *ErrMalformedRow
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, TagHit, malformed.Tag)
	assert.Contains(t, err.Error(), "event 5")
}

func TestConverterZeroGeometry(t *testing.T) {
	converter := NewConverter(Geometry{})
	_, err := converter.Convert(RawEvent{
		Start:    []string{"6"},
		Neutrino: [][]float64{testNeutrino},
		Hit:      [][]float64{{1, 168, 2.5, 1023.4, 0, 1, 0, 0}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 6")
	assert.Contains(t, err.Error(), "invalid geometry")
}

func TestIsMultiRowTag(t *testing.T) {
	assert.True(t, IsMultiRowTag(TagNeutrino))
	assert.True(t, IsMultiRowTag(TagTrackIn))
	assert.True(t, IsMultiRowTag(TagHit))
	assert.False(t, IsMultiRowTag(TagStartEvent))
	assert.False(t, IsMultiRowTag("track_fit"))
}
