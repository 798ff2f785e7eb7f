package evt

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, reader *Reader) ([]RawEvent, []error) {
	t.Helper()
	var events []RawEvent
	var errs []error
	for i := 0; i < 1000; i++ {
		event, err := reader.NextEvent()
		if err == io.EOF {
			return events, errs
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, event)
	}
	t.Fatal("reader did not reach the end of the input")
	return nil, nil
}

func openExample(t *testing.T, options ReaderOptions) *Reader {
	t.Helper()
	file, err := os.Open("testdata/example.evt")
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return NewReader(file, options)
}

func TestReaderExampleFile(t *testing.T) {
	reader := openExample(t, ReaderOptions{})
	header, err := reader.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, []string{"Volume"}, header["drawing"])

	events, errs := readAll(t, reader)
	assert.Empty(t, errs)
	// the third event is never closed
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "1", first.ID())
	assert.Equal(t, []string{"1", "1"}, first.Start)
	assert.Equal(t, 8, first.Line)
	assert.Len(t, first.Neutrino, 1)
	assert.Len(t, first.TrackIn, 2)
	assert.Len(t, first.Hit, 3)
	assert.Equal(t, []string{"0.5", "1.2e3", "7"}, first.Scalars["weights"])
	assert.Equal(t, []float64{3, 173, 3.0, 1025.0, 0, 2, 0, 0}, first.Hit[2])

	second := events[1]
	assert.Equal(t, "2", second.ID())
	assert.Equal(t, [][]float64{{1, 2, 3}}, second.TrackIn)
}

func TestReaderStrictReportsTruncatedTrailingEvent(t *testing.T) {
	reader := openExample(t, ReaderOptions{Strict: true})
	_, err := reader.ReadHeader()
	require.NoError(t, err)

	events, errs := readAll(t, reader)
	assert.Len(t, events, 2)
	require.Len(t, errs, 1)

	var truncated *ErrTruncatedEvent
	require.True(t, errors.As(errs[0], &truncated))
	assert.Equal(t, 22, truncated.Line)
}

func TestReaderEventCountAndOrder(t *testing.T) {
	var b strings.Builder
	for _, id := range []string{"10", "11", "12", "13"} {
		b.WriteString("start_event: " + id + " 1\n")
		b.WriteString("hit: 1 2 3 4 5 6 7 8\n")
		b.WriteString("end_event:\n")
	}
	events, errs := readAll(t, NewReader(strings.NewReader(b.String()), ReaderOptions{}))
	assert.Empty(t, errs)
	require.Len(t, events, 4)
	for i, id := range []string{"10", "11", "12", "13"} {
		assert.Equal(t, id, events[i].ID())
	}
}

func TestReaderMultiRowTagsAppend(t *testing.T) {
	input := `start_event: 1 1
track_in: 1 0 0 0 0 0 1 10 0 13
track_in: 2 0 0 0 0 0 1 20 0 13
track_in: 3 0 0 0 0 0 1 30 0 13
hit: 1 2 3 4 5 6 7 8
comment: first
comment: second
end_event:
`
	events, errs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	assert.Empty(t, errs)
	require.Len(t, events, 1)

	event := events[0]
	require.Len(t, event.TrackIn, 3)
	for i, energy := range []float64{10, 20, 30} {
		assert.Equal(t, energy, event.TrackIn[i][7])
	}
	assert.Len(t, event.Rows(TagHit), 1)
	assert.Nil(t, event.Rows("comment"))
	assert.Equal(t, []string{"second"}, event.Scalars["comment"])
	assert.NotContains(t, event.Scalars, TagTrackIn)
}

func TestReaderIgnoresLinesOutsideEvents(t *testing.T) {
	input := `end_event:
hit: 1 2 3 4 5 6 7 8
garbage
start_event: 5 1

hit: 1 2 3 4 5 6 7 8
end_event:
end_event:
`
	events, errs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	assert.Empty(t, errs)
	require.Len(t, events, 1)
	assert.Len(t, events[0].Hit, 1)
}

func TestReaderRestartedEvent(t *testing.T) {
	input := `start_event: 1 1
hit: 1 2 3 4 5 6 7 8
start_event: 2 1
end_event:
`
	events, errs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	assert.Empty(t, errs)
	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].ID())
	assert.Empty(t, events[0].Hit)

	events, errs = readAll(t, NewReader(strings.NewReader(input), ReaderOptions{Strict: true}))
	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].ID())
	require.Len(t, errs, 1)
	var truncated *ErrTruncatedEvent
	assert.True(t, errors.As(errs[0], &truncated))
	assert.Equal(t, 1, truncated.Line)
}

func TestReaderMalformedLines(t *testing.T) {
	input := `start_event: 1 1
no separator here
hit: 1 2 abc 4 5 6 7 8
hit: 1 2 3 4 5 6 7 8
end_event:
`
	events, errs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	assert.Empty(t, errs)
	require.Len(t, events, 1)
	assert.Len(t, events[0].Hit, 1)

	events, errs = readAll(t, NewReader(strings.NewReader(input), ReaderOptions{Strict: true}))
	assert.Empty(t, events)
	require.Len(t, errs, 1)

	var malformed *ErrMalformedLine
	require.True(t, errors.As(errs[0], &malformed))
	assert.Equal(t, 2, malformed.Line)
	assert.NoError(t, malformed.Err)
}

func TestReaderStrictDropsEventWithMalformedLine(t *testing.T) {
	input := `start_event: 1 1
hit: 1 2 abc 4 5 6 7 8
hit: 1 2 3 4 5 6 7 8
end_event:
start_event: 2 1
hit: 1 2 3 4 5 6 7 8
end_event:
`
	events, errs := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{Strict: true}))
	require.Len(t, errs, 1)
	var malformed *ErrMalformedLine
	require.True(t, errors.As(errs[0], &malformed))
	assert.Equal(t, 2, malformed.Line)
	assert.Error(t, malformed.Err)

	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].ID())
	assert.Len(t, events[0].Hit, 1)
}

func TestReaderFreshInputRestarts(t *testing.T) {
	input := "start_event: 1 1\nend_event:\nstart_event: 2 1\nend_event:\n"
	first, _ := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	second, _ := readAll(t, NewReader(strings.NewReader(input), ReaderOptions{}))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("events differ between two reads (-first +second):\n%s", diff)
	}
}

func TestReaderDoneStaysDone(t *testing.T) {
	reader := NewReader(strings.NewReader("start_event: 1 1\nend_event:\n"), ReaderOptions{})
	_, err := reader.NextEvent()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = reader.NextEvent()
		assert.Equal(t, io.EOF, err)
	}
	assert.Equal(t, stateDone, reader.state)
}

func TestRowRoundTrip(t *testing.T) {
	lines := []string{
		"1 -60.5 40.2 10.0 0.1 -0.2 0.97 1500.0 0.0 1 0 0 14 2",
		"3 173 3.0 1025.0 0 2 0 0",
		"1 0.100E+03 -1.5e-07 42",
	}
	for _, line := range lines {
		row, err := ParseRow(line)
		require.NoError(t, err)
		assert.Len(t, row, len(strings.Fields(line)))

		again, err := ParseRow(FormatRow(row))
		require.NoError(t, err)
		assert.Equal(t, row, again)
	}
}

func TestRowRoundTripThroughReader(t *testing.T) {
	reader := openExample(t, ReaderOptions{})
	_, err := reader.ReadHeader()
	require.NoError(t, err)
	event, err := reader.NextEvent()
	require.NoError(t, err)

	for _, row := range event.Hit {
		again, err := ParseRow(FormatRow(row))
		require.NoError(t, err)
		assert.Equal(t, row, again)
	}
	assert.Equal(t, "1 168 2.5 1023.4 0 1 0 0", FormatRow(event.Hit[0]))
}
