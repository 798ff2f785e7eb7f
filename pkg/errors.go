package evt

import "fmt"

// ErrMissingTerminator is returned when the header block ends before an
// end_event line is found.
type ErrMissingTerminator struct {
	Lines int
}

func (e *ErrMissingTerminator) Error() string {
	return fmt.Sprintf("incomplete header, no '%s' tag found after %d lines", TagEndEvent, e.Lines)
}

// ErrUnsupportedMultiPrimary is returned when an event carries more than one
// neutrino row.
type ErrUnsupportedMultiPrimary struct {
	Event string
	Count int
}

func (e *ErrUnsupportedMultiPrimary) Error() string {
	return fmt.Sprintf("event %s has %d primaries, only one primary is supported", e.Event, e.Count)
}

// ErrMissingPrimary is returned when an event has no neutrino row at all.
type ErrMissingPrimary struct {
	Event string
}

func (e *ErrMissingPrimary) Error() string {
	return fmt.Sprintf("event %s has no '%s' row", e.Event, TagNeutrino)
}

// ErrMalformedRow represents a numeric row with an unexpected field count.
type ErrMalformedRow struct {
	Tag      string
	Index    int
	Fields   int
	Expected int
	Row      []float64
}

func (e *ErrMalformedRow) Error() string {
	return fmt.Sprintf("could not parse %s row %d: got %d fields, expected %d: %s",
		e.Tag, e.Index, e.Fields, e.Expected, FormatRow(e.Row))
}

// ErrMalformedLine represents an event line that cannot be split into a tag
// and its values, or a multi-row tag with non-numeric values.
type ErrMalformedLine struct {
	Line int
	Text string
	Err  error
}

func (e *ErrMalformedLine) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed line %d %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("malformed line %d %q", e.Line, e.Text)
}

func (e *ErrMalformedLine) Unwrap() error {
	return e.Err
}

// ErrTruncatedEvent represents an event opened at Line that never saw its
// end_event line.
type ErrTruncatedEvent struct {
	Line int
}

func (e *ErrTruncatedEvent) Error() string {
	return fmt.Sprintf("event starting at line %d has no '%s' line", e.Line, TagEndEvent)
}

