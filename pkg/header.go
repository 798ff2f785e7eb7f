package evt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	TagStartRun   = "start_run"
	TagStartEvent = "start_event"
	TagEndEvent   = "end_event"
	TagNeutrino   = "neutrino"
	TagTrackIn    = "track_in"
	TagHit        = "hit"
)

// Header maps every tag of the header block to its whitespace separated
// tokens. A repeated tag keeps its last value.
type Header map[string][]string

// ParseHeader reads lines from r until the end_event line closing the header.
func ParseHeader(r io.Reader) (Header, error) {
	return NewReader(r, ReaderOptions{}).ReadHeader()
}

// RunNumber returns the first start_run token as an integer.
func (h Header) RunNumber() (int, error) {
	value, err := h.Float(TagStartRun, 0)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

// Float parses token i of tag as a floating point number.
func (h Header) Float(tag string, i int) (float64, error) {
	tokens, ok := h[tag]
	if !ok {
		return 0, fmt.Errorf("header has no '%s' tag", tag)
	}
	if i < 0 || i >= len(tokens) {
		return 0, fmt.Errorf("header tag '%s' has %d tokens, token %d requested", tag, len(tokens), i)
	}
	value, err := strconv.ParseFloat(tokens[i], 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing header tag '%s': %w", tag, err)
	}
	return value, nil
}

// splitTagged splits "tag: v1 v2 ..." into its tag and values. Lines without
// exactly one ':' are rejected.
func splitTagged(line string) (string, []string, bool) {
	tag, value, found := strings.Cut(line, ":")
	if !found || strings.Contains(value, ":") {
		return "", nil, false
	}
	return strings.TrimSpace(tag), strings.Fields(value), true
}
