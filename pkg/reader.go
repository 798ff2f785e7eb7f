package evt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Hit lines of large events can be long.
const maxLineLength = 4 * 1024 * 1024

type ReaderOptions struct {
	// Strict turns truncated events and malformed event lines into errors
	// instead of dropping them with a log message. An event holding a
	// malformed line is discarded up to its end_event.
	Strict bool
}

type readerState int

const (
	stateIdle readerState = iota
	stateInEvent
	stateDone
)

func (s readerState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateInEvent:
		return "InEvent"
	case stateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Reader scans an EVT stream line by line. It is meant to be driven by a
// single consumer: ReadHeader once, then NextEvent until io.EOF.
type Reader struct {
	scanner *bufio.Scanner
	options ReaderOptions
	state   readerState
	current *RawEvent
	line    int
}

func NewReader(r io.Reader, options ReaderOptions) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &Reader{
		scanner: scanner,
		options: options,
		state:   stateIdle,
	}
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) nextLine() (string, bool) {
	if !r.scanner.Scan() {
		return "", false
	}
	r.line++
	return strings.TrimSpace(r.scanner.Text()), true
}

// ReadHeader consumes the header block up to and including its end_event
// line. Lines that are not "tag: values" are ignored.
func (r *Reader) ReadHeader() (Header, error) {
	header := make(Header)
	for {
		line, ok := r.nextLine()
		if !ok {
			r.state = stateDone
			if err := r.scanner.Err(); err != nil {
				return nil, fmt.Errorf("error reading header: %w", err)
			}
			return nil, &ErrMissingTerminator{Lines: r.line}
		}
		tag, values, ok := splitTagged(line)
		if !ok {
			continue
		}
		header[tag] = values
		if tag == TagEndEvent {
			if verbosity > 0 {
				logger.Info(fmt.Sprintf("Header read: %d tags in %d lines", len(header), r.line), "reader")
			}
			return header, nil
		}
	}
}

// NextEvent returns the next complete event in file order, or io.EOF once the
// input is exhausted.
func (r *Reader) NextEvent() (RawEvent, error) {
	for r.state != stateDone {
		line, ok := r.nextLine()
		if !ok {
			return RawEvent{}, r.finish()
		}
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, TagStartEvent+":"):
			previous := r.current
			r.open(line)
			if previous != nil {
				truncated := &ErrTruncatedEvent{Line: previous.Line}
				if r.options.Strict {
					return RawEvent{}, truncated
				}
				logger.Error(fmt.Sprintf("discarding event: %v", truncated))
			}
		case strings.HasPrefix(line, TagEndEvent+":"):
			if r.current == nil {
				continue
			}
			event := *r.current
			r.current = nil
			r.state = stateIdle
			if verbosity > 1 {
				message := fmt.Sprintf("Event %s read, lines %d-%d", event.ID(), event.Line, r.line)
				logger.Info(message, "reader")
			}
			return event, nil
		case r.state == stateInEvent:
			if err := r.addLine(line); err != nil {
				if r.options.Strict {
					r.current = nil
					r.state = stateIdle
					return RawEvent{}, err
				}
				logger.Error(fmt.Sprintf("skipping %v", err))
			}
		}
	}
	return RawEvent{}, io.EOF
}

func (r *Reader) open(line string) {
	_, value, _ := strings.Cut(line, ":")
	r.current = &RawEvent{
		Start:   strings.Fields(value),
		Scalars: make(map[string][]string),
		Line:    r.line,
	}
	r.state = stateInEvent
}

func (r *Reader) addLine(line string) error {
	tag, values, ok := splitTagged(line)
	if !ok {
		return &ErrMalformedLine{Line: r.line, Text: line}
	}
	if !IsMultiRowTag(tag) {
		r.current.Scalars[tag] = values
		return nil
	}
	row, err := parseFloats(values)
	if err != nil {
		return &ErrMalformedLine{Line: r.line, Text: line, Err: err}
	}
	r.current.appendRow(tag, row)
	if verbosity > 2 {
		logger.Info(fmt.Sprintf("%s row: %s", tag, FormatRow(row)), "reader")
	}
	return nil
}

func (r *Reader) finish() error {
	r.state = stateDone
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("error reading line %d: %w", r.line+1, err)
	}
	if r.current == nil {
		return io.EOF
	}
	truncated := &ErrTruncatedEvent{Line: r.current.Line}
	r.current = nil
	if r.options.Strict {
		return truncated
	}
	if verbosity > 0 {
		logger.Info(fmt.Sprintf("dropping %v", truncated), "reader")
	}
	return io.EOF
}
