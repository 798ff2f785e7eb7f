package pipeline

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	evt "github.com/km3net/evt_reader_go/pkg"
)

// FileReader applies the skip, max events and event id selection on top of
// an evt.Reader.
type FileReader struct {
	Reader   *evt.Reader
	EvtCount int
	options  Options
	found    bool
}

func NewFileReader(reader *evt.Reader, options Options) *FileReader {
	return &FileReader{Reader: reader, EvtCount: -1, options: options}
}

// NextEvent returns the next selected event or io.EOF. Errors of a single
// event are returned as they are, the following call continues after it.
func (f *FileReader) NextEvent() (evt.RawEvent, error) {
	logger := f.options.logger()
	for {
		if f.found {
			return evt.RawEvent{}, io.EOF
		}
		event, err := f.Reader.NextEvent()
		if err != nil {
			return event, err
		}
		if f.options.EventID >= 0 {
			id, err := strconv.Atoi(event.ID())
			if err != nil || id != f.options.EventID {
				continue
			}
			f.found = true
		}
		f.EvtCount++
		if f.EvtCount >= f.options.MaxEvents {
			if f.options.Verbosity > 0 {
				logger.Info("Max events reached", "fileReader")
			}
			return evt.RawEvent{}, io.EOF
		}
		if f.EvtCount < f.options.Skip {
			if f.options.Verbosity > 0 {
				message := fmt.Sprintf("Skipping event %d with ID %s", f.EvtCount, event.ID())
				logger.Info(message, "fileReader")
			}
			continue
		}
		if f.options.Verbosity > 0 {
			message := fmt.Sprintf("Reading event %d with ID %s", f.EvtCount, event.ID())
			logger.Info(message, "fileReader")
		}
		return event, nil
	}
}

// isEventError reports whether err only concerns one event, so reading can
// go on with the next one.
func isEventError(err error) bool {
	var truncated *evt.ErrTruncatedEvent
	var malformed *evt.ErrMalformedLine
	return errors.As(err, &truncated) || errors.As(err, &malformed)
}
