package pipeline

import evt "github.com/km3net/evt_reader_go/pkg"

type Options struct {
	// MaxEvents bounds the number of events read, skipped events included.
	MaxEvents int
	Skip      int
	// EventID selects a single event by its start_event id, -1 disables it.
	EventID    int
	Parallel   bool
	NumWorkers int
	Verbosity  int
	Logger     evt.Logger
}

func OptionsFromConfiguration(config evt.Configuration, logger evt.Logger) Options {
	return Options{
		MaxEvents:  config.MaxEvents,
		Skip:       config.Skip,
		EventID:    config.EventID,
		Parallel:   config.Parallel,
		NumWorkers: config.NumWorkers,
		Verbosity:  config.Verbosity,
		Logger:     logger,
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, string) {}
func (nopLogger) Error(string)        {}

func (o Options) logger() evt.Logger {
	if o.Logger == nil {
		return nopLogger{}
	}
	return o.Logger
}
