package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	evt "github.com/km3net/evt_reader_go/pkg"
	"github.com/km3net/evt_reader_go/pkg/h5writer"
	"github.com/km3net/evt_reader_go/pkg/logging"
	"github.com/km3net/evt_reader_go/pkg/pipeline"
)

var logger logging.Logger

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger = logging.New(os.Stdout, os.Stderr, opts)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	fileIn := flag.String("i", "", "Input EVT file")
	repetitions := flag.Int("n", 3, "Repetitions per compression level")
	maxLevel := flag.Int("max-level", 9, "Highest deflate level measured")
	flag.Parse()

	configuration, err := evt.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	if *fileIn != "" {
		configuration.FileIn = *fileIn
	}
	if configuration.FileOut == "" {
		configuration.FileOut = "measure.h5"
	}
	evt.SetLogger(logger)
	evt.SetVerbosity(configuration.Verbosity)

	header, runNumber, events, err := loadEvents(configuration)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("Total events converted: %d", len(events)), "main")

	start := time.Now()
	for level := 0; level <= *maxLevel; level++ {
		for i := 0; i < *repetitions; i++ {
			m, err := measure(configuration.FileOut, level, header, runNumber, events)
			if err != nil {
				logger.Error(fmt.Sprintf("Error measuring level %d: %v", level, err))
				continue
			}
			fmt.Printf("(hdf5, comp %d) Time: %d ms, size %d bytes\n", level, m.Duration.Milliseconds(), m.Size)
		}
	}
	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}

// loadEvents converts the whole input once so that every measurement writes
// the same events.
func loadEvents(configuration evt.Configuration) (evt.Header, int, []evt.Event, error) {
	file, err := os.Open(configuration.FileIn)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("Error opening file: %w", err)
	}
	defer file.Close()

	reader := evt.NewReader(file, configuration.ReaderOptions())
	header, err := reader.ReadHeader()
	if err != nil {
		return nil, 0, nil, fmt.Errorf("Error reading header: %w", err)
	}
	runNumber, err := header.RunNumber()
	if err != nil {
		logger.Error(fmt.Sprintf("Run number not available, using 0: %v", err))
	}

	converter := evt.NewConverter(configuration.Geometry())
	converter.PulseWidth = configuration.PulseWidth
	converter.Summarize = configuration.Summary

	collector := &eventCollector{}
	options := pipeline.OptionsFromConfiguration(configuration, logger)
	fileReader := pipeline.NewFileReader(reader, options)
	if _, err := pipeline.Run(fileReader, converter, collector, options); err != nil {
		return nil, 0, nil, err
	}
	return header, runNumber, collector.events, nil
}

type measurement struct {
	Duration time.Duration
	Size     int64
}

func measure(filename string, level int, header evt.Header, runNumber int, events []evt.Event) (measurement, error) {
	start := time.Now()
	writer, err := h5writer.NewWriter(filename, h5writer.Options{
		CompressionLevel: level,
		Logger:           logger,
	})
	if err != nil {
		return measurement{}, err
	}
	if err := writer.WriteHeader(header, runNumber); err != nil {
		writer.Close()
		return measurement{}, err
	}
	for i := range events {
		if err := writer.WriteEvent(&events[i]); err != nil {
			writer.Close()
			return measurement{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return measurement{}, err
	}
	duration := time.Since(start)

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return measurement{}, fmt.Errorf("Error getting file info: %w", err)
	}
	return measurement{Duration: duration, Size: fileInfo.Size()}, nil
}
