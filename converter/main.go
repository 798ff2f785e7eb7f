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
	fileOut := flag.String("o", "", "Output HDF5 file")
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
	if *fileOut != "" {
		configuration.FileOut = *fileOut
	}
	if err := validateConfiguration(configuration); err != nil {
		message := fmt.Errorf("Invalid configuration: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}

	evt.SetLogger(logger)
	evt.SetVerbosity(configuration.Verbosity)
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	if err := convert(configuration); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func convert(configuration evt.Configuration) error {
	start := time.Now()

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		return fmt.Errorf("Error opening file: %w", err)
	}
	defer file.Close()

	reader := evt.NewReader(file, configuration.ReaderOptions())
	header, err := reader.ReadHeader()
	if err != nil {
		return fmt.Errorf("Error reading header: %w", err)
	}
	runNumber, err := header.RunNumber()
	if err != nil {
		logger.Error(fmt.Sprintf("Run number not available, using 0: %v", err))
	}

	geometry, err := loadGeometry(configuration, runNumber)
	if err != nil {
		return err
	}
	converter := evt.NewConverter(geometry)
	converter.PulseWidth = configuration.PulseWidth
	converter.Summarize = configuration.Summary

	var sink evt.EventSink
	if configuration.WriteData {
		writer, err := h5writer.NewWriter(configuration.FileOut, h5writer.Options{
			CompressionLevel: configuration.CompressionLevel,
			Verbosity:        configuration.Verbosity,
			Logger:           logger,
		})
		if err != nil {
			return fmt.Errorf("Error creating writer: %w", err)
		}
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error(err.Error())
			}
		}()
		if err := writer.WriteHeader(header, runNumber); err != nil {
			return fmt.Errorf("Error writing header: %w", err)
		}
		sink = writer
	}

	options := pipeline.OptionsFromConfiguration(configuration, logger)
	fileReader := pipeline.NewFileReader(reader, options)
	stats, err := pipeline.Run(fileReader, converter, sink, options)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Events read: %d, converted: %d, written: %d, failed: %d",
		stats.Read, stats.Converted, stats.Written, stats.Failed)
	logger.Info(message, "main")
	duration := time.Since(start)
	logger.Info(fmt.Sprintf("Total time: %d ms", duration.Milliseconds()), "main")
	return nil
}

// loadGeometry returns the configured geometry, or the one stored in the
// database for runNumber.
func loadGeometry(configuration evt.Configuration, runNumber int) (evt.Geometry, error) {
	if configuration.NoDB {
		return configuration.Geometry(), nil
	}
	dbConn, err := evt.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
	if err != nil {
		return evt.Geometry{}, fmt.Errorf("Error connection to database: %w", err)
	}
	defer dbConn.Close()

	geometry, err := evt.LoadGeometry(dbConn, runNumber)
	if err != nil {
		return evt.Geometry{}, fmt.Errorf("Error loading geometry: %w", err)
	}
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Geometry for run %d: first PMT %d, %d OMs per string, %d PMTs per OM",
			runNumber, geometry.FirstIndex, geometry.ModulesPerString, geometry.PmtsPerModule)
		logger.Info(message, "main")
	}
	return geometry, nil
}
