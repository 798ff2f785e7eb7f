package main

import (
	"fmt"

	evt "github.com/km3net/evt_reader_go/pkg"
	"github.com/km3net/evt_reader_go/pkg/logging"
)

func validateConfiguration(config evt.Configuration) error {
	if config.FileIn == "" {
		return fmt.Errorf("no input file given")
	}
	if config.WriteData && config.FileOut == "" {
		return fmt.Errorf("no output file given")
	}
	if config.NumWorkers < 1 {
		return fmt.Errorf("invalid number of workers: %d", config.NumWorkers)
	}
	if err := config.Geometry().Validate(); err != nil {
		return err
	}
	return nil
}

func printConfiguration(config evt.Configuration, logger logging.Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Event ID: %d", config.EventID), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Strict: %t", config.Strict), "config")
	logger.Info(fmt.Sprintf("First PMT ID: %d", config.FirstPmtID), "config")
	logger.Info(fmt.Sprintf("OMs per string: %d", config.OMsPerString), "config")
	logger.Info(fmt.Sprintf("PMTs per OM: %d", config.PmtsPerOM), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Pulse width: %g", config.PulseWidth), "config")
	logger.Info(fmt.Sprintf("Parallel: %t", config.Parallel), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Summary: %t", config.Summary), "config")
}
