package evt

import (
	"encoding/json"
	"os"
)

type Configuration struct {
	FileIn           string  `json:"file_in"`
	FileOut          string  `json:"file_out"`
	MaxEvents        int     `json:"max_events"`
	Skip             int     `json:"skip"`
	EventID          int     `json:"event_id"`
	Verbosity        int     `json:"verbosity"`
	Strict           bool    `json:"strict"`
	FirstPmtID       int     `json:"first_pmt_id"`
	OMsPerString     int     `json:"oms_per_string"`
	PmtsPerOM        int     `json:"pmts_per_om"`
	NoDB             bool    `json:"no_db"`
	Host             string  `json:"host"`
	User             string  `json:"user"`
	Passwd           string  `json:"pass"`
	DBName           string  `json:"dbname"`
	WriteData        bool    `json:"write_data"`
	CompressionLevel int     `json:"compression_level"`
	PulseWidth       float64 `json:"pulse_width"`
	Parallel         bool    `json:"parallel"`
	NumWorkers       int     `json:"num_workers"`
	Summary          bool    `json:"summary"`
}

// Geometry returns the geometry constants set in the configuration.
func (c Configuration) Geometry() Geometry {
	return Geometry{
		FirstIndex:       c.FirstPmtID,
		ModulesPerString: c.OMsPerString,
		PmtsPerModule:    c.PmtsPerOM,
	}
}

func (c Configuration) ReaderOptions() ReaderOptions {
	return ReaderOptions{Strict: c.Strict}
}

// DefaultConfiguration returns the settings used when a field is missing from
// the configuration file.
func DefaultConfiguration() Configuration {
	var config Configuration

	// Set default values
	config.MaxEvents = 1000000000
	config.Skip = 0
	config.EventID = -1
	config.Verbosity = 0
	config.Strict = false
	config.FirstPmtID = DefaultFirstPmtID
	config.OMsPerString = DefaultOMsPerString
	config.PmtsPerOM = DefaultPmtsPerOM
	config.NoDB = true
	config.Host = "db.km3net.de"
	config.User = "evtreader"
	config.Passwd = "readonly"
	config.DBName = "KM3NET"
	config.WriteData = true
	config.CompressionLevel = 4
	config.PulseWidth = DefaultPulseWidth
	config.Parallel = false
	config.NumWorkers = 1
	config.Summary = true
	return config
}

// LoadConfiguration reads a JSON configuration file on top of the defaults.
// An empty filename returns the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}
