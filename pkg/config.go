package evd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

type Configuration struct {
	FileIn        string       `json:"file_in" env:"EVD_FILE_IN"`
	OutputDir     string       `json:"output_dir" env:"EVD_OUTPUT_DIR"`
	Selector      SelectorMode `json:"selector" env:"EVD_SELECTOR"`
	Interactive   bool         `json:"interactive" env:"EVD_INTERACTIVE"`
	Viewer        string       `json:"viewer" env:"EVD_VIEWER"`
	Width         int          `json:"width" env:"EVD_WIDTH"`
	Height        int          `json:"height" env:"EVD_HEIGHT"`
	MaxEvents     int          `json:"max_events" env:"EVD_MAX_EVENTS"`
	Skip          int          `json:"skip" env:"EVD_SKIP"`
	Verbosity     int          `json:"verbosity" env:"EVD_VERBOSITY"`
	NumWorkers    int          `json:"num_workers" env:"EVD_NUM_WORKERS"`
	NoDB          bool         `json:"no_db" env:"EVD_NO_DB"`
	DBDriver      string       `json:"db_driver" env:"EVD_DB_DRIVER"`
	DBPath        string       `json:"db_path" env:"EVD_DB_PATH"`
	Host          string       `json:"host" env:"EVD_DB_HOST"`
	User          string       `json:"user" env:"EVD_DB_USER"`
	Passwd        string       `json:"pass" env:"EVD_DB_PASS"`
	DBName        string       `json:"dbname" env:"EVD_DB_NAME"`
	RunNumber     int          `json:"run_number" env:"EVD_RUN_NUMBER"`
	Bounds        Bounds       `json:"detector_bounds"`
	DriftVelocity float64      `json:"v_drift" env:"EVD_V_DRIFT"`
	ClockInterval float64      `json:"clock_interval" env:"EVD_CLOCK_INTERVAL"`
	Direction     int          `json:"drift_direction" env:"EVD_DRIFT_DIRECTION"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

// Detector builds the detector description from the configured constants.
// It is not validated; use Detector.Validate.
func (c Configuration) Detector() Detector {
	return Detector{
		Bounds:        c.Bounds,
		DriftVelocity: c.DriftVelocity,
		ClockInterval: c.ClockInterval,
		Direction:     c.Direction,
	}
}

// DefaultConfiguration holds the values used when the configuration file
// does not set a field.
func DefaultConfiguration() Configuration {
	det := DefaultDetector()
	return Configuration{
		OutputDir:     "evd_out",
		Selector:      SelectByTimestamp,
		Interactive:   true,
		Width:         1024,
		Height:        768,
		MaxEvents:     1000000000,
		Skip:          0,
		Verbosity:     0,
		NumWorkers:    1,
		NoDB:          true,
		DBDriver:      "mysql",
		Host:          "localhost",
		User:          "evdreader",
		Passwd:        "readonly",
		DBName:        "LARPIX",
		Bounds:        det.Bounds,
		DriftVelocity: det.DriftVelocity,
		ClockInterval: det.ClockInterval,
		Direction:     det.Direction,
	}
}

// LoadConfiguration starts from the defaults, applies the JSON file when a
// filename is given and then the EVD_* environment variables.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return config, err
		}
		err = json.Unmarshal(data, &config)
		if err != nil {
			return config, fmt.Errorf("parse %s: %w", filename, err)
		}
	}

	if err := env.Parse(&config); err != nil {
		return config, fmt.Errorf("parse env: %w", err)
	}
	return config, nil
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("Output dir: %s", config.OutputDir), "config")
	logger.Info(fmt.Sprintf("Selector: %s", config.Selector), "config")
	logger.Info(fmt.Sprintf("Interactive: %t", config.Interactive), "config")
	logger.Info(fmt.Sprintf("Viewer: %s", config.Viewer), "config")
	logger.Info(fmt.Sprintf("Image size: %dx%d", config.Width, config.Height), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	if !config.NoDB {
		logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
		logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
		logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
		logger.Info(fmt.Sprintf("DB path: %s", config.DBPath), "config")
		logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	}
	logger.Info(fmt.Sprintf("Detector bounds: %v", config.Bounds), "config")
	logger.Info(fmt.Sprintf("Drift velocity: %g mm/us", config.DriftVelocity), "config")
	logger.Info(fmt.Sprintf("Clock interval: %g us", config.ClockInterval), "config")
	logger.Info(fmt.Sprintf("Drift direction: %d", config.Direction), "config")
}
