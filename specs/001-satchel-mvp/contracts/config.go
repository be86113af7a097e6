// Package contracts defines the interface contracts for the Satchel MVP.
// These are design artifacts - not compiled code.
// Actual implementations go in internal/config/

package contracts

// ConfigService defines the interface for configuration management.
type ConfigService interface {
	// Load reads configuration from file, then applies environment
	// overrides.
	Load(path string) (*Config, error)

	// Save writes configuration to file.
	Save(config *Config, path string) error

	// Get retrieves a configuration value by path (e.g., "logging.level").
	Get(path string) (string, error)

	// Set updates a configuration value by path.
	Set(path, value string) error

	// Init creates a default configuration file.
	Init() error
}

// Config represents the complete application configuration.
type Config struct {
	Version int           `yaml:"version"`
	Home    string        `yaml:"home"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Environment variables recognized by the CLI. Flags beat environment,
// environment beats file.
const (
	EnvHome         = "SATCHEL_HOME"
	EnvOutputFormat = "SATCHEL_OUTPUT_FORMAT"
	EnvVerbose      = "SATCHEL_VERBOSE"
	EnvLogLevel     = "SATCHEL_LOG_LEVEL"
	EnvPassphrase   = "SATCHEL_PASSPHRASE"
)

// ConfigDefaults returns the default configuration.
func ConfigDefaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.satchel",
		Output: OutputConfig{
			DefaultFormat: "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "",
		},
	}
}

// Config-related errors.
var (
	ErrConfigNotFound = Error{Code: "CONFIG_NOT_FOUND", Message: "configuration file not found"}
	ErrConfigInvalid  = Error{Code: "CONFIG_INVALID", Message: "configuration file is invalid"}
)
