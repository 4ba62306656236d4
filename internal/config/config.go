package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
)

// GradableEvent declares a single gradable event and its deadline policy
type GradableEvent struct {
	Name     string        `yaml:"name" validate:"required"`
	Deadline deadline.Info `yaml:"deadline"`
}

// EventSeries declares a recurring set of gradable events (e.g. weekly labs).
// Each occurrence of RRule becomes an event named "<NamePrefix> <n>" whose
// on-time date is the occurrence and whose policy is Deadline instantiated
// at that date.
type EventSeries struct {
	NamePrefix string            `yaml:"namePrefix" validate:"required"`
	RRule      string            `yaml:"rrule" validate:"required"`
	Deadline   deadline.Template `yaml:"deadline"`
}

// Config represents the application configuration
type Config struct {
	Course              string          `yaml:"course" validate:"required"`
	DatabaseURL         string          `yaml:"databaseURL" validate:"required"`
	DistributionSheetID string          `yaml:"distributionSheetID,omitempty"`
	LogDir              string          `yaml:"logDir,omitempty"`
	GradableEvents      []GradableEvent `yaml:"gradableEvents,omitempty" validate:"dive"`
	EventSeries         []EventSeries   `yaml:"eventSeries,omitempty" validate:"dive"`
	GraderModifiers     map[string]int  `yaml:"graderModifiers,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from grading_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="test" will look for "grading_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, checks rrule syntax and
// instantiates each series template once to catch bad offsets
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	names := make(map[string]bool, len(cfg.GradableEvents))
	for i, event := range cfg.GradableEvents {
		if names[event.Name] {
			return fmt.Errorf("duplicate event name in gradableEvents[%d]: %s", i, event.Name)
		}
		names[event.Name] = true
	}

	for i, series := range cfg.EventSeries {
		r, err := ParseSeriesRule(series.RRule)
		if err != nil {
			return fmt.Errorf("invalid rrule in eventSeries[%d]: %w", i, err)
		}
		if _, err := series.Deadline.At(r.GetDTStart()); err != nil {
			return fmt.Errorf("invalid deadline in eventSeries[%d]: %w", i, err)
		}
	}

	return nil
}

// ParseSeriesRule parses a series rrule, which must be bounded by COUNT or
// UNTIL so that its occurrences can be listed
func ParseSeriesRule(s string) (*rrule.RRule, error) {
	r, err := rrule.StrToRRule(s)
	if err != nil {
		return nil, err
	}
	if r.OrigOptions.Count == 0 && r.OrigOptions.Until.IsZero() {
		return nil, fmt.Errorf("rrule %q must set COUNT or UNTIL", s)
	}
	return r, nil
}

// findConfigFile searches for grading_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "grading_config.test.yaml")
func findConfigFile(env string) (string, error) {
	return locate(withEnv("grading_config", env, "yaml"))
}

func withEnv(base, env, ext string) string {
	if env == "" {
		return base + "." + ext
	}
	return base + "." + env + "." + ext
}

// locate returns fileName if it exists in the current directory, otherwise
// its path in the user's home directory
func locate(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
