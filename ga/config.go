package ga

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config stores the configuration parameters for a TSP run.
type Config struct {
	GA         GAConfig
	Search     SearchConfig
	Checkpoint CheckpointConfig
}

// GAConfig holds the evolutionary parameters.
type GAConfig struct {
	PopSize      int     `ini:"pop_size"`      // Must be even
	MutationRate float64 `ini:"mutation_rate"` // Probability in [0, 1]
	Seed         int64   `ini:"seed"`          // 0 selects a fixed default seed
}

// SearchConfig holds parameters of the generation loop.
type SearchConfig struct {
	Iterations     int `ini:"iterations"`
	ReportInterval int `ini:"report_interval"` // Generations between stats log lines, 0 disables
}

// CheckpointConfig holds parameters related to saving progress.
type CheckpointConfig struct {
	Interval int `ini:"interval"` // Generations between checkpoints, 0 disables
}

const (
	defaultPopSize        = 20
	defaultMutationRate   = 0.1
	defaultIterations     = 100000
	defaultReportInterval = 1000
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		GA: GAConfig{
			PopSize:      defaultPopSize,
			MutationRate: defaultMutationRate,
		},
		Search: SearchConfig{
			Iterations:     defaultIterations,
			ReportInterval: defaultReportInterval,
		},
	}
}

// LoadConfig loads configuration parameters from an INI file.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true, // Comments go on their own lines
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultConfig()

	// Absent keys leave fields untouched, so defaults survive; malformed values are errors.
	if err := cfg.Section("GA").StrictMapTo(&config.GA); err != nil {
		return nil, fmt.Errorf("failed to map [GA] section: %w", err)
	}
	if err := cfg.Section("Search").StrictMapTo(&config.Search); err != nil {
		return nil, fmt.Errorf("failed to map [Search] section: %w", err)
	}
	if err := cfg.Section("Checkpoint").StrictMapTo(&config.Checkpoint); err != nil {
		return nil, fmt.Errorf("failed to map [Checkpoint] section: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges. It is called by LoadConfig and should be called
// again after overriding fields by hand.
func (c *Config) Validate() error {
	if c.GA.PopSize < 2 {
		return fmt.Errorf("config error: pop_size must be at least 2")
	}
	if c.GA.PopSize%2 != 0 {
		return fmt.Errorf("config error: pop_size must be even, got %d", c.GA.PopSize)
	}
	if c.GA.MutationRate < 0 || c.GA.MutationRate > 1 {
		return fmt.Errorf("config error: mutation_rate must be between 0 and 1")
	}
	if c.Search.Iterations < 0 {
		return fmt.Errorf("config error: iterations cannot be negative")
	}
	if c.Search.ReportInterval < 0 {
		return fmt.Errorf("config error: report_interval cannot be negative")
	}
	if c.Checkpoint.Interval < 0 {
		return fmt.Errorf("config error: checkpoint interval cannot be negative")
	}
	return nil
}
