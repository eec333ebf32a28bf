package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Pivot   PivotConfig   `mapstructure:"pivot"`
	Columns ColumnsConfig `mapstructure:"columns"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`

	// Source is the config file that was read, empty when running on defaults.
	Source string `mapstructure:"-"`
}

// InputConfig holds file selection settings
type InputConfig struct {
	StartDir         string `mapstructure:"start_dir"`         // Directory the picker opens in
	KeepIntermediate bool   `mapstructure:"keep_intermediate"` // Keep the CSV synthesized from an .xlsx input
}

// PivotConfig names the columns the reshape works on
type PivotConfig struct {
	IdentityColumns        []string `mapstructure:"identity_columns"`
	KeyColumn              string   `mapstructure:"key_column"`
	ValueColumn            string   `mapstructure:"value_column"`
	DropIncompleteIdentity bool     `mapstructure:"drop_incomplete_identity"`
}

// ColumnsConfig controls how test names become output headers
type ColumnsConfig struct {
	BuiltinAbbreviations bool           `mapstructure:"builtin_abbreviations"`
	Abbreviations        []Abbreviation `mapstructure:"abbreviations"`
}

// Abbreviation renames one test column. Listed as pairs because viper folds map keys to lower case.
type Abbreviation struct {
	TestName string `mapstructure:"test_name"`
	Column   string `mapstructure:"column"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Suffix       string `mapstructure:"suffix"`        // Appended to the input stem
	Sheet        string `mapstructure:"sheet"`         // Name of the single output sheet
	NumericCells bool   `mapstructure:"numeric_cells"` // Store number-like values as numbers
}

// LoggingConfig holds log file settings
type LoggingConfig struct {
	File  string `mapstructure:"file"` // Empty keeps logs off disk
	Level string `mapstructure:"level"`
}

// Load reads the configuration from a file or uses defaults.
// If configPath is empty, it looks for "config.yaml" in the current directory.
// A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("LABPIVOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	source := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		source = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Source = source

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.start_dir", "")
	v.SetDefault("input.keep_intermediate", false)

	v.SetDefault("pivot.identity_columns", []string{"Age", "Gender", "Mobile", "Name", "PID"})
	v.SetDefault("pivot.key_column", "TestName")
	v.SetDefault("pivot.value_column", "ResultValue")
	v.SetDefault("pivot.drop_incomplete_identity", false)

	v.SetDefault("columns.builtin_abbreviations", false)
	v.SetDefault("columns.abbreviations", []map[string]any{})

	v.SetDefault("output.suffix", "_transformed")
	v.SetDefault("output.sheet", "Sheet1")
	v.SetDefault("output.numeric_cells", true)

	v.SetDefault("logging.file", "")
	v.SetDefault("logging.level", "info")
}

// normalizePaths resolves the picker start directory
func (c *Config) normalizePaths() error {
	if c.Input.StartDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		c.Input.StartDir = wd
		return nil
	}

	abs, err := filepath.Abs(c.Input.StartDir)
	if err != nil {
		return fmt.Errorf("failed to resolve input.start_dir: %w", err)
	}
	c.Input.StartDir = abs
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Pivot.IdentityColumns) == 0 {
		return fmt.Errorf("pivot.identity_columns must contain at least one column")
	}
	for _, col := range c.Pivot.IdentityColumns {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("pivot.identity_columns contains an empty name")
		}
	}

	if c.Pivot.KeyColumn == "" {
		return fmt.Errorf("pivot.key_column cannot be empty")
	}

	if c.Pivot.ValueColumn == "" {
		return fmt.Errorf("pivot.value_column cannot be empty")
	}

	if c.Pivot.KeyColumn == c.Pivot.ValueColumn {
		return fmt.Errorf("pivot.key_column and pivot.value_column must differ")
	}

	if c.Output.Suffix == "" {
		return fmt.Errorf("output.suffix cannot be empty")
	}

	if c.Output.Sheet == "" {
		return fmt.Errorf("output.sheet cannot be empty")
	}

	for i, a := range c.Columns.Abbreviations {
		if a.TestName == "" || a.Column == "" {
			return fmt.Errorf("columns.abbreviations[%d] needs both test_name and column", i)
		}
	}

	return nil
}

// RequiredColumns lists every column the reshape reads, identity columns first.
func (c *Config) RequiredColumns() []string {
	cols := make([]string, 0, len(c.Pivot.IdentityColumns)+2)
	cols = append(cols, c.Pivot.IdentityColumns...)
	return append(cols, c.Pivot.KeyColumn, c.Pivot.ValueColumn)
}
