package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}

	if cfg.Source != "" {
		t.Errorf("Expected no source file, got %s", cfg.Source)
	}

	expected := []string{"Age", "Gender", "Mobile", "Name", "PID"}
	if len(cfg.Pivot.IdentityColumns) != len(expected) {
		t.Fatalf("IdentityColumns = %v; want %v", cfg.Pivot.IdentityColumns, expected)
	}
	for i, col := range expected {
		if cfg.Pivot.IdentityColumns[i] != col {
			t.Errorf("IdentityColumns[%d] = %s; want %s", i, cfg.Pivot.IdentityColumns[i], col)
		}
	}

	if cfg.Pivot.KeyColumn != "TestName" || cfg.Pivot.ValueColumn != "ResultValue" {
		t.Errorf("Unexpected key/value columns: %s/%s", cfg.Pivot.KeyColumn, cfg.Pivot.ValueColumn)
	}

	if cfg.Output.Suffix != "_transformed" {
		t.Errorf("Suffix = %s; want _transformed", cfg.Output.Suffix)
	}

	if !cfg.Output.NumericCells {
		t.Error("Expected numeric cells to be enabled by default")
	}

	if cfg.Logging.File != "" {
		t.Errorf("Expected no log file by default, got %s", cfg.Logging.File)
	}

	if !filepath.IsAbs(cfg.Input.StartDir) {
		t.Errorf("Expected absolute start dir, got %s", cfg.Input.StartDir)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `input:
  keep_intermediate: true
pivot:
  drop_incomplete_identity: true
columns:
  abbreviations:
    - test_name: "Lipid Profile - Triglycerides"
      column: "TGL"
output:
  suffix: "_wide"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source != path {
		t.Errorf("Source = %s; want %s", cfg.Source, path)
	}
	if !cfg.Input.KeepIntermediate {
		t.Error("Expected keep_intermediate to be true")
	}
	if !cfg.Pivot.DropIncompleteIdentity {
		t.Error("Expected drop_incomplete_identity to be true")
	}
	if cfg.Output.Suffix != "_wide" {
		t.Errorf("Suffix = %s; want _wide", cfg.Output.Suffix)
	}
	// Untouched keys keep their defaults
	if cfg.Pivot.KeyColumn != "TestName" {
		t.Errorf("KeyColumn = %s; want TestName", cfg.Pivot.KeyColumn)
	}

	if len(cfg.Columns.Abbreviations) != 1 {
		t.Fatalf("Expected 1 abbreviation, got %d", len(cfg.Columns.Abbreviations))
	}
	// Case must survive decoding
	a := cfg.Columns.Abbreviations[0]
	if a.TestName != "Lipid Profile - Triglycerides" || a.Column != "TGL" {
		t.Errorf("Unexpected abbreviation: %+v", a)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pivot: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected an error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Defaults", func(c *Config) {}, false},
		{"No identity columns", func(c *Config) { c.Pivot.IdentityColumns = nil }, true},
		{"Blank identity column", func(c *Config) { c.Pivot.IdentityColumns = []string{"Name", " "} }, true},
		{"Empty key column", func(c *Config) { c.Pivot.KeyColumn = "" }, true},
		{"Empty value column", func(c *Config) { c.Pivot.ValueColumn = "" }, true},
		{"Same key and value", func(c *Config) { c.Pivot.ValueColumn = c.Pivot.KeyColumn }, true},
		{"Empty suffix", func(c *Config) { c.Output.Suffix = "" }, true},
		{"Empty sheet", func(c *Config) { c.Output.Sheet = "" }, true},
		{"Half abbreviation", func(c *Config) {
			c.Columns.Abbreviations = []Abbreviation{{TestName: "Urea"}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequiredColumns(t *testing.T) {
	cfg := Default()
	got := cfg.RequiredColumns()
	expected := []string{"Age", "Gender", "Mobile", "Name", "PID", "TestName", "ResultValue"}

	if len(got) != len(expected) {
		t.Fatalf("RequiredColumns() = %v; want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("RequiredColumns()[%d] = %s; want %s", i, got[i], expected[i])
		}
	}
}
