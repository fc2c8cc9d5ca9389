// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ConverterBackend identifies where the external converter runs.
type ConverterBackend string

const (
	BackendExec      ConverterBackend = "exec"
	BackendContainer ConverterBackend = "container"
)

const (
	// DefaultSuffix is the filename suffix that marks a convertible input.
	DefaultSuffix = ".txt"

	// DefaultMaxEntries bounds the catalog size. Zero means unbounded.
	DefaultMaxEntries = 1000

	// DefaultCommand is the converter binary looked up on PATH.
	DefaultCommand = "spec_conv"

	// DefaultOutputSuffix is appended to the base name to show the expected
	// converter output in progress lines.
	DefaultOutputSuffix = "_8k.spec"
)

// ConverterConfig holds settings for invoking the external converter.
// Args and Script entries are templates; {name}, {base} and {output} are
// replaced per file before invocation.
type ConverterConfig struct {
	// Backend selects host execution or a container runtime.
	Backend ConverterBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Command is the converter program (host backend) or the program
	// run inside the image (container backend).
	Command string `json:"command" yaml:"command" mapstructure:"command"`

	// Args is the argument vector passed after Command.
	Args []string `json:"args" yaml:"args" mapstructure:"args"`

	// Script lines are written to the converter's stdin, one per line,
	// answering its interactive prompts.
	Script []string `json:"script" yaml:"script" mapstructure:"script"`

	// OutputSuffix names the file the converter is expected to produce.
	OutputSuffix string `json:"output_suffix" yaml:"output_suffix" mapstructure:"output_suffix"`

	// Image is the container image used by the container backend.
	Image string `json:"image,omitempty" yaml:"image,omitempty" mapstructure:"image"`
}

// Config holds all launcher settings.
type Config struct {
	// Dir is the directory scanned for input files (default ".").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Suffix is the case-sensitive filename suffix of candidate files.
	Suffix string `json:"suffix" yaml:"suffix" mapstructure:"suffix"`

	// MaxEntries caps the catalog; extra files are dropped with a warning.
	MaxEntries int `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`

	Converter ConverterConfig `json:"converter" yaml:"converter" mapstructure:"converter"`

	// Journal is the SQLite database path for the conversion journal.
	// Empty disables journaling.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty" mapstructure:"journal"`

	// Report is the YAML batch report path. Empty disables the report.
	Report string `json:"report,omitempty" yaml:"report,omitempty" mapstructure:"report"`
}

// DefaultConfig returns the settings that reproduce the stock launcher:
// scan the working directory for .txt files and feed each one to
// spec_conv with its scripted menu answers.
func DefaultConfig() Config {
	return Config{
		Dir:        ".",
		Suffix:     DefaultSuffix,
		MaxEntries: DefaultMaxEntries,
		Converter: ConverterConfig{
			Backend:      BackendExec,
			Command:      DefaultCommand,
			Args:         []string{"{base}"},
			Script:       []string{"6", "n", "{name}"},
			OutputSuffix: DefaultOutputSuffix,
		},
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir must not be empty")
	}
	if c.Suffix == "" {
		return fmt.Errorf("suffix must not be empty")
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("max_entries must be >= 0, got %d", c.MaxEntries)
	}
	if strings.TrimSpace(c.Converter.Command) == "" {
		return fmt.Errorf("converter.command must not be empty")
	}
	switch c.Converter.Backend {
	case BackendExec:
	case BackendContainer:
		if c.Converter.Image == "" {
			return fmt.Errorf("converter.image is required for the %s backend", BackendContainer)
		}
	default:
		return fmt.Errorf("unknown converter.backend %q (want %s or %s)",
			c.Converter.Backend, BackendExec, BackendContainer)
	}
	return nil
}
