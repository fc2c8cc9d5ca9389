// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of one converter invocation.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// ItemResult records a single converter invocation.
type ItemResult struct {
	// Name is the input filename.
	Name string `json:"name" yaml:"name"`

	// Base is the name handed to the converter (suffix stripped).
	Base string `json:"base" yaml:"base"`

	// Output is the file the converter is expected to produce.
	Output string `json:"output" yaml:"output"`

	// ExitCode is the converter exit status; -1 when it could not be started.
	ExitCode int `json:"exit_code" yaml:"exit_code"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Error holds the start or wait error text, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}
