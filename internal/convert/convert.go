// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives the external converter over a batch of selected
// files. Each file is converted by a separate, sequential invocation; a
// failing invocation is reported and counted but never stops the batch.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/autobatch/pkg/types"
)

// Job names one file to convert.
type Job struct {
	// Name is the input filename as discovered.
	Name string

	// Base is Name without the candidate suffix; it is the converter's
	// principal argument.
	Base string

	// Output is the file the converter is expected to write.
	Output string
}

// NewJob derives the base and output names for the file name. The suffix is
// stripped when present; when it is absent, or stripping would leave an
// empty base, the full name is used as the base.
func NewJob(name, suffix, outputSuffix string) Job {
	base := name
	if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
		base = trimmed
	}
	return Job{Name: name, Base: base, Output: base + outputSuffix}
}

// Converter runs the external converter for a single job. It returns nil
// when the converter exits with status 0. Any other outcome is an error;
// when the converter ran and exited non-zero, the error chain carries the
// exit code (see ExitCode).
type Converter interface {
	Convert(ctx context.Context, job Job) error
}

// Recorder receives the result of every conversion attempt.
type Recorder interface {
	Record(ctx context.Context, item types.ItemResult) error
}

// exitCoder is implemented by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// ExitCode extracts the process exit status from a Converter error: 0 for
// nil, the exit code when the chain holds one, -1 otherwise (the converter
// could not be started).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Attempted int `json:"attempted" yaml:"attempted"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`

	// Interrupted is set when the context was cancelled before every job ran.
	Interrupted bool `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`

	Items []types.ItemResult `json:"items" yaml:"items"`
}

// HasFailures reports whether any conversion failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// BatchOptions configures ConvertBatch.
type BatchOptions struct {
	// Recorder, when set, is handed every item result. Recorder errors are
	// reported as warnings.
	Recorder Recorder
}

// ConvertJob runs a single job and returns its result, writing a warning to
// w when the converter fails.
func ConvertJob(ctx context.Context, c Converter, job Job, w io.Writer) types.ItemResult {
	item := types.ItemResult{
		Name:      job.Name,
		Base:      job.Base,
		Output:    job.Output,
		StartedAt: time.Now().UTC(),
	}

	err := c.Convert(ctx, job)
	item.Duration = time.Since(item.StartedAt)
	item.ExitCode = ExitCode(err)

	if err == nil {
		item.Status = types.ConversionDone
		return item
	}

	item.Status = types.ConversionFailed
	item.Error = err.Error()
	if item.ExitCode == -1 {
		fmt.Fprintf(w, "warning: %s failed to convert: %v\n", job.Name, err)
	} else {
		fmt.Fprintf(w, "warning: %s failed to convert (exit code %d)\n", job.Name, item.ExitCode)
	}
	return item
}

// ConvertBatch converts jobs in order, printing a progress line per job and
// a final tally to w. It waits for each conversion to finish before
// starting the next. Cancelling ctx stops the batch before the next job.
func ConvertBatch(ctx context.Context, c Converter, jobs []Job, w io.Writer, opts BatchOptions) BatchResult {
	var result BatchResult
	total := len(jobs)

	for i, job := range jobs {
		if ctx.Err() != nil {
			result.Interrupted = true
			fmt.Fprintf(w, "warning: batch interrupted, %d file(s) not converted\n", total-i)
			break
		}

		fmt.Fprintf(w, "[%d/%d] converting: %s -> %s\n", i+1, total, job.Name, job.Output)
		item := ConvertJob(ctx, c, job, w)

		result.Attempted++
		if item.Status == types.ConversionDone {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Items = append(result.Items, item)

		if opts.Recorder != nil {
			if err := opts.Recorder.Record(ctx, item); err != nil {
				fmt.Fprintf(w, "warning: recording result for %s: %v\n", job.Name, err)
			}
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d/%d converted, %d failed\n",
		result.Succeeded, result.Attempted, result.Failed)
	return result
}
