// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pdiddy/autobatch/pkg/types"
)

// process describes one host process invocation.
type process struct {
	name   string
	args   []string
	dir    string
	env    []string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// processRunner abstracts process execution for testing.
type processRunner interface {
	Run(ctx context.Context, p process) error
}

// osRunner is the production processRunner backed by os/exec.
type osRunner struct{}

func (osRunner) Run(ctx context.Context, p process) error {
	cmd := exec.CommandContext(ctx, p.name, p.args...)
	cmd.Dir = p.dir
	if len(p.env) > 0 {
		cmd.Env = append(os.Environ(), p.env...)
	}
	cmd.Stdin = p.stdin
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr
	return cmd.Run()
}

// ExecConverter runs the converter as a host process. The file names are
// passed as discrete argv elements and never through a shell.
type ExecConverter struct {
	// Command is the converter program, resolved through PATH when it
	// contains no path separator.
	Command string

	// Args and Script are templates expanded per job; see Expand.
	Args   []string
	Script []string

	// Dir is the converter's working directory (the scanned directory).
	Dir string

	// Env entries are appended to the inherited environment.
	Env []string

	Stdout io.Writer
	Stderr io.Writer

	run processRunner
}

// NewExecConverter creates a host converter from cfg that runs in dir and
// shares the given output streams.
func NewExecConverter(cfg types.ConverterConfig, dir string, stdout, stderr io.Writer) *ExecConverter {
	return &ExecConverter{
		Command: cfg.Command,
		Args:    cfg.Args,
		Script:  cfg.Script,
		Dir:     dir,
		Stdout:  stdout,
		Stderr:  stderr,
		run:     osRunner{},
	}
}

// Convert runs the converter for job and waits for it to exit.
func (e *ExecConverter) Convert(ctx context.Context, job Job) error {
	run := e.run
	if run == nil {
		run = osRunner{}
	}
	err := run.Run(ctx, process{
		name:   e.Command,
		args:   ExpandAll(e.Args, job),
		dir:    e.Dir,
		env:    e.Env,
		stdin:  ScriptReader(e.Script, job),
		stdout: e.Stdout,
		stderr: e.Stderr,
	})
	if err != nil {
		return fmt.Errorf("running %s for %s: %w", e.Command, job.Name, err)
	}
	return nil
}

// Expand replaces {name}, {base} and {output} in s with the job's values.
func Expand(s string, job Job) string {
	return strings.NewReplacer(
		"{name}", job.Name,
		"{base}", job.Base,
		"{output}", job.Output,
	).Replace(s)
}

// ExpandAll applies Expand to every template.
func ExpandAll(templates []string, job Job) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = Expand(t, job)
	}
	return out
}

// ScriptReader returns the expanded script as newline-terminated lines for
// the converter's stdin, or nil when there is no script.
func ScriptReader(script []string, job Job) io.Reader {
	if len(script) == 0 {
		return nil
	}
	var b strings.Builder
	for _, line := range ExpandAll(script, job) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.NewReader(b.String())
}
