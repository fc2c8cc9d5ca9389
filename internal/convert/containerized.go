// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/autobatch/internal/container"
	"github.com/pdiddy/autobatch/pkg/types"
)

// ContainerConverter runs the converter inside a container image with the
// scanned directory mounted as the working directory. It depends on a
// container.Runtime (docker or podman) injected at construction time.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
	command string
	args    []string
	script  []string
	dir     string
	stdout  io.Writer
	stderr  io.Writer
}

// NewContainerConverter creates a converter that runs cfg.Image through rt.
// It verifies that the image exists locally before returning.
func NewContainerConverter(rt container.Runtime, cfg types.ConverterConfig, dir string, stdout, stderr io.Writer) (*ContainerConverter, error) {
	if err := rt.ImageExists(cfg.Image); err != nil {
		return nil, fmt.Errorf("converter image not available in %s: %w", rt.Name(), err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	return &ContainerConverter{
		runtime: rt,
		image:   cfg.Image,
		command: cfg.Command,
		args:    cfg.Args,
		script:  cfg.Script,
		dir:     abs,
		stdout:  stdout,
		stderr:  stderr,
	}, nil
}

// Convert runs the converter container for job and waits for it to exit.
func (c *ContainerConverter) Convert(ctx context.Context, job Job) error {
	args := append([]string{c.command}, ExpandAll(c.args, job)...)
	return c.runtime.Run(ctx, container.RunSpec{
		Image:   c.image,
		Workdir: c.dir,
		Args:    args,
		Stdin:   ScriptReader(c.script, job),
		Stdout:  c.stdout,
		Stderr:  c.stderr,
	})
}
