// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/autobatch/internal/catalog"
	"github.com/pdiddy/autobatch/internal/container"
	"github.com/pdiddy/autobatch/internal/convert"
	"github.com/pdiddy/autobatch/internal/journal"
	"github.com/pdiddy/autobatch/internal/launcher"
	"github.com/pdiddy/autobatch/pkg/types"
)

func runLauncher(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	conv, err := newConverter(cfg, out, errOut)
	if err != nil {
		return err
	}

	s := &launcher.Session{
		Dir: cfg.Dir,
		Discovery: catalog.Options{
			Filter:     catalog.Filter{Suffix: cfg.Suffix},
			MaxEntries: cfg.MaxEntries,
		},
		OutputSuffix: cfg.Converter.OutputSuffix,
		Converter:    conv,
		In:           cmd.InOrStdin(),
		Out:          out,
	}

	if cfg.Journal != "" {
		store, err := journal.Open(cfg.Journal)
		if err != nil {
			fmt.Fprintf(errOut, "warning: journal disabled: %v\n", err)
		} else {
			defer store.Close()
			s.BeginBatch = func(ctx context.Context) (convert.Recorder, error) {
				run, err := store.BeginRun(ctx, cfg.Dir)
				if err != nil {
					return nil, err
				}
				return run, nil
			}
		}
	}

	outcome, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}

	if outcome.State == launcher.Done && cfg.Report != "" {
		if err := convert.WriteReport(cfg.Report, outcome.Result); err != nil {
			fmt.Fprintf(errOut, "warning: %v\n", err)
		} else {
			fmt.Fprintf(out, "Report written to %s\n", cfg.Report)
		}
	}
	return nil
}

// newConverter builds the converter for the configured backend.
func newConverter(cfg types.Config, stdout, stderr io.Writer) (convert.Converter, error) {
	switch cfg.Converter.Backend {
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return convert.NewContainerConverter(rt, cfg.Converter, cfg.Dir, stdout, stderr)
	default:
		return convert.NewExecConverter(cfg.Converter, cfg.Dir, stdout, stderr), nil
	}
}
