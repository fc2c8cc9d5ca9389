// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the autobatch CLI. Running autobatch
// with no subcommand starts the interactive launcher in the configured
// directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the autobatch CLI.
var rootCmd = &cobra.Command{
	Use:   "autobatch",
	Short: "Pick files interactively and run a converter over each one",
	Long: `autobatch scans a directory for candidate files (*.txt by default), lists
them ordered by the first number in their name, and asks which ones to
convert. Answer with indices ("1 3 5"), a range ("2-8"), "*" for everything,
or "q" to quit. After confirmation the external converter is run once per
selected file and a success/failure tally is printed.

The converter is invoked with an argument vector, never through a shell.
Its interactive prompts are answered from the configured script.`,
	SilenceUsage: true,
	RunE:         runLauncher,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./autobatch.yaml or ~/.config/autobatch/autobatch.yaml)")
	rootCmd.PersistentFlags().String("journal", "", "SQLite conversion journal path (disabled when empty)")

	rootCmd.Flags().StringP("dir", "d", ".", "directory to scan for input files")
	rootCmd.Flags().String("suffix", ".txt", "case-sensitive suffix of candidate files")
	rootCmd.Flags().Int("max-entries", 1000, "maximum number of files listed (0 = unlimited)")
	rootCmd.Flags().String("converter", "spec_conv", "converter program")
	rootCmd.Flags().String("backend", "exec", "where the converter runs: exec or container")
	rootCmd.Flags().String("image", "", "container image for the container backend")
	rootCmd.Flags().String("output-suffix", "_8k.spec", "suffix of the file the converter produces")
	rootCmd.Flags().String("report", "", "write a YAML batch report to this path")

	bindFlags(viper.GetViper(), rootCmd)
}

// bindFlags maps command-line flags onto configuration keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	keys := map[string]string{
		"journal":                 "journal",
		"dir":                     "dir",
		"suffix":                  "suffix",
		"max_entries":             "max-entries",
		"converter.command":       "converter",
		"converter.backend":       "backend",
		"converter.image":         "image",
		"converter.output_suffix": "output-suffix",
		"report":                  "report",
	}
	for key, flag := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			panic(fmt.Sprintf("binding flag --%s to %s: %v", flag, key, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("autobatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "autobatch"))
		}
	}

	viper.SetEnvPrefix("AUTOBATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A second Ctrl-C kills the process even while a prompt is reading stdin.
	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
