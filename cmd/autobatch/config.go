// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/autobatch/pkg/types"
)

func init() {
	setDefaults(viper.GetViper())
}

// setDefaults registers every configuration key so that config files, env
// vars and flags can all override it.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("dir", d.Dir)
	v.SetDefault("suffix", d.Suffix)
	v.SetDefault("max_entries", d.MaxEntries)
	v.SetDefault("converter.backend", string(d.Converter.Backend))
	v.SetDefault("converter.command", d.Converter.Command)
	v.SetDefault("converter.args", d.Converter.Args)
	v.SetDefault("converter.script", d.Converter.Script)
	v.SetDefault("converter.output_suffix", d.Converter.OutputSuffix)
	v.SetDefault("converter.image", "")
	v.SetDefault("journal", "")
	v.SetDefault("report", "")
}

// loadConfig decodes and validates the launcher settings held by v.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
