// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ".txt", cfg.Suffix)
	assert.Equal(t, 1000, cfg.MaxEntries)
	assert.Equal(t, BackendExec, cfg.Converter.Backend)
	assert.Equal(t, []string{"{base}"}, cfg.Converter.Args)
	assert.Equal(t, []string{"6", "n", "{name}"}, cfg.Converter.Script)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "empty dir", mutate: func(c *Config) { c.Dir = "" }, errMsg: "dir"},
		{name: "empty suffix", mutate: func(c *Config) { c.Suffix = "" }, errMsg: "suffix"},
		{name: "negative cap", mutate: func(c *Config) { c.MaxEntries = -1 }, errMsg: "max_entries"},
		{name: "blank command", mutate: func(c *Config) { c.Converter.Command = "  " }, errMsg: "converter.command"},
		{name: "unknown backend", mutate: func(c *Config) { c.Converter.Backend = "ssh" }, errMsg: "unknown converter.backend"},
		{
			name:   "container without image",
			mutate: func(c *Config) { c.Converter.Backend = BackendContainer },
			errMsg: "converter.image",
		},
		{
			name: "container with image",
			mutate: func(c *Config) {
				c.Converter.Backend = BackendContainer
				c.Converter.Image = "spec-conv:latest"
			},
		},
		{name: "unbounded catalog", mutate: func(c *Config) { c.MaxEntries = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
