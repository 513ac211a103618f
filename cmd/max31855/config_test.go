// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "max31855.yaml")
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseArgsDefaults(t *testing.T) {
	cfg, err := parseArgs(nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, *cfg, config{Samples: 3, Interval: 100 * time.Millisecond})
}

func TestParseArgsFlags(t *testing.T) {
	cfg, err := parseArgs([]string{"-spi", "SPI0.1", "-cs", "GPIO5", "-n", "5", "-interval", "250ms", "-nist", "-gauge"})
	assert.NilError(t, err)
	assert.DeepEqual(t, *cfg, config{
		SPI:      "SPI0.1",
		CS:       "GPIO5",
		Samples:  5,
		Interval: 250 * time.Millisecond,
		NIST:     true,
		Gauge:    true,
	})
}

func TestParseArgsConfigFile(t *testing.T) {
	path := writeConfig(t, "spi: SPI1.0\ncs: GPIO6\nsamples: 7\ninterval: 1s\nnist: true\n")
	cfg, err := parseArgs([]string{"-config", path, "-n", "1"})
	assert.NilError(t, err)
	// -n on the command line wins over the file.
	assert.DeepEqual(t, *cfg, config{
		SPI:      "SPI1.0",
		CS:       "GPIO6",
		Samples:  1,
		Interval: time.Second,
		NIST:     true,
	})
}

func TestParseArgsEmptyConfigFile(t *testing.T) {
	cfg, err := parseArgs([]string{"-config", writeConfig(t, "")})
	assert.NilError(t, err)
	assert.Equal(t, cfg.Samples, 3)
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero samples", []string{"-n", "0"}},
		{"short interval", []string{"-interval", "10ms"}},
		{"extra argument", []string{"SPI0.0"}},
		{"unknown flag", []string{"-bogus"}},
		{"missing file", []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"unknown key", []string{"-config", writeConfig(t, "spi: SPI0.0\nbus: 1\n")}},
		{"bad duration", []string{"-config", writeConfig(t, "interval: soon\n")}},
		{"invalid file value", []string{"-config", writeConfig(t, "samples: -1\n")}},
	}
	for _, test := range tests {
		_, err := parseArgs(test.args)
		assert.Assert(t, err != nil, test.name)
	}
}
