// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GermanBionicSystems/thermocouple/max31855"
	"gopkg.in/yaml.v3"
)

// config holds the settings of one run. A YAML file given with -config
// provides defaults, flags set on the command line override them.
type config struct {
	SPI      string        `yaml:"spi"`
	CS       string        `yaml:"cs"`
	Samples  int           `yaml:"samples"`
	Interval time.Duration `yaml:"interval"`
	NIST     bool          `yaml:"nist"`
	Gauge    bool          `yaml:"gauge"`
}

func defaultConfig() *config {
	return &config{Samples: 3, Interval: max31855.MinInterval}
}

// load overlays the YAML file at path on cfg. Unknown keys are rejected.
func (cfg *config) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (cfg *config) validate() error {
	if cfg.Samples < 1 {
		return fmt.Errorf("samples must be at least 1, got %d", cfg.Samples)
	}
	if cfg.Interval < max31855.MinInterval {
		return fmt.Errorf("interval must be at least %s, got %s", max31855.MinInterval, cfg.Interval)
	}
	return nil
}

func parseArgs(args []string) (*config, error) {
	fs := flag.NewFlagSet("max31855", flag.ContinueOnError)
	path := fs.String("config", "", "YAML file holding default settings")
	spiName := fs.String("spi", "", "SPI port to use")
	cs := fs.String("cs", "", "GPIO pin used as chip select, the port's own chip select if empty")
	samples := fs.Int("n", 3, "number of samples, the median is reported")
	interval := fs.Duration("interval", max31855.MinInterval, "delay between samples")
	nist := fs.Bool("nist", false, "apply the NIST Type K correction")
	gauge := fs.Bool("gauge", false, "draw a color gauge of the thermocouple temperature")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	cfg := defaultConfig()
	if *path != "" {
		if err := cfg.load(*path); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "spi":
			cfg.SPI = *spiName
		case "cs":
			cfg.CS = *cs
		case "n":
			cfg.Samples = *samples
		case "interval":
			cfg.Interval = *interval
		case "nist":
			cfg.NIST = *nist
		case "gauge":
			cfg.Gauge = *gauge
		}
	})
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
