// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// max31855 reads a thermocouple through a MAX31855 converter and prints the
// median of a few samples.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/GermanBionicSystems/thermocouple/max31855"
	"github.com/GermanBionicSystems/thermocouple/spibus"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	p, err := spireg.Open(cfg.SPI)
	if err != nil {
		return err
	}
	defer p.Close()

	var cs gpio.PinOut
	if cfg.CS != "" {
		pin := gpioreg.ByName(cfg.CS)
		if pin == nil {
			return fmt.Errorf("unknown chip select pin %q", cfg.CS)
		}
		cs = pin
	}

	b, err := spibus.New(p, max31855.MaxFrequency, spi.Mode0, 8)
	if err != nil {
		return err
	}
	d, err := max31855.New(b, cs, nil)
	if err != nil {
		return err
	}

	tc, ref, err := sample(d, cfg.Samples, cfg.Interval)
	if err != nil {
		return err
	}
	if cfg.NIST {
		if tc, err = max31855.Compensate(tc, ref); err != nil {
			return err
		}
	}
	fmt.Printf("Thermocouple: %.2f°C internal: %.4f°C\n", tc, ref)

	if cfg.Gauge {
		return newGauge(colorable.NewColorableStdout(), 40).draw(tc)
	}
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("max31855: ")
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}
