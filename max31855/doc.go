// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package max31855 provides a driver for the Maxim Integrated MAX31855
// thermocouple-to-digital converter.
//
// The device is read-only: every SPI read returns a 32 bit frame holding the
// thermocouple temperature, the internal (cold junction) temperature and the
// fault flags.
//
// Thermocouple resolution: 0.25°C
//
// Internal temperature resolution: 0.0625°C
//
// The chip linearizes the thermocouple with a fixed 41.276µV/°C slope, which
// drifts from the real Type K curve away from room temperature.
// NISTTemperature undoes that approximation and applies the NIST ITS-90
// Type K polynomials instead.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/MAX31855.pdf
package max31855
