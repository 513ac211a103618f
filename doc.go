// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermocouple is a container for thermocouple converter drivers
// and the helpers they share.
//
// max31855 drives the MAX31855 converter, typek holds the NIST Type K
// polynomials and spibus shares an SPI port between several chip selects.
package thermocouple
