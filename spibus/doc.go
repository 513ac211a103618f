// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package spibus shares one SPI port between several devices, each selected
// by its own chip select line.
//
// A device gets exclusive use of the bus through a Session. Acquire locks the
// bus and asserts the chip select, Release de-asserts it and unlocks the bus.
// Transfers of other devices on the same Bus never interleave with an open
// Session.
//
// A nil chip select pin uses the port's native chip select, which the SPI
// controller toggles around every transfer.
//
// All devices share the port's clock frequency, mode and word size, which are
// set once in New.
package spibus
