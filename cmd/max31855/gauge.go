// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
)

// Type K range covered by the gauge, in °C.
const (
	gaugeMin = -200.0
	gaugeMax = 1350.0
)

// gauge draws a horizontal bar of width cells, filled in proportion to c and
// shaded from blue (cold) to red (hot).
type gauge struct {
	w       io.Writer
	width   int
	palette *ansi256.Palette
	buf     bytes.Buffer
}

func newGauge(w io.Writer, width int) *gauge {
	return &gauge{w: w, width: width, palette: ansi256.Default}
}

func (g *gauge) draw(c float64) error {
	filled := int(math.Round(gaugeFraction(c) * float64(g.width)))
	g.buf.Reset()
	_, _ = g.buf.WriteString("\r\033[0m")
	for i := 0; i < g.width; i++ {
		if i < filled {
			_, _ = io.WriteString(&g.buf, g.palette.Block(heat(float64(i)/float64(g.width))))
		} else {
			_ = g.buf.WriteByte(' ')
		}
	}
	_, _ = fmt.Fprintf(&g.buf, "\033[0m %.1f°C\n", c)
	_, err := g.buf.WriteTo(g.w)
	return err
}

// gaugeFraction maps c onto [0, 1].
func gaugeFraction(c float64) float64 {
	f := (c - gaugeMin) / (gaugeMax - gaugeMin)
	return math.Max(0, math.Min(1, f))
}

// heat returns the shade for position f in [0, 1].
func heat(f float64) color.NRGBA {
	return color.NRGBA{R: uint8(255 * f), G: 0, B: uint8(255 * (1 - f)), A: 255}
}
