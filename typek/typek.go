// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package typek converts between temperature and thermoelectric voltage for
// Type K (chromel/alumel) thermocouples using the NIST ITS-90 polynomials.
//
// Voltages are in millivolts, temperatures in degrees Celsius.
//
// Reference tables
//
//	https://srdata.nist.gov/its90/download/type_k.tab
//	https://srdata.nist.gov/its90/type_k/kcoefficients_inverse.html
package typek

import (
	"fmt"
	"math"
)

// Reference function coefficients, 0°C to 1372°C. The exponential term below
// is added on top of the power series.
var coldJunctionPositive = [...]float64{
	-0.176004136860e-01,
	0.389212049750e-01,
	0.185587700320e-04,
	-0.994575928740e-07,
	0.318409457190e-09,
	-0.560728448890e-12,
	0.560750590590e-15,
	-0.320207200030e-18,
	0.971511471520e-22,
	-0.121047212750e-25,
}

// Reference function coefficients, -270°C to 0°C.
var coldJunctionNegative = [...]float64{
	0,
	0.394501280250e-01,
	0.236223735980e-04,
	-0.328589067840e-06,
	-0.499048287770e-08,
	-0.675090591730e-10,
	-0.574103274280e-12,
	-0.310888728940e-14,
	-0.104516093650e-16,
	-0.198892668780e-19,
	-0.163226974860e-22,
}

const (
	expA0 = 0.1185976
	expA1 = -0.1183432e-03
	expA2 = 0.1269686e+03
)

// Band is one range of the inverse polynomial. Low is exclusive except for
// the first band, High is inclusive.
type Band struct {
	Low, High    float64
	Coefficients []float64
}

// Bands lists the inverse polynomial ranges in increasing voltage order.
var Bands = [...]Band{
	// -200°C to 0°C
	{
		Low:  -5.891,
		High: 0,
		Coefficients: []float64{
			0.0000000e+00,
			2.5173462e+01,
			-1.1662878e+00,
			-1.0833638e+00,
			-8.9773540e-01,
			-3.7342377e-01,
			-8.6632643e-02,
			-1.0450598e-02,
			-5.1920577e-04,
		},
	},
	// 0°C to 500°C
	{
		Low:  0,
		High: 20.644,
		Coefficients: []float64{
			0.000000e+00,
			2.508355e+01,
			7.860106e-02,
			-2.503131e-01,
			8.315270e-02,
			-1.228034e-02,
			9.804036e-04,
			-4.413030e-05,
			1.057734e-06,
			-1.052755e-08,
		},
	},
	// 500°C to 1372°C
	{
		Low:  20.644,
		High: 54.886,
		Coefficients: []float64{
			-1.318058e+02,
			4.830222e+01,
			-1.646031e+00,
			5.464731e-02,
			-9.650715e-04,
			8.802193e-06,
			-3.110810e-08,
		},
	},
}

// OutOfRangeError is returned when a voltage is outside every inverse band.
type OutOfRangeError struct {
	// Voltage is the offending thermoelectric voltage in mV.
	Voltage float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("typek: total thermoelectric voltage out of range: %g mV", e.Voltage)
}

// ColdJunctionVoltage returns the thermoelectric voltage in mV that a Type K
// thermocouple produces at temperature t against a 0°C reference.
func ColdJunctionVoltage(t float64) float64 {
	if t >= 0 {
		return polynomial(coldJunctionPositive[:], t) + exponential(t)
	}
	return polynomial(coldJunctionNegative[:], t)
}

// Temperature returns the temperature in °C for a Type K thermoelectric
// voltage v in mV.
func Temperature(v float64) (float64, error) {
	b, ok := band(v)
	if !ok {
		return 0, &OutOfRangeError{Voltage: v}
	}
	return polynomial(b.Coefficients, v), nil
}

// band returns the inverse band containing v.
func band(v float64) (*Band, bool) {
	if v >= Bands[0].Low && v <= Bands[0].High {
		return &Bands[0], true
	}
	for i := 1; i < len(Bands); i++ {
		if v > Bands[i].Low && v <= Bands[i].High {
			return &Bands[i], true
		}
	}
	return nil, false
}

// polynomial evaluates Σ c[n]·x^n from n = 0 upward.
func polynomial(c []float64, x float64) float64 {
	var sum float64
	for n, cn := range c {
		sum += cn * math.Pow(x, float64(n))
	}
	return sum
}

func exponential(t float64) float64 {
	return expA0 * math.Exp(expA1*math.Pow(t-expA2, 2))
}
