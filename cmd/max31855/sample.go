// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"log"
	"sort"
	"time"

	"github.com/GermanBionicSystems/thermocouple/max31855"
)

type rawReader interface {
	ReadRaw() (max31855.Reading, error)
}

// sample collects n readings and returns the median thermocouple and
// reference temperatures. Every now and then the device returns a bad value,
// depending a lot on noise, so up to n faults are tolerated before giving up.
func sample(r rawReader, n int, interval time.Duration) (float64, float64, error) {
	tc := make([]float64, 0, n)
	ref := make([]float64, 0, n)
	nErr := 0
	for len(tc) < n {
		if len(tc)+nErr > 0 {
			time.Sleep(interval)
		}
		reading, err := r.ReadRaw()
		if err != nil {
			nErr++
			if nErr == n {
				return 0, 0, err
			}
			log.Printf("sample: %v", err)
			continue
		}
		tc = append(tc, reading.ThermocoupleCelsius())
		ref = append(ref, reading.ReferenceCelsius())
	}
	return median(tc), median(ref), nil
}

func median(v []float64) float64 {
	sort.Float64s(v)
	m := len(v) / 2
	if len(v)%2 == 0 {
		return (v[m-1] + v[m]) / 2
	}
	return v[m]
}
