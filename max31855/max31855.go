// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package max31855

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/GermanBionicSystems/thermocouple/spibus"
	"github.com/GermanBionicSystems/thermocouple/typek"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	// MaxFrequency is the fastest SCK the device accepts.
	MaxFrequency = 5 * physic.MegaHertz

	// Sensitivity is the Type K slope the device uses to linearize the
	// thermocouple, in mV/°C.
	Sensitivity = 0.041276

	// MinInterval is the worst case conversion time. Reading faster returns
	// the same conversion again.
	MinInterval = 100 * time.Millisecond

	frameSize = 4

	// Status bits of the reference word's low byte.
	bitOpenCircuit   byte = 1 << 0
	bitShortToGround byte = 1 << 1
	bitShortToPower  byte = 1 << 2
	// Status bit of the thermocouple word's low byte.
	bitFault byte = 1 << 0

	thermocoupleScale = 4      // 2 fractional bits
	referenceScale    = 0.0625 // 4 fractional bits

	thermocoupleResolution physic.Temperature = 250 * physic.MilliKelvin
)

var errInvalidInterval = errors.New("max31855: invalid duration. minimum 100ms")

// Reading holds the two fixed-point fields of a fault free frame.
type Reading struct {
	// Thermocouple is a 14 bit signed value in 0.25°C steps.
	Thermocouple int16
	// Reference is the internal temperature, a 12 bit signed value in
	// 0.0625°C steps.
	Reference int16
}

// ThermocoupleCelsius returns the thermocouple temperature in °C.
func (r Reading) ThermocoupleCelsius() float64 {
	return float64(r.Thermocouple) / thermocoupleScale
}

// ReferenceCelsius returns the internal temperature in °C.
func (r Reading) ReferenceCelsius() float64 {
	return float64(r.Reference) * referenceScale
}

// Opts holds the configuration options for the device.
type Opts struct {
	// NIST makes Sense report NISTTemperature instead of Temperature.
	NIST bool
}

// Dev represents a MAX31855 device.
type Dev struct {
	d        *spibus.Device
	opts     Opts
	mu       sync.Mutex
	shutdown chan struct{}
}

// New returns the MAX31855 selected by cs on a shared bus. The bus must run
// in spi.Mode0 at MaxFrequency or slower. A nil cs uses the port's native
// chip select.
func New(b *spibus.Bus, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	d, err := b.Device(cs)
	if err != nil {
		return nil, fmt.Errorf("max31855: %w", err)
	}
	dev := &Dev{d: d}
	if opts != nil {
		dev.opts = *opts
	}
	return dev, nil
}

// NewSPI returns a MAX31855 that owns the port p and uses its native chip
// select.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	b, err := spibus.New(p, MaxFrequency, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("max31855: %w", err)
	}
	return New(b, nil, opts)
}

// ReadRaw performs one bus transaction and returns the decoded frame.
func (d *Dev) ReadRaw() (Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRaw()
}

// Temperature returns the thermocouple temperature in °C as linearized by
// the device.
func (d *Dev) Temperature() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.temperature()
}

// ReferenceTemperature returns the internal cold junction temperature in °C.
func (d *Dev) ReferenceTemperature() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.referenceTemperature()
}

// NISTTemperature returns the thermocouple temperature in °C corrected with
// the NIST Type K polynomials. It reads the device twice, once for each
// junction.
func (d *Dev) NISTTemperature() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nistTemperature()
}

// Compensate converts a thermocouple temperature tr and a cold junction
// temperature tamb, both as reported by the device, into a temperature
// following the NIST Type K reference function.
func Compensate(tr, tamb float64) (float64, error) {
	vout := Sensitivity * (tr - tamb)
	return typek.Temperature(vout + typek.ColdJunctionVoltage(tamb))
}

// Sense reads the thermocouple temperature and writes it to env. Other
// fields are not modified. Implements physic.SenseEnv.
func (d *Dev) Sense(env *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var c float64
	var err error
	if d.opts.NIST {
		c, err = d.nistTemperature()
	} else {
		c, err = d.temperature()
	}
	if err != nil {
		return err
	}
	env.Temperature = physic.ZeroCelsius + physic.Temperature(math.Round(c*float64(physic.Celsius)))
	return nil
}

// SenseContinuous reads the device every interval and writes the values to
// the returned channel. Readings with a fault are dropped. Call Halt to stop.
// Implements physic.SenseEnv.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < MinInterval {
		return nil, errInvalidInterval
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("max31855: SenseContinuous already running")
	}
	d.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	go d.senseLoop(interval, ch, d.shutdown)
	return ch, nil
}

func (d *Dev) senseLoop(interval time.Duration, ch chan<- physic.Env, shutdown <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(ch)
	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			env := physic.Env{}
			if err := d.Sense(&env); err != nil {
				continue
			}
			select {
			case ch <- env:
			case <-shutdown:
				return
			}
		}
	}
}

// Halt stops a SenseContinuous loop. The device itself has no low power
// state. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return nil
}

// Precision returns the thermocouple resolution of 0.25°C. The datasheet
// accuracy is ±2°C for Type K from -200°C to +700°C.
func (d *Dev) Precision(env *physic.Env) {
	env.Temperature = thermocoupleResolution
	env.Pressure = 0
	env.Humidity = 0
}

func (d *Dev) String() string {
	return fmt.Sprintf("max31855: %s", d.d)
}

func (d *Dev) readRaw() (Reading, error) {
	var frame [frameSize]byte
	if err := d.readFrame(frame[:]); err != nil {
		return Reading{}, err
	}
	return decode(frame)
}

// readFrame holds the bus for exactly one transfer of a full frame.
func (d *Dev) readFrame(frame []byte) error {
	s, err := d.d.Acquire()
	if err != nil {
		return fmt.Errorf("max31855: %w", err)
	}
	defer s.Release()
	if err := s.ReadInto(frame); err != nil {
		return fmt.Errorf("max31855: %w", err)
	}
	return s.Release()
}

func (d *Dev) temperature() (float64, error) {
	r, err := d.readRaw()
	if err != nil {
		return 0, err
	}
	return r.ThermocoupleCelsius(), nil
}

func (d *Dev) referenceTemperature() (float64, error) {
	r, err := d.readRaw()
	if err != nil {
		return 0, err
	}
	return r.ReferenceCelsius(), nil
}

func (d *Dev) nistTemperature() (float64, error) {
	tr, err := d.temperature()
	if err != nil {
		return 0, err
	}
	tamb, err := d.referenceTemperature()
	if err != nil {
		return 0, err
	}
	return Compensate(tr, tamb)
}

// decode checks the fault bits of frame and splits it into its two signed
// fixed-point fields.
func decode(frame [frameSize]byte) (Reading, error) {
	switch {
	case frame[3]&bitOpenCircuit != 0:
		return Reading{}, &FaultError{Fault: FaultOpenCircuit}
	case frame[3]&bitShortToGround != 0:
		return Reading{}, &FaultError{Fault: FaultShortToGround}
	case frame[3]&bitShortToPower != 0:
		return Reading{}, &FaultError{Fault: FaultShortToPower}
	case frame[1]&bitFault != 0:
		return Reading{}, &FaultError{Fault: FaultGeneric}
	}
	return Reading{
		Thermocouple: int16(binary.BigEndian.Uint16(frame[0:2])) >> 2,
		Reference:    int16(binary.BigEndian.Uint16(frame[2:4])) >> 4,
	}, nil
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
