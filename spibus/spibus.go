// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spibus

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

var errReleased = errors.New("spibus: session already released")

// Bus is an SPI connection shared by one or more devices.
type Bus struct {
	mu   sync.Mutex // held for the lifetime of a Session
	conn spi.Conn
}

// New connects to the port p and returns a Bus ready to hand out devices.
func New(p spi.Port, f physic.Frequency, mode spi.Mode, bits int) (*Bus, error) {
	c, err := p.Connect(f, mode, bits)
	if err != nil {
		return nil, fmt.Errorf("spibus: %w", err)
	}
	return &Bus{conn: c}, nil
}

// Device returns the endpoint selected by cs. The pin is driven High so the
// device stays deselected until a Session is acquired. A nil cs uses the
// port's native chip select.
func (b *Bus) Device(cs gpio.PinOut) (*Device, error) {
	if cs != nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		if err := cs.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("spibus: chip select %s: %w", cs, err)
		}
	}
	return &Device{bus: b, cs: cs}, nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("spibus: %s", b.conn)
}

// Device is a chip-select qualified endpoint on a Bus.
type Device struct {
	bus *Bus
	cs  gpio.PinOut
}

// Acquire blocks until the bus is free, then asserts the chip select. The
// returned Session must be released.
func (d *Device) Acquire() (*Session, error) {
	d.bus.mu.Lock()
	if d.cs != nil {
		if err := d.cs.Out(gpio.Low); err != nil {
			d.bus.mu.Unlock()
			return nil, fmt.Errorf("spibus: chip select %s: %w", d.cs, err)
		}
	}
	return &Session{d: d}, nil
}

func (d *Device) String() string {
	if d.cs == nil {
		return d.bus.conn.String()
	}
	return fmt.Sprintf("%s/%s", d.bus.conn, d.cs)
}

// Session is an exclusive hold on the bus for one device.
type Session struct {
	d        *Device
	released bool
}

// Tx performs one full-duplex transfer.
func (s *Session) Tx(w, r []byte) error {
	if s.released {
		return errReleased
	}
	if err := s.d.bus.conn.Tx(w, r); err != nil {
		return fmt.Errorf("spibus: %w", err)
	}
	return nil
}

// ReadInto clocks out zeros and fills r with what the device sends back.
func (s *Session) ReadInto(r []byte) error {
	return s.Tx(make([]byte, len(r)), r)
}

// Release de-asserts the chip select and frees the bus. Calling it more than
// once is a no-op.
func (s *Session) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	defer s.d.bus.mu.Unlock()
	if s.d.cs != nil {
		if err := s.d.cs.Out(gpio.High); err != nil {
			return fmt.Errorf("spibus: chip select %s: %w", s.d.cs, err)
		}
	}
	return nil
}
