// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spibus

import (
	"bytes"
	"testing"
	"time"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

func newBus(t *testing.T, ops []conntest.IO) (*Bus, *spitest.Playback) {
	pb := &spitest.Playback{Playback: conntest.Playback{Ops: ops, DontPanic: true}}
	b, err := New(pb, physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		t.Fatal(err)
	}
	return b, pb
}

func TestSessionReadInto(t *testing.T) {
	frame := []byte{0x0c, 0xd0, 0x00, 0x00}
	b, pb := newBus(t, []conntest.IO{{W: make([]byte, 4), R: frame}})
	defer pb.Close()

	cs := &gpiotest.Pin{N: "CS", Num: 8}
	d, err := b.Device(cs)
	if err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.High {
		t.Errorf("chip select should idle High, found %s", cs.L)
	}

	s, err := d.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.Low {
		t.Errorf("chip select should be asserted Low during a session, found %s", cs.L)
	}
	var r [4]byte
	if err := s.ReadInto(r[:]); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r[:], frame) {
		t.Errorf("read %#v expected %#v", r, frame)
	}
	if err := s.Release(); err != nil {
		t.Error(err)
	}
	if cs.L != gpio.High {
		t.Errorf("chip select should be released High, found %s", cs.L)
	}
	if err := pb.Close(); err != nil {
		t.Error(err)
	}
}

func TestNativeChipSelect(t *testing.T) {
	b, pb := newBus(t, []conntest.IO{{W: []byte{0, 0}, R: []byte{0x12, 0x34}}})
	defer pb.Close()
	d, err := b.Device(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.String()) == 0 {
		t.Error("invalid String() result")
	}
	s, err := d.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()
	r := make([]byte, 2)
	if err := s.ReadInto(r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x12 || r[1] != 0x34 {
		t.Errorf("unexpected read %#v", r)
	}
}

func TestReleasedSession(t *testing.T) {
	b, pb := newBus(t, nil)
	defer pb.Close()
	d, err := b.Device(&gpiotest.Pin{N: "CS"})
	if err != nil {
		t.Fatal(err)
	}
	s, err := d.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Release(); err != nil {
		t.Fatal(err)
	}
	if err := s.Release(); err != nil {
		t.Errorf("second Release() should be a no-op, got %v", err)
	}
	if err := s.ReadInto(make([]byte, 4)); err == nil {
		t.Error("expected an error reading from a released session")
	}
	// The bus must be free again.
	s, err = d.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Release()
}

func TestSessionsAreExclusive(t *testing.T) {
	b, pb := newBus(t, nil)
	defer pb.Close()
	cs0 := &gpiotest.Pin{N: "CS0"}
	cs1 := &gpiotest.Pin{N: "CS1"}
	d0, err := b.Device(cs0)
	if err != nil {
		t.Fatal(err)
	}
	d1, err := b.Device(cs1)
	if err != nil {
		t.Fatal(err)
	}

	s0, err := d0.Acquire()
	if err != nil {
		t.Fatal(err)
	}
	acquired := make(chan *Session)
	go func() {
		s1, err := d1.Acquire()
		if err != nil {
			t.Error(err)
			close(acquired)
			return
		}
		acquired <- s1
	}()

	select {
	case <-acquired:
		t.Fatal("second device acquired the bus while it was held")
	case <-time.After(50 * time.Millisecond):
	}
	if cs1.L != gpio.High {
		t.Error("second chip select asserted while the bus was held")
	}

	if err := s0.Release(); err != nil {
		t.Fatal(err)
	}
	select {
	case s1 := <-acquired:
		if s1 == nil {
			return
		}
		if cs0.L != gpio.High || cs1.L != gpio.Low {
			t.Errorf("unexpected chip select levels cs0=%s cs1=%s", cs0.L, cs1.L)
		}
		_ = s1.Release()
	case <-time.After(time.Second):
		t.Fatal("second device never acquired the bus")
	}
}

func TestConnectError(t *testing.T) {
	pb := &spitest.Playback{Playback: conntest.Playback{DontPanic: true}, Initialized: true}
	if _, err := New(pb, physic.MegaHertz, spi.Mode0, 8); err == nil {
		t.Error("expected an error connecting an already connected port")
	}
}
