// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package max31855

// Fault is a sensor fault reported in the status bits of a frame.
type Fault uint8

const (
	FaultOpenCircuit Fault = iota + 1
	FaultShortToGround
	FaultShortToPower
	// FaultGeneric mirrors the OR of the other flags in the thermocouple word.
	FaultGeneric
)

func (f Fault) String() string {
	switch f {
	case FaultOpenCircuit:
		return "thermocouple not connected"
	case FaultShortToGround:
		return "short circuit to ground"
	case FaultShortToPower:
		return "short circuit to power"
	case FaultGeneric:
		return "faulty reading"
	default:
		return "unknown fault"
	}
}

// FaultError is returned when the device flags a fault. The frame's
// temperatures are never returned along with it.
type FaultError struct {
	Fault Fault
}

func (e *FaultError) Error() string {
	return "max31855: " + e.Fault.String()
}

// Is reports whether target is a FaultError of the same kind.
func (e *FaultError) Is(target error) bool {
	t, ok := target.(*FaultError)
	return ok && t.Fault == e.Fault
}

var (
	ErrOpenCircuit   = &FaultError{Fault: FaultOpenCircuit}
	ErrShortToGround = &FaultError{Fault: FaultShortToGround}
	ErrShortToPower  = &FaultError{Fault: FaultShortToPower}
	ErrGenericFault  = &FaultError{Fault: FaultGeneric}
)
