package modem

import "errors"

var (
	// ErrUnknownModulation reports a scheme name outside the supported set.
	ErrUnknownModulation = errors.New("modem: unknown modulation scheme")

	// ErrLengthMismatch reports bit sequences of different lengths.
	ErrLengthMismatch = errors.New("modem: bit sequence length mismatch")

	// ErrNoConstellationMatch reports a bit group with no labeled point.
	ErrNoConstellationMatch = errors.New("modem: no constellation point for bit group")
)
