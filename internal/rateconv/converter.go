// Package rateconv implements exact rational sample-rate conversion of
// multi-channel integer sample streams.
//
// The converter tracks input and output progress with integer phase
// counters, so the interpolation position never drifts no matter how long
// the stream is. Each output vector is a linear interpolation between the two
// most recent input vectors, computed in fixed point with truncating
// division.
package rateconv

import (
	"errors"
	"fmt"
	"io"
)

// Vector holds one sample per channel for a single time instant.
type Vector []int

// Source yields input vectors at the input rate.
// ReadVector fills dst with the next vector and returns io.EOF once the
// stream is exhausted.
type Source interface {
	ReadVector(dst []int) error
}

// Common errors returned by the converter.
var (
	// ErrEndOfData is returned by Next once the source is exhausted.
	// It is io.EOF, so sources can return the io sentinel directly.
	ErrEndOfData = io.EOF

	// ErrInvalidRate indicates a non-positive input or output rate.
	ErrInvalidRate = errors.New("invalid sample rate")

	// ErrInvalidChannels indicates a channel count below one.
	ErrInvalidChannels = errors.New("invalid channel count")

	// ErrShortRecord indicates the source ended before both interpolation
	// endpoints could be primed.
	ErrShortRecord = errors.New("record too short to prime converter")

	// ErrShortVector indicates a destination vector with fewer entries than
	// the converter has channels.
	ErrShortVector = errors.New("destination vector too short")
)

// Converter converts a vector stream from an input rate to an output rate.
//
// With g = gcd(in, out), m = in/g and n = out/g, every output step advances
// the output phase by m and every input step advances the input phase by n.
// Both phases are folded back by m*n once the input phase passes one full
// cycle, which keeps them bounded without changing the produced samples.
type Converter struct {
	src      Source
	channels int

	m, n, mn int
	it, ot   int // input and output phase

	prev Vector
	cur  Vector

	err error // sticky terminal state
}

// New creates a converter reading channels-wide vectors from src and primes
// it for conversion from inputRate to outputRate.
func New(src Source, channels, inputRate, outputRate int) (*Converter, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	c := &Converter{
		channels: channels,
		prev:     make(Vector, channels),
		cur:      make(Vector, channels),
	}
	if err := c.Reset(src, inputRate, outputRate); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset discards all conversion state, attaches src and primes both
// interpolation endpoints with its first two vectors.
func (c *Converter) Reset(src Source, inputRate, outputRate int) error {
	if inputRate <= 0 || outputRate <= 0 {
		c.err = fmt.Errorf("%w: %d Hz -> %d Hz", ErrInvalidRate, inputRate, outputRate)
		return c.err
	}

	g := gcd(inputRate, outputRate)
	c.src = src
	c.m = inputRate / g
	c.n = outputRate / g
	c.mn = c.m * c.n
	c.it, c.ot = 0, 0
	c.err = nil
	clear(c.prev)
	clear(c.cur)

	for _, endpoint := range []Vector{c.prev, c.cur} {
		if err := src.ReadVector(endpoint); err != nil {
			if errors.Is(err, io.EOF) {
				c.err = fmt.Errorf("%w: need %d input vectors", ErrShortRecord, primeVectors)
			} else {
				c.err = fmt.Errorf("prime converter: %w", err)
			}
			return c.err
		}
	}

	return nil
}

// Next writes the next output-rate vector into dst.
//
// It returns ErrEndOfData when the source runs out. Once Next has failed,
// every later call returns the same error without reading the source.
func (c *Converter) Next(dst Vector) error {
	if c.err != nil {
		return c.err
	}
	if len(dst) < c.channels {
		return fmt.Errorf("%w: have %d, need %d", ErrShortVector, len(dst), c.channels)
	}

	for c.ot > c.it {
		// The old previous buffer is dead once current moves into its place.
		c.prev, c.cur = c.cur, c.prev
		if err := c.src.ReadVector(c.cur); err != nil {
			if errors.Is(err, io.EOF) {
				c.err = ErrEndOfData
			} else {
				c.err = fmt.Errorf("read input vector: %w", err)
			}
			return c.err
		}
		if c.it > c.mn {
			c.it -= c.mn
			c.ot -= c.mn
		}
		c.it += c.n
	}

	frac := c.ot % c.n
	for i := 0; i < c.channels; i++ {
		dst[i] = c.prev[i] + frac*(c.cur[i]-c.prev[i])/c.n
	}
	c.ot += c.m

	return nil
}

// Channels returns the number of channels per vector.
func (c *Converter) Channels() int {
	return c.channels
}

// Ratio returns the reduced input:output step ratio.
func (c *Converter) Ratio() (m, n int) {
	return c.m, c.n
}

// Phase returns the current input and output phase counters.
func (c *Converter) Phase() (inputPhase, outputPhase int) {
	return c.it, c.ot
}

// gcd returns the greatest common divisor of two positive integers.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
