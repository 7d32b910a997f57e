// Package record defines the multi-channel sample source a replay reads
// from.
package record

import (
	"errors"
	"fmt"
)

// Record is an open recording that yields one vector per input sample.
// ReadVector returns io.EOF when the recording is exhausted.
type Record interface {
	Info() Info
	ReadVector(dst []int) error
	Close() error
}

// Info describes an open record.
type Info struct {
	Name      string
	Frequency int // samples per second per channel
	Channels  int
	ADCZero   int // digital value of 0 mV on the primary channel
	Gain      int // digital units per mV on the primary channel
	Samples   int64
	Signals   []string
}

// Opener opens records by name.
type Opener interface {
	Open(name string) (Record, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(name string) (Record, error)

// Open calls f(name).
func (f OpenerFunc) Open(name string) (Record, error) {
	return f(name)
}

// ErrInvalidInfo indicates record metadata that cannot drive a replay.
var ErrInvalidInfo = errors.New("invalid record info")

// Validate checks that the info describes a usable record.
func (i Info) Validate() error {
	if i.Frequency <= 0 {
		return fmt.Errorf("%w: sampling frequency %d", ErrInvalidInfo, i.Frequency)
	}
	if i.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInvalidInfo, i.Channels)
	}
	if i.Gain <= 0 {
		return fmt.Errorf("%w: gain %d", ErrInvalidInfo, i.Gain)
	}
	return nil
}
