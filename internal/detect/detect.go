// Package detect defines the beat detector contract driven by the replay
// pipeline, plus a reference-replaying detector for self checks.
package detect

import "github.com/tphakala/go-ecg-replay/internal/annot"

// Event is the result of feeding one sample to a detector.
type Event struct {
	// Delay is the number of samples between the current sample and the
	// detected beat. Zero means no beat was reported on this step.
	Delay int
	Type  annot.Code
	Match int
}

// Beat reports whether the event carries a detection.
func (e Event) Beat() bool {
	return e.Delay > 0
}

// Detector consumes one normalized sample per call at its native rate.
type Detector interface {
	// Reset clears all internal state before a new record.
	Reset()

	// Step feeds the next sample.
	Step(sample int) Event
}

// Func adapts a stateless function to the Detector interface.
type Func func(sample int) Event

// Reset does nothing.
func (f Func) Reset() {}

// Step calls f(sample).
func (f Func) Step(sample int) Event {
	return f(sample)
}
