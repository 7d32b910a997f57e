package rateconv

import "fmt"

// Timebase maps sample indices between the output rate a detector runs at
// and the input rate of the original recording.
type Timebase struct {
	InputRate  int
	OutputRate int
}

// NewTimebase returns a Timebase for the given rates.
func NewTimebase(inputRate, outputRate int) (Timebase, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return Timebase{}, fmt.Errorf("%w: %d Hz -> %d Hz", ErrInvalidRate, inputRate, outputRate)
	}
	return Timebase{InputRate: inputRate, OutputRate: outputRate}, nil
}

// ToInput converts an output-rate sample index to an input-rate index.
// The division truncates; reference annotation tools expect exactly this.
func (t Timebase) ToInput(outputIndex int64) int64 {
	return outputIndex * int64(t.InputRate) / int64(t.OutputRate)
}

// DetectionTime returns the input-rate time of a beat reported delay output
// samples before the count-th output sample (counted from 1).
func (t Timebase) DetectionTime(count int64, delay int) int64 {
	return t.ToInput(count - int64(delay))
}

// ToOutput converts an input-rate sample count to an output-rate count,
// truncating. It is used for progress estimates only.
func (t Timebase) ToOutput(inputIndex int64) int64 {
	return inputIndex * int64(t.OutputRate) / int64(t.InputRate)
}

// Ratio returns the conversion ratio reduced to lowest terms, in:out.
func (t Timebase) Ratio() (m, n int) {
	g := gcd(t.InputRate, t.OutputRate)
	return t.InputRate / g, t.OutputRate / g
}
