package detect

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tphakala/go-ecg-replay/internal/annot"
	"github.com/tphakala/go-ecg-replay/internal/rateconv"
)

// ErrInvalidDelay indicates an oracle reporting delay below one sample.
var ErrInvalidDelay = errors.New("invalid oracle delay")

// Oracle replays reference beat annotations as detections.
//
// Every reference beat at input time t is placed at output index
// ceil(t*out/in) and reported Delay samples later, so a correct replay
// maps it back to t or to the input sample just after it. Running the
// pipeline with an Oracle checks the whole conversion and back-mapping
// chain against the reference without a real detector.
type Oracle struct {
	delay int
	beats []oracleBeat

	count int64
	next  int
}

type oracleBeat struct {
	index int64 // output-rate index, counted from 1 like the pipeline
	typ   annot.Code
}

// NewOracle builds an oracle from reference annotations in the input
// timebase of tb. Non-beat annotations are ignored.
func NewOracle(ref []annot.Annotation, tb rateconv.Timebase, delay int) (*Oracle, error) {
	if delay < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDelay, delay)
	}
	if tb.InputRate <= 0 || tb.OutputRate <= 0 {
		return nil, fmt.Errorf("%w: %d Hz -> %d Hz", rateconv.ErrInvalidRate, tb.InputRate, tb.OutputRate)
	}

	in, out := int64(tb.InputRate), int64(tb.OutputRate)
	beats := make([]oracleBeat, 0, len(ref))
	for _, a := range ref {
		if !a.Type.IsBeat() || a.Time < 0 {
			continue
		}
		beats = append(beats, oracleBeat{
			index: (a.Time*out + in - 1) / in,
			typ:   a.Type,
		})
	}
	sort.SliceStable(beats, func(i, j int) bool { return beats[i].index < beats[j].index })

	return &Oracle{delay: delay, beats: beats}, nil
}

// Reset rewinds the oracle to the start of the record.
func (o *Oracle) Reset() {
	o.count = 0
	o.next = 0
}

// Step reports at most one pending beat per sample.
func (o *Oracle) Step(int) Event {
	o.count++
	if o.next >= len(o.beats) {
		return Event{}
	}
	b := o.beats[o.next]
	if b.index+int64(o.delay) > o.count {
		return Event{}
	}
	o.next++
	return Event{Delay: int(o.count - b.index), Type: b.typ}
}

// Remaining returns the number of beats not yet reported.
func (o *Oracle) Remaining() int {
	return len(o.beats) - o.next
}
