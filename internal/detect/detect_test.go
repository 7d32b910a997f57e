package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-ecg-replay/internal/annot"
	"github.com/tphakala/go-ecg-replay/internal/rateconv"
)

func TestFunc(t *testing.T) {
	var d Detector = Func(func(sample int) Event {
		if sample > 100 {
			return Event{Delay: 3, Type: annot.Normal}
		}
		return Event{}
	})
	d.Reset()
	assert.False(t, d.Step(5).Beat())
	ev := d.Step(500)
	assert.True(t, ev.Beat())
	assert.Equal(t, 3, ev.Delay)
}

func TestOracle_ReportsAfterDelay(t *testing.T) {
	tb := rateconv.Timebase{InputRate: 360, OutputRate: 200}
	ref := []annot.Annotation{
		{Time: 180, Type: annot.Normal}, // index 100
		{Time: 182, Type: annot.PVC},    // index ceil(101.11) = 102
		{Time: 200, Type: annot.Rhythm}, // not a beat
	}
	o, err := NewOracle(ref, tb, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, o.Remaining())

	var events = map[int64]Event{}
	for i := int64(1); i <= 200; i++ {
		if ev := o.Step(0); ev.Beat() {
			events[i] = ev
		}
	}

	require.Len(t, events, 2)
	assert.Equal(t, Event{Delay: 5, Type: annot.Normal}, events[105])
	assert.Equal(t, Event{Delay: 5, Type: annot.PVC}, events[107])
	assert.Zero(t, o.Remaining())

	// Back-mapping lands on the reference time or one sample after it.
	assert.Equal(t, int64(180), tb.DetectionTime(105, 5))
	assert.Equal(t, int64(183), tb.DetectionTime(107, 5))
}

func TestOracle_CollidingBeatsQueue(t *testing.T) {
	tb := rateconv.Timebase{InputRate: 360, OutputRate: 200}
	ref := []annot.Annotation{
		{Time: 361, Type: annot.Normal}, // index 201
		{Time: 360, Type: annot.APC},    // index 200
		{Time: 362, Type: annot.PVC},    // index 202 (ceil 201.1)
	}
	o, err := NewOracle(ref, tb, 1)
	require.NoError(t, err)

	var got []Event
	var at []int64
	for i := int64(1); i <= 210; i++ {
		if ev := o.Step(0); ev.Beat() {
			got = append(got, ev)
			at = append(at, i)
		}
	}
	require.Len(t, got, 3)
	assert.Equal(t, []annot.Code{annot.APC, annot.Normal, annot.PVC},
		[]annot.Code{got[0].Type, got[1].Type, got[2].Type})
	for k := range got {
		assert.Equal(t, []int64{200, 201, 202}[k], at[k]-int64(got[k].Delay))
	}
}

func TestOracle_Reset(t *testing.T) {
	tb := rateconv.Timebase{InputRate: 200, OutputRate: 200}
	o, err := NewOracle([]annot.Annotation{{Time: 3, Type: annot.Normal}}, tb, 2)
	require.NoError(t, err)

	run := func() int64 {
		for i := int64(1); i < 20; i++ {
			if o.Step(0).Beat() {
				return i
			}
		}
		return -1
	}
	assert.Equal(t, int64(5), run())
	o.Reset()
	assert.Equal(t, int64(5), run())
}

func TestNewOracle_Errors(t *testing.T) {
	_, err := NewOracle(nil, rateconv.Timebase{InputRate: 360, OutputRate: 200}, 0)
	require.ErrorIs(t, err, ErrInvalidDelay)

	_, err = NewOracle(nil, rateconv.Timebase{}, 1)
	require.ErrorIs(t, err, rateconv.ErrInvalidRate)
}
