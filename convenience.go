package replay

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-ecg-replay/internal/rateconv"
)

// ResampleVectors converts in-memory multi-channel samples from inputRate
// to outputRate and returns the output vectors.
//
// All vectors must have the same number of channels. At least two input
// vectors are needed.
func ResampleVectors(vectors [][]int, inputRate, outputRate int) ([][]int, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no input vectors", rateconv.ErrShortRecord)
	}
	channels := len(vectors[0])
	for i, v := range vectors {
		if len(v) != channels {
			return nil, fmt.Errorf("%w: vector %d has %d channels, want %d",
				rateconv.ErrInvalidChannels, i, len(v), channels)
		}
	}

	src := &sliceSource{vectors: vectors}
	conv, err := rateconv.New(src, channels, inputRate, outputRate)
	if err != nil {
		return nil, err
	}

	estimated := int(rateconv.Timebase{InputRate: inputRate, OutputRate: outputRate}.ToOutput(int64(len(vectors))))
	out := make([][]int, 0, estimated+1)
	for {
		v := make(rateconv.Vector, channels)
		if err := conv.Next(v); err != nil {
			if errors.Is(err, rateconv.ErrEndOfData) {
				return out, nil
			}
			return out, err
		}
		out = append(out, v)
	}
}

// ResampleMono converts a single-channel sample slice.
func ResampleMono(samples []int, inputRate, outputRate int) ([]int, error) {
	vectors := make([][]int, len(samples))
	for i, s := range samples {
		vectors[i] = []int{s}
	}
	out, err := ResampleVectors(vectors, inputRate, outputRate)
	if err != nil {
		return nil, err
	}
	mono := make([]int, len(out))
	for i, v := range out {
		mono[i] = v[0]
	}
	return mono, nil
}

// DetectionTime maps a detection reported delay samples before the
// count-th output sample back to an input sample index.
func DetectionTime(count int64, delay, inputRate, outputRate int) (int64, error) {
	tb, err := rateconv.NewTimebase(inputRate, outputRate)
	if err != nil {
		return 0, err
	}
	return tb.DetectionTime(count, delay), nil
}

type sliceSource struct {
	vectors [][]int
	pos     int
}

func (s *sliceSource) ReadVector(dst []int) error {
	if s.pos >= len(s.vectors) {
		return rateconv.ErrEndOfData
	}
	copy(dst, s.vectors[s.pos])
	s.pos++
	return nil
}
