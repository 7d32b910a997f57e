// Package testutil provides reusable test helpers for the replay packages.
package testutil

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

// VectorSource serves a fixed list of vectors and counts every read,
// including the ones that hit the end of the list.
type VectorSource struct {
	Vectors [][]int
	Pos     int
	Reads   int
}

// NewVectorSource returns a source over vecs.
func NewVectorSource(vecs ...[]int) *VectorSource {
	return &VectorSource{Vectors: vecs}
}

// NewRampSource returns a single-channel source yielding
// start, start+step, ... for count samples.
func NewRampSource(start, step, count int) *VectorSource {
	vecs := make([][]int, count)
	for i := range vecs {
		vecs[i] = []int{start + i*step}
	}
	return &VectorSource{Vectors: vecs}
}

// ReadVector copies the next vector into dst or returns io.EOF.
func (s *VectorSource) ReadVector(dst []int) error {
	s.Reads++
	if s.Pos >= len(s.Vectors) {
		return io.EOF
	}
	copy(dst, s.Vectors[s.Pos])
	s.Pos++
	return nil
}

// Column extracts channel ch from a list of vectors.
func Column(vecs [][]int, ch int) []int {
	out := make([]int, len(vecs))
	for i, v := range vecs {
		out[i] = v[ch]
	}
	return out
}

// AssertPeriodic verifies that s[i] == s[i+period] for every valid i.
func AssertPeriodic(t *testing.T, s []int, period int, msgAndArgs ...any) bool {
	t.Helper()
	for i := 0; i+period < len(s); i++ {
		if s[i] != s[i+period] {
			return assert.Fail(t, "sequence not periodic",
				"s[%d]=%d != s[%d]=%d (period %d)", i, s[i], i+period, s[i+period], period)
		}
	}
	return true
}

// AssertNonDecreasing verifies that a slice never decreases.
func AssertNonDecreasing(t *testing.T, s []int64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t, "not monotonic",
				"s[%d]=%d < s[%d]=%d", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [minVal, maxVal].
func AssertAllInRange(t *testing.T, s []int, minVal, maxVal int, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%d is outside range [%d, %d]", i, v, minVal, maxVal)
		}
	}
	return true
}
