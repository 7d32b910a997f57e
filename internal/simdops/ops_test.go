package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_Float64(t *testing.T) {
	ops := For[float64]()
	a := []float64{1, 2, 3, 4}

	assert.InDelta(t, 10.0, ops.Sum(a), 1e-12)
	assert.InDelta(t, 30.0, ops.DotProductUnsafe(a, a), 1e-12)

	dst := make([]float64, len(a))
	ops.Scale(dst, a, 0.5)
	assert.InDeltaSlice(t, []float64{0.5, 1, 1.5, 2}, dst, 1e-12)
}

func TestFor_Float32(t *testing.T) {
	ops := For[float32]()
	assert.InDelta(t, 6.0, float64(ops.Sum([]float32{1, 2, 3})), 1e-6)
}

func TestMean(t *testing.T) {
	assert.Zero(t, Mean[float64](nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestDiff(t *testing.T) {
	a := []float64{1, 4, 9, 16}
	got := Diff(make([]float64, len(a)), a)
	assert.Equal(t, []float64{3, 5, 7}, got)

	assert.Empty(t, Diff(make([]float64, 1), []float64{5}))
}

func BenchmarkSum(b *testing.B) {
	ops := For[float64]()
	a := make([]float64, 4096)
	for i := range a {
		a[i] = float64(i) * 0.01
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = ops.Sum(a)
	}
}
