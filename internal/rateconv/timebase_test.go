package rateconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimebase_ToInput(t *testing.T) {
	tests := []struct {
		name        string
		in, out     int
		outputIndex int64
		want        int64
	}{
		{"exact multiple", 360, 200, 100, 180},
		{"truncates 181.8", 360, 200, 101, 181},
		{"identity", 200, 200, 12345, 12345},
		{"upsampled source", 128, 200, 199, 127},
		{"zero", 360, 200, 0, 0},
		{"long record", 360, 200, 361111, 649999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, err := NewTimebase(tt.in, tt.out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tb.ToInput(tt.outputIndex))
		})
	}
}

func TestTimebase_DetectionTime(t *testing.T) {
	tb := Timebase{InputRate: 360, OutputRate: 200}

	// A beat reported 20 samples back at output sample 121 happened at 101.
	assert.Equal(t, int64(181), tb.DetectionTime(121, 20))
	assert.Equal(t, int64(180), tb.DetectionTime(100, 0))
}

func TestTimebase_Monotonic(t *testing.T) {
	tb := Timebase{InputRate: 360, OutputRate: 200}
	prev := tb.ToInput(0)
	for i := int64(1); i < 10000; i++ {
		got := tb.ToInput(i)
		require.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestNewTimebase_InvalidRates(t *testing.T) {
	_, err := NewTimebase(0, 200)
	require.ErrorIs(t, err, ErrInvalidRate)
	_, err = NewTimebase(360, -1)
	require.ErrorIs(t, err, ErrInvalidRate)
}

func TestTimebase_ToOutput(t *testing.T) {
	tb := Timebase{InputRate: 360, OutputRate: 200}
	assert.Equal(t, int64(361111), tb.ToOutput(650000))
	assert.Equal(t, int64(0), tb.ToOutput(1))
}

func TestTimebase_Ratio(t *testing.T) {
	m, n := Timebase{InputRate: 360, OutputRate: 200}.Ratio()
	assert.Equal(t, 9, m)
	assert.Equal(t, 5, n)

	m, n = Timebase{InputRate: 250, OutputRate: 200}.Ratio()
	assert.Equal(t, 5, m)
	assert.Equal(t, 4, n)
}
