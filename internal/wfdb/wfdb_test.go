package wfdb

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-ecg-replay/internal/record"
)

const mitHeader = `100 2 360 650000 0:0:0 0/0/0
100.dat 212 200 11 1024 995 -22131 0 MLII
100.dat 212 200 11 1024 1011 20052 0 V5
# 69 M 1085 1629 x1
# Aldomet, Inderal
`

// encode212 packs samples into format 212 bytes.
func encode212(samples []int) []byte {
	var out []byte
	for i := 0; i < len(samples); i += 2 {
		a := samples[i] & bits12Mask
		b := 0
		if i+1 < len(samples) {
			b = samples[i+1] & bits12Mask
		}
		out = append(out, byte(a), byte(a>>byteShift)|byte(b>>byteShift)<<nibbleShift)
		if i+1 < len(samples) {
			out = append(out, byte(b))
		}
	}
	return out
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func readAll(t *testing.T, r record.Record) [][]int {
	t.Helper()
	var out [][]int
	for {
		v := make([]int, r.Info().Channels)
		err := r.ReadVector(v)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, v)
	}
}

func TestParseHeader_MITBIH(t *testing.T) {
	h, err := ParseHeader(strings.NewReader(mitHeader))
	require.NoError(t, err)

	assert.Equal(t, "100", h.Record)
	assert.InDelta(t, 360.0, h.Frequency, 0)
	assert.Equal(t, int64(650000), h.Samples)
	require.Len(t, h.Signals, 2)

	s := h.Signals[0]
	assert.Equal(t, "100.dat", s.File)
	assert.Equal(t, 212, s.Format)
	assert.InDelta(t, 200.0, s.Gain, 0)
	assert.Equal(t, 11, s.ADCRes)
	assert.Equal(t, 1024, s.ADCZero)
	assert.Equal(t, 1024, s.Baseline, "baseline defaults to adc zero")
	assert.Equal(t, 995, s.InitValue)
	assert.Equal(t, -22131, s.Checksum)
	assert.Equal(t, "MLII", s.Description)
	assert.Equal(t, "mV", s.Units)
	assert.Equal(t, "V5", h.Signals[1].Description)
}

func TestParseHeader_Variants(t *testing.T) {
	hea := `rec 1 250/1000(0)
rec.dat 16x1:2+512 400.5(-12)/uV 16 0 0 0 0 chest lead one
`
	h, err := ParseHeader(strings.NewReader(hea))
	require.NoError(t, err)
	assert.InDelta(t, 250.0, h.Frequency, 0)
	assert.Zero(t, h.Samples)

	s := h.Signals[0]
	assert.Equal(t, 16, s.Format)
	assert.Equal(t, int64(512), s.ByteOffset)
	assert.InDelta(t, 400.5, s.Gain, 1e-12)
	assert.Equal(t, -12, s.Baseline)
	assert.Equal(t, "uV", s.Units)
	assert.Equal(t, "chest lead one", s.Description)
}

func TestParseHeader_Defaults(t *testing.T) {
	h, err := ParseHeader(strings.NewReader("r 1\nr.dat 80\n"))
	require.NoError(t, err)
	assert.InDelta(t, defaultFrequency, h.Frequency, 0)
	assert.InDelta(t, defaultGain, h.Signals[0].Gain, 0)
	assert.Equal(t, defaultADCRes, h.Signals[0].ADCRes)
	assert.Zero(t, h.Signals[0].Baseline)

	h, err = ParseHeader(strings.NewReader("r 1 360\nr.dat 212 0 12 7\n"))
	require.NoError(t, err)
	assert.InDelta(t, defaultGain, h.Signals[0].Gain, 0, "zero gain means default")
	assert.Equal(t, 7, h.Signals[0].Baseline)
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		hea  string
		want error
	}{
		{"empty", "# only a comment\n", ErrInvalidHeader},
		{"no signal count", "100\n", ErrInvalidHeader},
		{"bad frequency", "100 1 fast\n100.dat 212\n", ErrInvalidHeader},
		{"missing signals", "100 2 360\n100.dat 212\n", ErrInvalidHeader},
		{"bad format", "100 1 360\n100.dat abc\n", ErrInvalidHeader},
		{"bad gain", "100 1 360\n100.dat 212 x\n", ErrInvalidHeader},
		{"multi segment", "100/3 2 360\n", ErrUnsupported},
		{"oversampled", "100 1 360\n100.dat 212x4\n", ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(strings.NewReader(tt.hea))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpen_Format212(t *testing.T) {
	dir := t.TempDir()
	frames := [][]int{{995, 1011}, {-1, 2047}, {-2048, 0}, {1, -1000}, {100, 200}}
	var flat []int
	for _, f := range frames {
		flat = append(flat, f...)
	}
	writeFile(t, dir, "100.hea", []byte(mitHeader))
	writeFile(t, dir, "100.dat", encode212(flat))

	r, err := Open(dir, "100")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	info := r.Info()
	assert.Equal(t, "100", info.Name)
	assert.Equal(t, 360, info.Frequency)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 1024, info.ADCZero)
	assert.Equal(t, 200, info.Gain)
	assert.Equal(t, []string{"MLII", "V5"}, info.Signals)

	assert.Equal(t, frames, readAll(t, r))
}

func TestOpen_Format212OddSignalCount(t *testing.T) {
	dir := t.TempDir()
	samples := []int{10, -20, 30, -40, 50}
	writeFile(t, dir, "odd.hea", []byte("odd 1 128\nodd.dat 212\n"))
	writeFile(t, dir, "odd.dat", encode212(samples))

	r, err := Open(dir, "odd")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got := readAll(t, r)
	require.Len(t, got, len(samples))
	for i, v := range got {
		assert.Equal(t, samples[i], v[0])
	}
}

func TestOpen_SeparateFilesAndFormats(t *testing.T) {
	dir := t.TempDir()
	hea := "multi 3 500\nmulti_a.dat 16 100 16 5\nmulti_b.dat 61+4\nmulti_c.dat 80\n"
	writeFile(t, dir, "multi.hea", []byte(hea))

	a := make([]byte, 6)
	for i, v := range []int16{-300, 0, 32767} {
		binary.LittleEndian.PutUint16(a[2*i:], uint16(v))
	}
	writeFile(t, dir, "multi_a.dat", a)

	b := []byte{0xde, 0xad, 0xbe, 0xef} // skipped by the byte offset
	for _, v := range []int16{7, -7} {
		b = binary.BigEndian.AppendUint16(b, uint16(v))
	}
	writeFile(t, dir, "multi_b.dat", b)
	writeFile(t, dir, "multi_c.dat", []byte{0, 128, 255})

	r, err := Open(dir, "multi")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.Equal(t, 100, r.Info().Gain)
	assert.Equal(t, 5, r.Info().ADCZero)
	// The shortest file ends the record.
	assert.Equal(t, [][]int{{-300, 7, -128}, {0, -7, 0}}, readAll(t, r))
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open header")

	writeFile(t, dir, "nodat.hea", []byte("nodat 1 360\nnodat.dat 212\n"))
	_, err = Open(dir, "nodat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open signal file")

	writeFile(t, dir, "fmt.hea", []byte("fmt 1 360\nfmt.dat 311\n"))
	writeFile(t, dir, "fmt.dat", []byte{0, 0, 0, 0})
	_, err = Open(dir, "fmt")
	require.ErrorIs(t, err, ErrUnsupported)

	writeFile(t, dir, "mixed.hea", []byte("mixed 2 360\nmixed.dat 212\nmixed.dat 16\n"))
	writeFile(t, dir, "mixed.dat", []byte{0, 0, 0})
	_, err = Open(dir, "mixed")
	require.ErrorIs(t, err, ErrUnsupported)

	writeFile(t, dir, "empty.hea", []byte("empty 0 360\n"))
	_, err = Open(dir, "empty")
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestOpener(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "100.hea", []byte(mitHeader))
	writeFile(t, dir, "100.dat", encode212([]int{1, 2, 3, 4}))

	var opener record.Opener = Opener{Dir: dir}
	r, err := opener.Open("100")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, readAll(t, r))
}
