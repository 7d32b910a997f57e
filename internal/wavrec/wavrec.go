// Package wavrec exposes PCM WAV files as replayable records.
package wavrec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/go-ecg-replay/internal/record"
)

// Options control how WAV sample values map to ECG amplitudes.
type Options struct {
	// Gain is the number of sample units per mV. Zero selects DefaultGain.
	Gain int

	// FramesPerRead is the decoder chunk size in frames. Zero selects a
	// default.
	FramesPerRead int
}

// DefaultGain matches the WFDB default of 200 units per mV.
const DefaultGain = 200

const (
	defaultFramesPerRead = 4096
	unsigned8BitZero     = 128 // 8-bit PCM is offset binary
	bitDepth8            = 8
	wavSuffix            = ".wav"
)

// ErrInvalidWAV indicates a file that is not a decodable PCM WAV.
var ErrInvalidWAV = errors.New("invalid WAV file")

// Record is an open WAV file. It implements record.Record.
type Record struct {
	file    *os.File
	decoder *wav.Decoder
	info    record.Info

	buf *audio.IntBuffer
	n   int // valid samples in buf
	pos int // next sample in buf
	eof bool
}

// Open opens the WAV file at path as record name.
func Open(path, name string, opts Options) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	format := decoder.Format()
	if format == nil || format.NumChannels < 1 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s has no channels", ErrInvalidWAV, path)
	}

	gain := opts.Gain
	if gain <= 0 {
		gain = DefaultGain
	}
	frames := opts.FramesPerRead
	if frames <= 0 {
		frames = defaultFramesPerRead
	}

	info := record.Info{
		Name:      name,
		Frequency: format.SampleRate,
		Channels:  format.NumChannels,
		Gain:      gain,
	}
	if decoder.BitDepth == bitDepth8 {
		info.ADCZero = unsigned8BitZero
	}
	if d, err := decoder.Duration(); err == nil {
		info.Samples = int64(d.Seconds() * float64(format.SampleRate))
	}
	if err := info.Validate(); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Record{
		file:    f,
		decoder: decoder,
		info:    info,
		buf: &audio.IntBuffer{
			Data:   make([]int, frames*format.NumChannels),
			Format: format,
		},
	}, nil
}

// Info returns the record metadata.
func (r *Record) Info() record.Info {
	return r.info
}

// ReadVector reads the next frame into dst, or returns io.EOF.
func (r *Record) ReadVector(dst []int) error {
	ch := r.info.Channels
	if len(dst) < ch {
		return fmt.Errorf("vector holds %d values, record has %d channels", len(dst), ch)
	}
	if r.pos+ch > r.n {
		if err := r.fill(); err != nil {
			return err
		}
	}
	copy(dst, r.buf.Data[r.pos:r.pos+ch])
	r.pos += ch
	return nil
}

func (r *Record) fill() error {
	if r.eof {
		return io.EOF
	}
	n, err := r.decoder.PCMBuffer(r.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode PCM: %w", err)
	}
	// A trailing partial frame is dropped.
	n -= n % r.info.Channels
	if n == 0 {
		r.eof = true
		return io.EOF
	}
	r.n, r.pos = n, 0
	return nil
}

// Close closes the file.
func (r *Record) Close() error {
	return r.file.Close()
}

// Opener opens "<Dir>/<name>.wav" records.
type Opener struct {
	Dir     string
	Options Options
}

// Open implements record.Opener.
func (o Opener) Open(name string) (record.Record, error) {
	path := name
	if !strings.HasSuffix(path, wavSuffix) {
		path += wavSuffix
	}
	return Open(filepath.Join(o.Dir, path), strings.TrimSuffix(name, wavSuffix), o.Options)
}
