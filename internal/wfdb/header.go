// Package wfdb reads WFDB (PhysioNet) records: the .hea header and the
// signal files it names.
package wfdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Common errors returned while opening records.
var (
	// ErrInvalidHeader indicates a malformed header file.
	ErrInvalidHeader = errors.New("invalid WFDB header")

	// ErrUnsupported indicates a valid header using a feature this package
	// does not read (multi-segment records, oversampled signals, unknown
	// storage formats).
	ErrUnsupported = errors.New("unsupported WFDB feature")
)

// Header is the parsed content of a record's .hea file.
type Header struct {
	Record    string
	Frequency float64
	Samples   int64 // samples per signal, 0 if unknown
	Signals   []Signal
}

// Signal describes one signal line of a header.
type Signal struct {
	File        string
	Format      int
	ByteOffset  int64
	Gain        float64 // ADC units per physical unit
	Baseline    int
	Units       string
	ADCRes      int
	ADCZero     int
	InitValue   int
	Checksum    int
	BlockSize   int
	Description string
}

// ReadHeader parses the header file at path.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open header: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseHeader(f)
}

// ParseHeader parses a header from r.
func ParseHeader(r io.Reader) (*Header, error) {
	sc := bufio.NewScanner(r)
	var h *Header

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if h == nil {
			rec, err := parseRecordLine(fields)
			if err != nil {
				return nil, err
			}
			h = rec
			continue
		}

		if len(h.Signals) == cap(h.Signals) {
			// Trailing info lines are not part of the signal table.
			break
		}
		sig, err := parseSignalLine(fields)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", len(h.Signals), err)
		}
		h.Signals = append(h.Signals, sig)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if h == nil {
		return nil, fmt.Errorf("%w: missing record line", ErrInvalidHeader)
	}
	if len(h.Signals) != cap(h.Signals) {
		return nil, fmt.Errorf("%w: expected %d signals, found %d",
			ErrInvalidHeader, cap(h.Signals), len(h.Signals))
	}
	return h, nil
}

// parseRecordLine reads "name[/segments] nsig [freq[/cfreq][(base)] [nsamp ...]]".
func parseRecordLine(fields []string) (*Header, error) {
	if len(fields) < minRecordFields {
		return nil, fmt.Errorf("%w: record line needs name and signal count", ErrInvalidHeader)
	}
	if strings.Contains(fields[0], "/") {
		return nil, fmt.Errorf("%w: multi-segment record %s", ErrUnsupported, fields[0])
	}

	nsig, err := strconv.Atoi(fields[1])
	if err != nil || nsig < 0 {
		return nil, fmt.Errorf("%w: signal count %q", ErrInvalidHeader, fields[1])
	}

	h := &Header{
		Record:    fields[0],
		Frequency: defaultFrequency,
		Signals:   make([]Signal, 0, nsig),
	}

	if len(fields) > 2 {
		freq, err := strconv.ParseFloat(leadingNumber(fields[2]), 64)
		if err != nil || freq <= 0 {
			return nil, fmt.Errorf("%w: sampling frequency %q", ErrInvalidHeader, fields[2])
		}
		h.Frequency = freq
	}
	if len(fields) > 3 {
		n, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: sample count %q", ErrInvalidHeader, fields[3])
		}
		h.Samples = n
	}
	return h, nil
}

// parseSignalLine reads
// "file format[xspf][:skew][+offset] [gain[(baseline)][/units] [res [zero [init [cksum [bsize [desc]]]]]]]".
func parseSignalLine(fields []string) (Signal, error) {
	if len(fields) < minSignalFields {
		return Signal{}, fmt.Errorf("%w: signal line needs file and format", ErrInvalidHeader)
	}

	sig := Signal{
		File:     fields[0],
		Gain:     defaultGain,
		Baseline: noBaseline,
		ADCRes:   defaultADCRes,
		Units:    defaultUnits,
	}
	if err := parseFormatSpec(fields[1], &sig); err != nil {
		return Signal{}, err
	}

	if len(fields) > 2 {
		if err := parseGainSpec(fields[2], &sig); err != nil {
			return Signal{}, err
		}
	}

	ints := []*int{&sig.ADCRes, &sig.ADCZero, &sig.InitValue, &sig.Checksum, &sig.BlockSize}
	for i, dst := range ints {
		idx := 3 + i
		if idx >= len(fields) {
			break
		}
		v, err := strconv.Atoi(fields[idx])
		if err != nil {
			return Signal{}, fmt.Errorf("%w: field %d %q", ErrInvalidHeader, idx, fields[idx])
		}
		*dst = v
	}
	if !sig.hasBaseline() {
		sig.Baseline = sig.ADCZero
	}

	if len(fields) > 3+len(ints) {
		sig.Description = strings.Join(fields[3+len(ints):], " ")
	}
	return sig, nil
}

func parseFormatSpec(spec string, sig *Signal) error {
	if i := strings.IndexByte(spec, '+'); i >= 0 {
		off, err := strconv.ParseInt(spec[i+1:], 10, 64)
		if err != nil || off < 0 {
			return fmt.Errorf("%w: byte offset in %q", ErrInvalidHeader, spec)
		}
		sig.ByteOffset = off
		spec = spec[:i]
	}
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		// Skew is ignored; it only shifts signals by a few samples.
		spec = spec[:i]
	}
	if i := strings.IndexByte(spec, 'x'); i >= 0 {
		spf, err := strconv.Atoi(spec[i+1:])
		if err != nil || spf < 1 {
			return fmt.Errorf("%w: samples per frame in %q", ErrInvalidHeader, spec)
		}
		if spf != 1 {
			return fmt.Errorf("%w: %d samples per frame", ErrUnsupported, spf)
		}
		spec = spec[:i]
	}

	format, err := strconv.Atoi(spec)
	if err != nil {
		return fmt.Errorf("%w: format %q", ErrInvalidHeader, spec)
	}
	sig.Format = format
	return nil
}

func parseGainSpec(spec string, sig *Signal) error {
	if i := strings.IndexByte(spec, '/'); i >= 0 {
		sig.Units = spec[i+1:]
		spec = spec[:i]
	}
	if i := strings.IndexByte(spec, '('); i >= 0 {
		j := strings.IndexByte(spec, ')')
		if j < i {
			return fmt.Errorf("%w: baseline in %q", ErrInvalidHeader, spec)
		}
		b, err := strconv.Atoi(spec[i+1 : j])
		if err != nil {
			return fmt.Errorf("%w: baseline in %q", ErrInvalidHeader, spec)
		}
		sig.Baseline = b
		spec = spec[:i]
	}

	gain, err := strconv.ParseFloat(spec, 64)
	if err != nil || gain < 0 {
		return fmt.Errorf("%w: gain %q", ErrInvalidHeader, spec)
	}
	if gain == 0 {
		gain = defaultGain
	}
	sig.Gain = gain
	return nil
}

func (s *Signal) hasBaseline() bool {
	return s.Baseline != noBaseline
}

// leadingNumber strips the "/counter" and "(base)" suffixes of a frequency.
func leadingNumber(s string) string {
	if i := strings.IndexAny(s, "/("); i >= 0 {
		return s[:i]
	}
	return s
}
