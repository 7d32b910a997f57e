package wfdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tphakala/go-ecg-replay/internal/record"
)

// Record is an open WFDB record. It implements record.Record.
type Record struct {
	header *Header
	info   record.Info
	groups []*signalGroup
}

// signalGroup holds the consecutive signals stored in one file.
type signalGroup struct {
	file  *os.File
	dec   sampleDecoder
	first int // index of the group's first signal
	count int
}

// Open opens record name in directory dir.
func Open(dir, name string) (*Record, error) {
	h, err := ReadHeader(filepath.Join(dir, name+headerSuffix))
	if err != nil {
		return nil, err
	}
	if len(h.Signals) == 0 {
		return nil, fmt.Errorf("%w: record %s has no signals", ErrInvalidHeader, name)
	}

	r := &Record{header: h}
	for i := 0; i < len(h.Signals); {
		sig := h.Signals[i]
		j := i + 1
		for j < len(h.Signals) && h.Signals[j].File == sig.File {
			if h.Signals[j].Format != sig.Format {
				_ = r.Close()
				return nil, fmt.Errorf("%w: mixed formats in %s", ErrUnsupported, sig.File)
			}
			j++
		}

		g, err := openGroup(dir, sig, i, j-i)
		if err != nil {
			_ = r.Close()
			return nil, err
		}
		r.groups = append(r.groups, g)
		i = j
	}

	r.info = infoFromHeader(name, h)
	if err := r.info.Validate(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

func openGroup(dir string, sig Signal, first, count int) (*signalGroup, error) {
	if sig.File == "-" {
		return nil, fmt.Errorf("%w: signals on standard input", ErrUnsupported)
	}

	f, err := os.Open(filepath.Join(dir, sig.File))
	if err != nil {
		return nil, fmt.Errorf("failed to open signal file: %w", err)
	}
	if sig.ByteOffset > 0 {
		if _, err := f.Seek(sig.ByteOffset, io.SeekStart); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("seek signal file: %w", err)
		}
	}

	dec, err := newDecoder(sig.Format, bufio.NewReaderSize(f, readerBufferSize))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &signalGroup{file: f, dec: dec, first: first, count: count}, nil
}

func infoFromHeader(name string, h *Header) record.Info {
	primary := h.Signals[0]
	descs := make([]string, len(h.Signals))
	for i, s := range h.Signals {
		descs[i] = s.Description
	}
	return record.Info{
		Name:      name,
		Frequency: int(h.Frequency),
		Channels:  len(h.Signals),
		ADCZero:   primary.ADCZero,
		Gain:      int(primary.Gain),
		Samples:   h.Samples,
		Signals:   descs,
	}
}

// Header returns the parsed header.
func (r *Record) Header() *Header {
	return r.header
}

// Info returns the record metadata.
func (r *Record) Info() record.Info {
	return r.info
}

// ReadVector reads one sample of every signal into dst.
// It returns io.EOF when any signal file runs out.
func (r *Record) ReadVector(dst []int) error {
	if len(dst) < r.info.Channels {
		return fmt.Errorf("vector holds %d values, record has %d signals", len(dst), r.info.Channels)
	}
	for _, g := range r.groups {
		for k := 0; k < g.count; k++ {
			v, err := g.dec.next()
			if err != nil {
				return err
			}
			dst[g.first+k] = v
		}
	}
	return nil
}

// Close closes every signal file.
func (r *Record) Close() error {
	var errs []error
	for _, g := range r.groups {
		if err := g.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.groups = nil
	return errors.Join(errs...)
}

// Opener opens WFDB records from a database directory.
type Opener struct {
	Dir string
}

// Open implements record.Opener.
func (o Opener) Open(name string) (record.Record, error) {
	return Open(o.Dir, name)
}
