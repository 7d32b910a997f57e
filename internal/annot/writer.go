package annot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Common errors returned by readers and writers.
var (
	// ErrInvalidCode indicates an annotation code outside 1..MaxCode.
	ErrInvalidCode = errors.New("invalid annotation code")

	// ErrAuxTooLong indicates an aux string longer than the format allows.
	ErrAuxTooLong = errors.New("aux string too long")

	// ErrClosed indicates use of a closed writer.
	ErrClosed = errors.New("annotation writer closed")

	// ErrTruncated indicates a file that ends inside an annotation.
	ErrTruncated = errors.New("truncated annotation file")
)

// Writer appends annotations to an MIT format stream.
// Annotations are written as soon as Write is called; Close adds the
// end-of-file marker.
type Writer struct {
	w      *bufio.Writer
	closer io.Closer

	time  int64
	chann int8
	num   int8
	count int

	closed bool
}

// NewWriter returns a Writer on w. Close does not close w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, writerBufferSize)}
}

// Create creates (or truncates) the annotation file at path.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create annotation file: %w", err)
	}
	wr := NewWriter(f)
	wr.closer = f
	return wr, nil
}

// Write appends one annotation.
func (w *Writer) Write(a Annotation) error {
	if w.closed {
		return ErrClosed
	}
	if a.Type == NotQRS || a.Type > MaxCode {
		return fmt.Errorf("%w: %d", ErrInvalidCode, a.Type)
	}
	if len(a.Aux) > maxAuxLen {
		return fmt.Errorf("%w: %d bytes", ErrAuxTooLong, len(a.Aux))
	}

	delta := a.Time - w.time
	if delta < 0 || delta > maxDelta {
		if err := w.putWord(codeSkip, 0); err != nil {
			return err
		}
		if err := w.putLong(int32(delta)); err != nil {
			return err
		}
		delta = 0
	}
	if err := w.putWord(uint16(a.Type), uint16(delta)); err != nil {
		return err
	}

	if a.Subtype != 0 {
		if err := w.putWord(codeSub, uint16(uint8(a.Subtype))); err != nil {
			return err
		}
	}
	if a.Chan != w.chann {
		if err := w.putWord(codeChan, uint16(uint8(a.Chan))); err != nil {
			return err
		}
	}
	if a.Num != w.num {
		if err := w.putWord(codeNum, uint16(uint8(a.Num))); err != nil {
			return err
		}
	}
	if a.Aux != "" {
		if err := w.putAux(a.Aux); err != nil {
			return err
		}
	}

	w.time = a.Time
	w.chann = a.Chan
	w.num = a.Num
	w.count++
	return nil
}

// Count returns the number of annotations written so far.
func (w *Writer) Count() int {
	return w.count
}

// Close writes the end-of-file marker, flushes and closes the file when
// the Writer owns it.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.putWord(0, 0)
	if ferr := w.w.Flush(); err == nil {
		err = ferr
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (w *Writer) putWord(code, data uint16) error {
	var b [bytesPerWord]byte
	binary.LittleEndian.PutUint16(b[:], code<<codeShift | data&dataMask)
	_, err := w.w.Write(b[:])
	return err
}

// putLong writes a 32-bit value as two little-endian words, high word first.
func (w *Writer) putLong(v int32) error {
	var b [bytesPerLong]byte
	u := uint32(v)
	binary.LittleEndian.PutUint16(b[0:], uint16(u>>wordBits))
	binary.LittleEndian.PutUint16(b[2:], uint16(u))
	_, err := w.w.Write(b[:])
	return err
}

func (w *Writer) putAux(s string) error {
	if err := w.putWord(codeAux, uint16(len(s))); err != nil {
		return err
	}
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	if len(s)%bytesPerWord != 0 {
		return w.w.WriteByte(0)
	}
	return nil
}
