package annot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Reader decodes annotations from an MIT format stream.
type Reader struct {
	r      *bufio.Reader
	closer io.Closer

	time  int64
	chann int8
	num   int8
	done  bool
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Open opens the annotation file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation file: %w", err)
	}
	rd := NewReader(f)
	rd.closer = f
	return rd, nil
}

// ReadFile returns every annotation stored in the file at path.
func ReadFile(path string) ([]Annotation, error) {
	rd, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rd.Close() }()
	return rd.ReadAll()
}

// ReadAll reads annotations until the end of the stream.
func (r *Reader) ReadAll() ([]Annotation, error) {
	var out []Annotation
	for {
		a, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
}

// Read returns the next annotation, or io.EOF after the last one.
func (r *Reader) Read() (Annotation, error) {
	if r.done {
		return Annotation{}, io.EOF
	}

	for {
		code, data, err := r.word()
		if err != nil {
			return Annotation{}, r.finish(err)
		}

		switch code {
		case codeSkip:
			skip, err := r.long()
			if err != nil {
				return Annotation{}, r.finish(truncated(err))
			}
			r.time += int64(skip)
		case codeNum:
			r.num = int8(data)
		case codeChan:
			r.chann = int8(data)
		case codeSub:
			// No annotation to attach to.
		case codeAux:
			if err := r.skipAux(int(data)); err != nil {
				return Annotation{}, r.finish(truncated(err))
			}
		default:
			if code == 0 && data == 0 {
				r.done = true
				return Annotation{}, io.EOF
			}
			r.time += int64(data)
			a := Annotation{Time: r.time, Type: Code(code), Chan: r.chann, Num: r.num}
			if err := r.modifiers(&a); err != nil {
				return Annotation{}, r.finish(err)
			}
			return a, nil
		}
	}
}

// modifiers consumes the pseudo-annotations that follow a.
func (r *Reader) modifiers(a *Annotation) error {
	for {
		b, err := r.r.Peek(bytesPerWord)
		if err != nil {
			// A missing end-of-file marker is tolerated here.
			return nil
		}
		w := binary.LittleEndian.Uint16(b)
		code, data := w>>codeShift, w&dataMask

		switch code {
		case codeSub:
			a.Subtype = int8(data)
		case codeChan:
			r.chann = int8(data)
			a.Chan = r.chann
		case codeNum:
			r.num = int8(data)
			a.Num = r.num
		case codeAux:
			if _, err := r.r.Discard(bytesPerWord); err != nil {
				return truncated(err)
			}
			aux, err := r.readAux(int(data))
			if err != nil {
				return truncated(err)
			}
			a.Aux = aux
			continue
		default:
			return nil
		}
		if _, err := r.r.Discard(bytesPerWord); err != nil {
			return truncated(err)
		}
	}
}

func (r *Reader) word() (code, data uint16, err error) {
	var b [bytesPerWord]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, 0, truncated(err)
		}
		return 0, 0, err
	}
	w := binary.LittleEndian.Uint16(b[:])
	return w >> codeShift, w & dataMask, nil
}

func (r *Reader) long() (int32, error) {
	var b [bytesPerLong]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, err
	}
	hi := uint32(binary.LittleEndian.Uint16(b[0:]))
	lo := uint32(binary.LittleEndian.Uint16(b[2:]))
	return int32(hi<<wordBits | lo), nil
}

func (r *Reader) readAux(n int) (string, error) {
	buf := make([]byte, n+n%bytesPerWord)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

func (r *Reader) skipAux(n int) error {
	_, err := r.r.Discard(n + n%bytesPerWord)
	return err
}

// finish marks the reader exhausted.
func (r *Reader) finish(err error) error {
	r.done = true
	return err
}

// Close closes the underlying file when the Reader owns it.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
