package wfdb

import (
	"bufio"
	"fmt"
)

// sampleDecoder yields consecutive samples of one signal file.
// A partial trailing sample reads as io.EOF, as in the WFDB library.
type sampleDecoder interface {
	next() (int, error)
}

func newDecoder(format int, r *bufio.Reader) (sampleDecoder, error) {
	switch format {
	case format16:
		return &decoder16{r: r}, nil
	case format61:
		return &decoder16{r: r, bigEndian: true}, nil
	case format80:
		return &decoder80{r: r}, nil
	case format212:
		return &decoder212{r: r}, nil
	default:
		return nil, fmt.Errorf("%w: storage format %d", ErrUnsupported, format)
	}
}

type decoder16 struct {
	r         *bufio.Reader
	bigEndian bool
}

func (d *decoder16) next() (int, error) {
	lo, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	hi, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if d.bigEndian {
		lo, hi = hi, lo
	}
	return int(int16(uint16(hi)<<byteShift | uint16(lo))), nil
}

type decoder80 struct {
	r *bufio.Reader
}

func (d *decoder80) next() (int, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	return int(b) - format80Offset, nil
}

// decoder212 unpacks two 12-bit samples from every three bytes. The pair
// continues across frame boundaries when a file holds an odd signal count.
type decoder212 struct {
	r       *bufio.Reader
	odd     bool
	pending byte // middle byte of the current pair
}

func (d *decoder212) next() (int, error) {
	var v int
	if !d.odd {
		b0, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		b1, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		d.pending = b1
		v = int(b1&lowNibble)<<byteShift | int(b0)
	} else {
		b2, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		v = int(d.pending&highNibble)<<nibbleShift | int(b2)
	}
	d.odd = !d.odd

	if v&bits12Sign != 0 {
		v -= bits12Mask + 1
	}
	return v, nil
}
