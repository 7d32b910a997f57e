package wfdb

import "math"

// Header defaults applied by the WFDB library when a field is omitted.
const (
	defaultFrequency = 250.0
	defaultGain      = 200.0
	defaultADCRes    = 12
	defaultUnits     = "mV"

	// noBaseline marks a gain field without an explicit "(baseline)".
	noBaseline = math.MinInt32
)

// Minimum field counts of header lines.
const (
	minRecordFields = 2
	minSignalFields = 2
)

// Storage formats understood by the signal reader.
const (
	format16  = 16  // 16-bit two's complement, little-endian
	format61  = 61  // 16-bit two's complement, big-endian
	format80  = 80  // 8-bit offset binary
	format212 = 212 // pairs of 12-bit samples packed in 3 bytes
)

// Bit layout constants for the packed formats.
const (
	format80Offset = 128
	bits12Mask     = 0xfff
	bits12Sign     = 0x800
	lowNibble      = 0x0f
	highNibble     = 0xf0
	nibbleShift    = 4
	byteShift      = 8
)

// readerBufferSize is the bufio buffer used per signal file.
const readerBufferSize = 64 * 1024

// headerSuffix is appended to a record name to locate its header.
const headerSuffix = ".hea"
