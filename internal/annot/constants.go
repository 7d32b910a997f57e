package annot

// MIT format word layout: 6-bit code above a 10-bit data field.
const (
	codeShift = 10
	dataMask  = 0x3ff
	maxDelta  = dataMask

	bytesPerWord = 2
	bytesPerLong = 4
	wordBits     = 16
)

// Pseudo-annotation codes that modify the surrounding annotations.
const (
	codeSkip = 59 // next 4 bytes hold a time skip
	codeNum  = 60 // data holds the annotation num field
	codeSub  = 61 // data holds the subtype
	codeChan = 62 // data holds the chan field
	codeAux  = 63 // data holds the aux length, bytes follow
)

// maxAuxLen is the longest aux string the data field can describe.
const maxAuxLen = 255

// writerBufferSize is the bufio buffer used for annotation files.
const writerBufferSize = 64 * 1024
