package pipeline

// Amplitude normalization constants
const (
	// unitsPerMV is the detector's input resolution (5 uV per unit).
	unitsPerMV = 200

	// defaultGain is the WFDB default ADC gain used when a record has none.
	defaultGain = 200
)

// defaultProgressInterval is the number of output samples between progress
// reports (one minute at 200 Hz).
const defaultProgressInterval = 12000
