package replay

// Defaults
const (
	defaultDetectorRate = 200   // Hz, the rate the beat detectors are built for
	defaultAnnotator    = "ate" // output annotator name
	defaultReference    = "atr" // reference annotator name
	defaultDetector     = DetectorOracle
	defaultOracleDelay  = 20 // output samples between a beat and its report
	defaultDatabase     = DatabaseMITDB
)

// Record formats
const (
	FormatWFDB = "wfdb"
	FormatWAV  = "wav"
)

// Detectors
const (
	DetectorOracle = "oracle"
)

// Progress reporting
const (
	progressStep = 10 // log progress every N percent
	percentScale = 100
)
