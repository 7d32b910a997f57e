package pipeline

import "github.com/tphakala/go-ecg-replay/internal/record"

// Normalizer rescales raw ADC values to a zero baseline at 5 uV per unit
// (200 units per mV), the resolution the detector is tuned for.
type Normalizer struct {
	Zero int
	Gain int // ADC units per mV
}

// NewNormalizer returns the normalizer for the primary channel of a record.
func NewNormalizer(info record.Info) Normalizer {
	gain := info.Gain
	if gain <= 0 {
		gain = defaultGain
	}
	return Normalizer{Zero: info.ADCZero, Gain: gain}
}

// Normalize converts one raw sample. The division truncates toward zero.
func (n Normalizer) Normalize(v int) int {
	return int(int64(v-n.Zero) * unitsPerMV / int64(n.Gain))
}
