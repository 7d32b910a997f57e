// Package annot reads and writes beat annotations in the WFDB MIT
// annotation format.
package annot

import "fmt"

// Code is a WFDB annotation type code.
type Code uint8

// Annotation type codes shared with WFDB reference annotations.
const (
	NotQRS   Code = 0  // not-QRS (not a beat)
	Normal   Code = 1  // normal beat
	LBBB     Code = 2  // left bundle branch block beat
	RBBB     Code = 3  // right bundle branch block beat
	Aberr    Code = 4  // aberrated atrial premature beat
	PVC      Code = 5  // premature ventricular contraction
	Fusion   Code = 6  // fusion of ventricular and normal beat
	NPC      Code = 7  // nodal (junctional) premature beat
	APC      Code = 8  // atrial premature contraction
	SVPB     Code = 9  // premature or ectopic supraventricular beat
	VEsc     Code = 10 // ventricular escape beat
	NEsc     Code = 11 // nodal (junctional) escape beat
	Pace     Code = 12 // paced beat
	Unknown  Code = 13 // unclassifiable beat
	Noise    Code = 14 // signal quality change
	Artifact Code = 16 // isolated QRS-like artifact
	STCh     Code = 18 // ST change
	TCh      Code = 19 // T-wave change
	Systole  Code = 20 // systole
	Diastole Code = 21 // diastole
	Note     Code = 22 // comment annotation
	Measure  Code = 23 // measurement annotation
	PWave    Code = 24 // P-wave peak
	BBB      Code = 25 // left or right bundle branch block
	PaceSP   Code = 26 // non-conducted pacer spike
	TWave    Code = 27 // T-wave peak
	Rhythm   Code = 28 // rhythm change
	UWave    Code = 29 // U-wave peak
	Learn    Code = 30 // learning
	FlWave   Code = 31 // ventricular flutter wave
	VFOn     Code = 32 // start of ventricular flutter/fibrillation
	VFOff    Code = 33 // end of ventricular flutter/fibrillation
	AEsc     Code = 34 // atrial escape beat
	SVEsc    Code = 35 // supraventricular escape beat
	Link     Code = 36 // link to external data
	NAPC     Code = 37 // non-conducted P-wave (blocked APB)
	PFus     Code = 38 // fusion of paced and normal beat
	WFOn     Code = 39 // waveform onset
	WFOff    Code = 40 // waveform end
	ROnT     Code = 41 // R-on-T premature ventricular contraction

	// MaxCode is the largest code that can be stored as an annotation.
	MaxCode Code = 49
)

var mnemonics = map[Code]string{
	NotQRS: " ", Normal: "N", LBBB: "L", RBBB: "R", Aberr: "a", PVC: "V",
	Fusion: "F", NPC: "J", APC: "A", SVPB: "S", VEsc: "E", NEsc: "j",
	Pace: "/", Unknown: "Q", Noise: "~", Artifact: "|", STCh: "s",
	TCh: "T", Systole: "*", Diastole: "D", Note: "\"", Measure: "=",
	PWave: "p", BBB: "B", PaceSP: "^", TWave: "t", Rhythm: "+",
	UWave: "u", Learn: "?", FlWave: "!", VFOn: "[", VFOff: "]",
	AEsc: "e", SVEsc: "n", Link: "@", NAPC: "x", PFus: "f",
	WFOn: "(", WFOff: ")", ROnT: "r",
}

// String returns the WFDB mnemonic for c.
func (c Code) String() string {
	if s, ok := mnemonics[c]; ok {
		return s
	}
	return fmt.Sprintf("[%d]", uint8(c))
}

// ParseCode converts a WFDB mnemonic back to its code.
func ParseCode(s string) (Code, error) {
	for c, m := range mnemonics {
		if m == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mnemonic %q", ErrInvalidCode, s)
}

// IsBeat reports whether c labels a QRS complex.
func (c Code) IsBeat() bool {
	switch c {
	case Normal, LBBB, RBBB, Aberr, PVC, Fusion, NPC, APC, SVPB,
		VEsc, NEsc, Pace, Unknown, BBB, Learn, AEsc, SVEsc, NAPC, PFus, ROnT:
		return true
	default:
		return false
	}
}

// Annotation is a labelled event at a sample index of a record.
type Annotation struct {
	Time    int64 // sample index in the record's own timebase
	Type    Code
	Subtype int8
	Chan    int8
	Num     int8
	Aux     string
}
