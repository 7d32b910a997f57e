// Package pipeline drives one record through rate conversion and a beat
// detector, mapping every detection back to the record's own timebase.
//
// A record moves through three states:
//
//	Uninitialized -> Streaming -> Done
//
// The only way out of Streaming is the end of the record's data. Any other
// failure aborts the record; annotations already written stay written.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-ecg-replay/internal/annot"
	"github.com/tphakala/go-ecg-replay/internal/detect"
	"github.com/tphakala/go-ecg-replay/internal/rateconv"
	"github.com/tphakala/go-ecg-replay/internal/record"
)

// Sink receives annotations as soon as they are produced.
type Sink interface {
	Write(a annot.Annotation) error
}

// State is the lifecycle state of a pipeline run.
type State int

const (
	// StateUninitialized means no record has been started.
	StateUninitialized State = iota

	// StateStreaming means samples are being converted and detected.
	StateStreaming

	// StateDone means the last record reached its end of data.
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Common errors returned by the pipeline.
var (
	// ErrInvalidConfig indicates invalid pipeline parameters.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")

	// ErrSink indicates the annotation sink rejected a write.
	ErrSink = errors.New("annotation sink failed")
)

// Config holds pipeline parameters.
type Config struct {
	// DetectorRate is the sample rate the detector expects, in Hz.
	DetectorRate int

	// ProgressInterval is the number of output samples between Progress
	// calls. Zero selects a default.
	ProgressInterval int64

	// Progress, if set, is called periodically with the output samples
	// processed so far and the expected total (0 if unknown).
	Progress func(done, total int64)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DetectorRate <= 0 {
		return fmt.Errorf("%w: detector rate must be positive", ErrInvalidConfig)
	}
	if c.ProgressInterval < 0 {
		return fmt.Errorf("%w: progress interval must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Result summarizes one processed record.
type Result struct {
	Record        string
	InputRate     int
	OutputRate    int
	OutputSamples int64
	Annotations   []annot.Annotation // in emission order
}

// Beats returns the number of emitted annotations.
func (r *Result) Beats() int {
	return len(r.Annotations)
}

// Pipeline processes records one at a time.
// It is not safe for concurrent use.
type Pipeline struct {
	config Config
	state  State
}

// New creates a pipeline.
func New(config Config) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.ProgressInterval == 0 {
		config.ProgressInterval = defaultProgressInterval
	}
	return &Pipeline{config: config}, nil
}

// State returns the state of the most recent record.
func (p *Pipeline) State() State {
	return p.state
}

// Process replays rec through det and writes each detection to sink.
//
// The returned Result is valid even when an error is returned and covers
// everything emitted before the failure.
func (p *Pipeline) Process(rec record.Record, det detect.Detector, sink Sink) (Result, error) {
	info := rec.Info()
	res := Result{Record: info.Name, InputRate: info.Frequency, OutputRate: p.config.DetectorRate}

	p.state = StateUninitialized
	if err := info.Validate(); err != nil {
		return res, err
	}

	tb, err := rateconv.NewTimebase(info.Frequency, p.config.DetectorRate)
	if err != nil {
		return res, err
	}
	// A fresh converter per record, so no phase state crosses records.
	conv, err := rateconv.New(rec, info.Channels, info.Frequency, p.config.DetectorRate)
	if err != nil {
		return res, fmt.Errorf("record %s: %w", info.Name, err)
	}
	det.Reset()
	norm := NewNormalizer(info)
	total := tb.ToOutput(info.Samples)

	p.state = StateStreaming
	vec := make(rateconv.Vector, info.Channels)
	for {
		if err := conv.Next(vec); err != nil {
			if errors.Is(err, rateconv.ErrEndOfData) {
				p.state = StateDone
				p.progress(res.OutputSamples, total)
				return res, nil
			}
			return res, fmt.Errorf("record %s: %w", info.Name, err)
		}
		res.OutputSamples++

		ev := det.Step(norm.Normalize(vec[0]))
		if ev.Beat() {
			a := annot.Annotation{
				Time: tb.DetectionTime(res.OutputSamples, ev.Delay),
				Type: ev.Type,
			}
			if err := sink.Write(a); err != nil {
				return res, fmt.Errorf("%w: record %s at %d: %w", ErrSink, info.Name, a.Time, err)
			}
			res.Annotations = append(res.Annotations, a)
		}

		if res.OutputSamples%p.config.ProgressInterval == 0 {
			p.progress(res.OutputSamples, total)
		}
	}
}

func (p *Pipeline) progress(done, total int64) {
	if p.config.Progress != nil {
		p.config.Progress(done, total)
	}
}
