// Package report turns pipeline results into per-record rhythm summaries
// and a JSON run report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/go-ecg-replay/internal/pipeline"
	"github.com/tphakala/go-ecg-replay/internal/simdops"
)

// Summary describes one replayed record.
//
// RR statistics are in seconds and are zero when fewer intervals than
// they need were detected.
type Summary struct {
	Record        string         `json:"record"`
	InputRate     int            `json:"input_rate"`
	OutputRate    int            `json:"output_rate"`
	OutputSamples int64          `json:"output_samples"`
	Beats         int            `json:"beats"`
	BeatTypes     map[string]int `json:"beat_types,omitempty"`
	MeanRR        float64        `json:"mean_rr"`
	MedianRR      float64        `json:"median_rr"`
	StdDevRR      float64        `json:"stddev_rr"`
	RMSSD         float64        `json:"rmssd"`
	HeartRate     float64        `json:"heart_rate"` // beats per minute
	Error         string         `json:"error,omitempty"`
}

// Summarize computes the summary of a pipeline result.
func Summarize(res pipeline.Result) Summary {
	s := Summary{
		Record:        res.Record,
		InputRate:     res.InputRate,
		OutputRate:    res.OutputRate,
		OutputSamples: res.OutputSamples,
		Beats:         res.Beats(),
	}
	if s.Beats > 0 {
		s.BeatTypes = make(map[string]int)
		for _, a := range res.Annotations {
			s.BeatTypes[a.Type.String()]++
		}
	}

	rr := Intervals(res)
	if len(rr) == 0 {
		return s
	}
	ops := simdops.For[float64]()

	s.MeanRR = simdops.Mean(rr)
	if s.MeanRR > 0 {
		s.HeartRate = secondsPerMinute / s.MeanRR
	}

	sorted := slices.Clone(rr)
	slices.Sort(sorted)
	s.MedianRR = stat.Quantile(medianQuantile, stat.Empirical, sorted, nil)

	if len(rr) >= minSpreadIntervals {
		s.StdDevRR = stat.StdDev(rr, nil)
		d := simdops.Diff(make([]float64, len(rr)), rr)
		s.RMSSD = math.Sqrt(ops.DotProductUnsafe(d, d) / float64(len(d)))
	}
	return s
}

// Intervals returns the RR intervals of res in seconds.
func Intervals(res pipeline.Result) []float64 {
	if len(res.Annotations) < 2 || res.InputRate <= 0 {
		return nil
	}
	times := make([]float64, len(res.Annotations))
	for i, a := range res.Annotations {
		times[i] = float64(a.Time)
	}
	rr := simdops.Diff(make([]float64, len(times)), times)
	simdops.For[float64]().Scale(rr, rr, 1/float64(res.InputRate))
	return rr
}

// Run is the report of a whole replay run.
type Run struct {
	Database     string    `json:"database,omitempty"`
	DetectorRate int       `json:"detector_rate"`
	Annotator    string    `json:"annotator"`
	Detector     string    `json:"detector"`
	Records      []Summary `json:"records"`
	TotalBeats   int       `json:"total_beats"`
	Failed       int       `json:"failed"`
}

// Add appends a record summary to the run.
func (r *Run) Add(s Summary) {
	r.Records = append(r.Records, s)
	r.TotalBeats += s.Beats
	if s.Error != "" {
		r.Failed++
	}
}

// Encode writes the run as indented JSON.
func (r *Run) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteFile writes the run report to path.
func (r *Run) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := r.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
