package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-ecg-replay/internal/annot"
	"github.com/tphakala/go-ecg-replay/internal/pipeline"
)

func result(rate int, times ...int64) pipeline.Result {
	res := pipeline.Result{Record: "100", InputRate: rate, OutputRate: 200, OutputSamples: 1000}
	for i, tm := range times {
		typ := annot.Normal
		if i%2 == 1 {
			typ = annot.PVC
		}
		res.Annotations = append(res.Annotations, annot.Annotation{Time: tm, Type: typ})
	}
	return res
}

func TestIntervals(t *testing.T) {
	rr := Intervals(result(360, 0, 180, 540, 900))
	assert.InDeltaSlice(t, []float64{0.5, 1, 1}, rr, 1e-12)

	assert.Nil(t, Intervals(result(360, 10)))
	assert.Nil(t, Intervals(result(0, 10, 20)))
}

func TestSummarize_RegularRhythm(t *testing.T) {
	s := Summarize(result(360, 0, 360, 720, 1080))

	assert.Equal(t, "100", s.Record)
	assert.Equal(t, 4, s.Beats)
	assert.Equal(t, map[string]int{"N": 2, "V": 2}, s.BeatTypes)
	assert.InDelta(t, 1.0, s.MeanRR, 1e-12)
	assert.InDelta(t, 1.0, s.MedianRR, 1e-12)
	assert.InDelta(t, 0.0, s.StdDevRR, 1e-12)
	assert.InDelta(t, 0.0, s.RMSSD, 1e-12)
	assert.InDelta(t, 60.0, s.HeartRate, 1e-9)
}

func TestSummarize_IrregularRhythm(t *testing.T) {
	s := Summarize(result(360, 0, 180, 540, 900))

	assert.InDelta(t, 5.0/6.0, s.MeanRR, 1e-12)
	assert.InDelta(t, 1.0, s.MedianRR, 1e-12)
	assert.InDelta(t, 0.288675, s.StdDevRR, 1e-6)
	assert.InDelta(t, 0.353553, s.RMSSD, 1e-6)
	assert.InDelta(t, 72.0, s.HeartRate, 1e-9)
}

func TestSummarize_TooFewBeats(t *testing.T) {
	s := Summarize(result(360))
	assert.Zero(t, s.Beats)
	assert.Nil(t, s.BeatTypes)
	assert.Zero(t, s.MeanRR)

	s = Summarize(result(360, 0, 270))
	assert.InDelta(t, 0.75, s.MeanRR, 1e-12)
	assert.InDelta(t, 0.75, s.MedianRR, 1e-12)
	assert.Zero(t, s.StdDevRR, "one interval has no spread")
	assert.Zero(t, s.RMSSD)
}

func TestRun_AddAndEncode(t *testing.T) {
	run := &Run{Database: "mitdb", DetectorRate: 200, Annotator: "ate", Detector: "oracle"}
	run.Add(Summarize(result(360, 0, 360, 720)))
	run.Add(Summary{Record: "101", Error: "failed to open header"})

	assert.Equal(t, 3, run.TotalBeats)
	assert.Equal(t, 1, run.Failed)

	var buf bytes.Buffer
	require.NoError(t, run.Encode(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "mitdb", decoded["database"])
	assert.EqualValues(t, 3, decoded["total_beats"])
	records, ok := decoded["records"].([]any)
	require.True(t, ok)
	require.Len(t, records, 2)
	second, ok := records[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "failed to open header", second["error"])
}

func TestRun_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	run := &Run{DetectorRate: 200}
	require.NoError(t, run.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"detector_rate": 200`)

	err = run.WriteFile(filepath.Join(t.TempDir(), "missing", "run.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create report file")
}
