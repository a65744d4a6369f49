package sigio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-tvd/dsp/meanshift"
	"github.com/cwbudde/algo-tvd/dsp/tvd"
	"github.com/cwbudde/algo-tvd/internal/batch"
	"github.com/cwbudde/algo-tvd/measure/pwc"
)

func TestReadLines(t *testing.T) {
	in := "# header\n1, 2, 3\n\n4 5\t6;7\n"
	traces, err := Read(strings.NewReader(in), FormatLines)
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, "0", traces[0].ID)
	assert.Equal(t, []float64{1, 2, 3}, traces[0].Samples)
	assert.Equal(t, "1", traces[1].ID)
	assert.Equal(t, []float64{4, 5, 6, 7}, traces[1].Samples)
}

func TestReadLinesErrors(t *testing.T) {
	_, err := Read(strings.NewReader("1, x, 3\n"), FormatLines)
	require.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "line 1")

	_, err = Read(strings.NewReader("# only a comment\n"), FormatLines)
	require.ErrorIs(t, err, ErrFormat)
}

func TestReadColumn(t *testing.T) {
	traces, err := Read(strings.NewReader("1.5\n-2\n# skip\n3e-1\n"), FormatColumn)
	require.NoError(t, err)
	require.Len(t, traces, 1)
	assert.Equal(t, []float64{1.5, -2, 0.3}, traces[0].Samples)

	_, err = Read(strings.NewReader("1\n2 3\n"), FormatColumn)
	require.ErrorIs(t, err, ErrFormat)
}

func TestReadJSON(t *testing.T) {
	traces, err := Read(strings.NewReader(`[[1,2],[3,4,5]]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, "1", traces[1].ID)
	assert.Equal(t, []float64{3, 4, 5}, traces[1].Samples)

	doc := `{"traces": [{"id": "well-a", "samples": [0, 1]}, {"samples": [2]}]}`
	traces, err = Read(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, "well-a", traces[0].ID)
	assert.Equal(t, "1", traces[1].ID)

	_, err = Read(strings.NewReader(`{"traces": []}`), FormatJSON)
	require.ErrorIs(t, err, ErrFormat)
	_, err = Read(strings.NewReader(`not json`), FormatJSON)
	require.ErrorIs(t, err, ErrFormat)
}

func TestReadUnknownFormat(t *testing.T) {
	_, err := Read(strings.NewReader("1"), "xml")
	require.Error(t, err)
}

func sampleResults(t *testing.T) []batch.Result {
	t.Helper()
	y := []float64{0, 0.1, 0, 2, 2.1, 1.9, 2}
	res, err := tvd.Solve(y, []float64{0.5})
	require.NoError(t, err)
	rep, err := pwc.Analyze(y, res.Path[0].X, pwc.Config{})
	require.NoError(t, err)
	return []batch.Result{
		{Index: 0, ID: "a", LambdaMax: res.LambdaMax, Path: res.Path, Reports: []pwc.Report{rep}},
		{Index: 1, ID: "b", Err: errors.New("boom")},
	}
}

func TestRows(t *testing.T) {
	results := sampleResults(t)
	rows := Rows(results, true)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "a", r.Trace)
	assert.InDelta(t, 0.5/results[0].LambdaMax, r.Ratio, 1e-15)
	assert.True(t, r.Solved)
	assert.Positive(t, r.Segments)
	assert.Len(t, r.X, 7)

	assert.Nil(t, Rows(results, false)[0].X)
}

func estimateResults(t *testing.T) []batch.Result {
	t.Helper()
	y := []float64{0, 0.1, 0, 2, 2.1, 1.9, 2}
	est, err := meanshift.Bilateral(y, meanshift.DefaultBilateralConfig())
	require.NoError(t, err)
	rep, err := pwc.Analyze(y, est.X, pwc.Config{})
	require.NoError(t, err)
	return []batch.Result{
		{ID: "m", Method: batch.MethodBilateral, Estimate: &est, Reports: []pwc.Report{rep}},
	}
}

func TestRowsEstimate(t *testing.T) {
	results := estimateResults(t)
	rows := Rows(results, true)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, batch.MethodBilateral, r.Method)
	assert.Zero(t, r.Lambda)
	assert.Equal(t, results[0].Estimate.Converged, r.Solved)
	assert.Equal(t, results[0].Estimate.Iterations, r.Iterations)
	assert.Positive(t, r.Segments)
	assert.Len(t, r.X, 7)

	assert.Equal(t, batch.MethodTVD, Rows(sampleResults(t), false)[0].Method)
}

func TestWriteEstimate(t *testing.T) {
	var text bytes.Buffer
	require.NoError(t, Write(&text, OutputText, estimateResults(t), false))
	assert.Contains(t, text.String(), "METHOD")
	assert.Contains(t, text.String(), "bilateral")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, OutputCSV, estimateResults(t), false))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "method", recs[0][12])
	assert.Equal(t, "bilateral", recs[1][12])
	assert.Equal(t, "0", recs[1][1])
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, OutputText, sampleResults(t), false))
	out := buf.String()
	assert.Contains(t, out, "TRACE")
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "error: boom")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, OutputCSV, sampleResults(t), false))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, csvHeader, recs[0])
	assert.Equal(t, "a", recs[1][0])
	assert.Equal(t, "0.5", recs[1][1])
	assert.Equal(t, "true", recs[1][3])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, OutputJSON, sampleResults(t), true))

	var got []struct {
		Trace     string  `json:"trace"`
		LambdaMax float64 `json:"lambda_max"`
		Error     string  `json:"error"`
		Solutions []struct {
			Lambda float64   `json:"lambda"`
			X      []float64 `json:"x"`
		} `json:"solutions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Trace)
	require.Len(t, got[0].Solutions, 1)
	assert.Len(t, got[0].Solutions[0].X, 7)
	assert.Equal(t, "boom", got[1].Error)
	assert.Empty(t, got[1].Solutions)
}

func TestFloatMarshalNonFinite(t *testing.T) {
	b, err := json.Marshal([]Float{1.5, Float(math.NaN()), Float(math.Inf(1))})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, null, null]`, string(b))
}

func TestWriteSamplesRoundTrip(t *testing.T) {
	x := []float64{0.1, -3, 1e-9}
	var buf bytes.Buffer
	require.NoError(t, WriteSamples(&buf, x))
	traces, err := Read(&buf, FormatColumn)
	require.NoError(t, err)
	assert.Equal(t, x, traces[0].Samples)
}

func TestWriteUnknownFormat(t *testing.T) {
	require.Error(t, Write(&bytes.Buffer{}, "yaml", nil, false))
}
