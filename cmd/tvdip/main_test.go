package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-tvd/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func TestGenerateSteps(t *testing.T) {
	out, _, err := execute(t, "", "generate", "--levels", "1,2", "--lengths", "2,3")
	require.NoError(t, err)
	assert.Equal(t, "1\n1\n2\n2\n2\n", out)
}

func TestGenerateDeterministic(t *testing.T) {
	args := []string{"generate", "--kind", "reflectivity", "--samples", "64", "--seed", "7", "--normalize", "1"}
	a, _, err := execute(t, "", args...)
	require.NoError(t, err)
	b, _, err := execute(t, "", args...)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, strings.Split(strings.TrimSpace(a), "\n"), 64)
}

func TestGenerateErrors(t *testing.T) {
	_, _, err := execute(t, "", "generate", "--kind", "sine")
	require.Error(t, err)
	_, _, err = execute(t, "", "generate", "--lengths", "1,x,1")
	require.Error(t, err)
}

func TestLambdaMax(t *testing.T) {
	out, _, err := execute(t, "0,0,0,5,5,5\n1,1,1\n", "lambdamax")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"0", "6", "7.5"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1", "3", "0"}, strings.Fields(lines[2]))
}

func TestSolveCSV(t *testing.T) {
	out, _, err := execute(t, "0,0,0,5,5,5\n", "solve", "--lambdas", "1,0.5", "--output", "csv")
	require.NoError(t, err)

	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "lambda", recs[0][1])
	assert.Equal(t, "1", recs[1][1])
	assert.Equal(t, "0.5", recs[2][1])
	assert.Equal(t, "true", recs[1][3])
	assert.Equal(t, "true", recs[2][3])
}

func TestSolveJSONWithSignalsAndMetrics(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "y.txt")
	require.NoError(t, os.WriteFile(input, []byte("0\n0\n0\n5\n5\n5\n"), 0o644))
	prom := filepath.Join(dir, "tvdip.prom")

	out, _, err := execute(t, "", "solve",
		"--input", input, "--format", "column",
		"--lambdas", "0.5", "--relative",
		"--output", "json", "--signals", "--analyze",
		"--metrics-textfile", prom)
	require.NoError(t, err)

	var got []struct {
		Trace     string  `json:"trace"`
		LambdaMax float64 `json:"lambda_max"`
		Solutions []struct {
			Lambda   float64   `json:"lambda"`
			Solved   bool      `json:"solved"`
			Segments int       `json:"segments"`
			X        []float64 `json:"x"`
		} `json:"solutions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.InDelta(t, 7.5, got[0].LambdaMax, 1e-12)
	require.Len(t, got[0].Solutions, 1)
	sol := got[0].Solutions[0]
	assert.InDelta(t, 3.75, sol.Lambda, 1e-12)
	assert.True(t, sol.Solved)
	assert.Len(t, sol.X, 6)
	assert.Positive(t, sol.Segments)

	text, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(text), "tvdip_solutions_total")
}

func TestSolveGeometricPathFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tvdip.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("path:\n  steps: 3\n  min_ratio: 0.1\nlog:\n  level: debug\n"), 0o644))

	out, stderr, err := execute(t, "0,0,0,5,5,5\n", "--config", cfgPath, "solve", "--output", "csv")
	require.NoError(t, err)
	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, recs, 4)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "trace done")
}

func TestSolveLogFlagsOverrideConfig(t *testing.T) {
	_, stderr, err := execute(t, "0,1,0,1\n", "--log-format", "json", "--log-level", "warn", "solve", "--lambdas", "0.1")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "trace done")
}

func TestSolveRejectsInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tvdip.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("solver:\n  tolerance: -1\n"), 0o644))

	_, _, err := execute(t, "1,2\n", "--config", cfgPath, "solve")
	require.ErrorIs(t, err, config.ErrInvalid)

	_, _, err = execute(t, "1,2\n", "solve", "--tolerance", "0")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestSolveReportsTraceErrors(t *testing.T) {
	out, _, err := execute(t, "1,2,3\n4\n", "solve", "--lambdas", "0.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trace 1")
	assert.Contains(t, out, "error:")
}

func TestSolveBadInput(t *testing.T) {
	_, _, err := execute(t, "", "solve")
	require.Error(t, err)
	_, _, err = execute(t, "", "solve", "--input", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestSolveBilateralMethod(t *testing.T) {
	out, _, err := execute(t, "0,0,0,5,5,5\n", "solve",
		"--method", "bilateral", "--width", "2", "--kernel", "hard", "--beta", "1", "--output", "csv")
	require.NoError(t, err)

	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "method", recs[0][12])
	assert.Equal(t, "bilateral", recs[1][12])
	assert.Equal(t, "true", recs[1][3])
	assert.Equal(t, "1", recs[1][5])
}

func TestSolveClusterMethod(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "tvdip.prom")
	out, _, err := execute(t, "0,0,0,5,5,5\n", "solve",
		"--method", "cluster", "--k", "2", "--seed", "3",
		"--output", "json", "--signals", "--metrics-textfile", prom)
	require.NoError(t, err)

	var got []struct {
		Solutions []struct {
			Method string    `json:"method"`
			Solved bool      `json:"solved"`
			X      []float64 `json:"x"`
		} `json:"solutions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	require.Len(t, got[0].Solutions, 1)
	sol := got[0].Solutions[0]
	assert.Equal(t, "cluster", sol.Method)
	assert.True(t, sol.Solved)
	assert.Equal(t, []float64{0, 0, 0, 5, 5, 5}, sol.X)

	text, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(text), `tvdip_estimates_total{method="cluster",status="converged"} 1`)
}

func TestSolveRejectsUnknownMethod(t *testing.T) {
	_, _, err := execute(t, "1,2\n", "solve", "--method", "median")
	require.ErrorIs(t, err, config.ErrInvalid)
	_, _, err = execute(t, "1,2\n", "solve", "--method", "bilateral", "--kernel", "box")
	require.ErrorIs(t, err, config.ErrInvalid)
}
