package sigio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-tvd/internal/batch"
	"github.com/cwbudde/algo-tvd/measure/pwc"
)

// Output formats.
const (
	OutputText = "text"
	OutputCSV  = "csv"
	OutputJSON = "json"
)

// Float marshals non-finite values as JSON null. A stalled solve can end
// with a NaN gap.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// Row is the flat summary of one (trace, λ) solution or of one mean-shift
// estimate. Estimates have no λ and report convergence as Solved.
type Row struct {
	Trace      string    `json:"trace"`
	Method     string    `json:"method"`
	Lambda     float64   `json:"lambda"`
	Ratio      float64   `json:"lambda_ratio"`
	Solved     bool      `json:"solved"`
	Stalled    bool      `json:"stalled,omitempty"`
	Iterations int       `json:"iterations"`
	Gap        Float     `json:"gap"`
	Objective  Float     `json:"objective"`
	Change     Float     `json:"change,omitempty"`
	Segments   int       `json:"segments,omitempty"`
	TV         Float     `json:"total_variation,omitempty"`
	SNRdB      Float     `json:"snr_db,omitempty"`
	Whiteness  Float     `json:"whiteness,omitempty"`
	X          []float64 `json:"x,omitempty"`
}

// Rows flattens batch results. Failed traces contribute the solutions they
// finished. Signals are included only when withSignal is set.
func Rows(results []batch.Result, withSignal bool) []Row {
	var rows []Row
	for _, res := range results {
		if est := res.Estimate; est != nil {
			row := Row{
				Trace:      res.ID,
				Method:     res.Method,
				Solved:     est.Converged,
				Iterations: est.Iterations,
				Change:     Float(est.Change),
			}
			if len(res.Reports) > 0 {
				row.addReport(res.Reports[0])
			}
			if withSignal {
				row.X = est.X
			}
			rows = append(rows, row)
			continue
		}
		for i, sol := range res.Path {
			row := Row{
				Trace:      res.ID,
				Method:     batch.MethodTVD,
				Lambda:     sol.Lambda,
				Solved:     sol.Solved,
				Stalled:    sol.Stalled,
				Iterations: sol.Iterations,
				Gap:        Float(sol.Gap),
				Objective:  Float(sol.Objective),
			}
			if res.LambdaMax > 0 {
				row.Ratio = sol.Lambda / res.LambdaMax
			}
			if i < len(res.Reports) {
				row.addReport(res.Reports[i])
			}
			if withSignal {
				row.X = sol.X
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func (r *Row) addReport(rep pwc.Report) {
	r.Segments = len(rep.Segments)
	r.TV = Float(rep.TotalVariation)
	r.SNRdB = Float(rep.SNRdB)
	r.Whiteness = Float(rep.Whiteness)
}

// Write renders results to w in the given output format.
func Write(w io.Writer, format string, results []batch.Result, withSignal bool) error {
	switch format {
	case OutputText, "":
		return WriteText(w, results)
	case OutputCSV:
		return WriteCSV(w, results)
	case OutputJSON:
		return WriteJSON(w, results, withSignal)
	default:
		return fmt.Errorf("sigio: unknown output format %q", format)
	}
}

// WriteText prints an aligned summary table.
func WriteText(w io.Writer, results []batch.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRACE\tMETHOD\tLAMBDA\tRATIO\tSOLVED\tITER\tGAP\tOBJECTIVE\tSEGMENTS")
	for _, r := range Rows(results, false) {
		segs := "-"
		if r.Segments > 0 {
			segs = strconv.Itoa(r.Segments)
		}
		if r.Method != batch.MethodTVD {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t%t\t%d\t-\t-\t%s\n",
				r.Trace, r.Method, r.Solved, r.Iterations, segs)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.6g\t%.4f\t%t\t%d\t%.3e\t%.6g\t%s\n",
			r.Trace, r.Method, r.Lambda, r.Ratio, r.Solved, r.Iterations, float64(r.Gap), float64(r.Objective), segs)
	}
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\n", res.ID, res.Err)
		}
	}
	return tw.Flush()
}

var csvHeader = []string{
	"trace", "lambda", "lambda_ratio", "solved", "stalled", "iterations",
	"gap", "objective", "segments", "total_variation", "snr_db", "whiteness",
	"method", "change",
}

// WriteCSV writes one record per solution.
func WriteCSV(w io.Writer, results []batch.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range Rows(results, false) {
		rec := []string{
			r.Trace, f(r.Lambda), f(r.Ratio),
			strconv.FormatBool(r.Solved), strconv.FormatBool(r.Stalled),
			strconv.Itoa(r.Iterations), f(float64(r.Gap)), f(float64(r.Objective)),
			strconv.Itoa(r.Segments), f(float64(r.TV)), f(float64(r.SNRdB)), f(float64(r.Whiteness)),
			r.Method, f(float64(r.Change)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonResult struct {
	Trace     string  `json:"trace"`
	LambdaMax float64 `json:"lambda_max"`
	Error     string  `json:"error,omitempty"`
	Solutions []Row   `json:"solutions"`
}

// WriteJSON writes one object per trace, including the denoised signals
// when withSignal is set.
func WriteJSON(w io.Writer, results []batch.Result, withSignal bool) error {
	out := make([]jsonResult, len(results))
	for i, res := range results {
		out[i] = jsonResult{
			Trace:     res.ID,
			LambdaMax: res.LambdaMax,
			Solutions: Rows([]batch.Result{res}, withSignal),
		}
		if out[i].Solutions == nil {
			out[i].Solutions = []Row{}
		}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteSamples writes x as a single column, the inverse of FormatColumn.
func WriteSamples(w io.Writer, x []float64) error {
	buf := make([]byte, 0, 32)
	for _, v := range x {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
