// Package sigio reads input traces and writes denoising results for the
// tvdip command.
package sigio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-tvd/internal/batch"
)

// Input formats.
const (
	// FormatLines holds one trace per line, samples separated by commas or
	// whitespace. Lines starting with # are comments.
	FormatLines = "lines"
	// FormatColumn holds a single trace with one sample per line.
	FormatColumn = "column"
	// FormatJSON is either an array of sample arrays or an object
	// {"traces": [{"id": "...", "samples": [...]}]}.
	FormatJSON = "json"
)

// ErrFormat reports malformed input.
var ErrFormat = errors.New("sigio: malformed input")

// Read parses traces from r in the given format.
func Read(r io.Reader, format string) ([]batch.Trace, error) {
	switch format {
	case FormatLines, "":
		return readLines(r)
	case FormatColumn:
		return readColumn(r)
	case FormatJSON:
		return readJSON(r)
	default:
		return nil, fmt.Errorf("sigio: unknown input format %q", format)
	}
}

func readLines(r io.Reader) ([]batch.Trace, error) {
	var traces []batch.Trace
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		samples, err := parseSamples(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrFormat, line, err)
		}
		traces = append(traces, batch.Trace{ID: strconv.Itoa(len(traces)), Samples: samples})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(traces) == 0 {
		return nil, fmt.Errorf("%w: no traces", ErrFormat)
	}
	return traces, nil
}

func readColumn(r io.Reader) ([]batch.Trace, error) {
	var samples []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrFormat, line, err)
		}
		samples = append(samples, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrFormat)
	}
	return []batch.Trace{{ID: "0", Samples: samples}}, nil
}

type jsonTrace struct {
	ID      string    `json:"id"`
	Samples []float64 `json:"samples"`
}

func readJSON(r io.Reader) ([]batch.Trace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var bare [][]float64
	if err := json.Unmarshal(data, &bare); err == nil {
		if len(bare) == 0 {
			return nil, fmt.Errorf("%w: no traces", ErrFormat)
		}
		traces := make([]batch.Trace, len(bare))
		for i, s := range bare {
			traces[i] = batch.Trace{ID: strconv.Itoa(i), Samples: s}
		}
		return traces, nil
	}

	var doc struct {
		Traces []jsonTrace `json:"traces"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if len(doc.Traces) == 0 {
		return nil, fmt.Errorf("%w: no traces", ErrFormat)
	}
	traces := make([]batch.Trace, len(doc.Traces))
	for i, jt := range doc.Traces {
		id := jt.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		traces[i] = batch.Trace{ID: id, Samples: jt.Samples}
	}
	return traces, nil
}

func parseSamples(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
