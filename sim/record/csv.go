package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/tebeka/atexit"

	"github.com/lookahead-sim/lookahead-sim/sim"
)

// CSVRecorder writes samples as rows of a CSV file:
// instance, time, cache_hit, status, then one column per declared output.
type CSVRecorder struct {
	path    string
	file    *os.File
	w       *csv.Writer
	columns []string

	samples    []Sample
	bufferSize int
	closed     bool
}

// NewCSVRecorder creates the file at path. Existing files are never
// overwritten.
func NewCSVRecorder(path string, outputs sim.VariableSet) (*CSVRecorder, error) {
	if path == "" {
		return nil, errors.New("csv recorder needs a file path")
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("file %s already exists", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	r := &CSVRecorder{
		path:       path,
		file:       file,
		w:          csv.NewWriter(file),
		columns:    columns(outputs),
		bufferSize: 1000,
	}
	header := append([]string{"instance", "time", "cache_hit", "status"}, r.columns...)
	if err := r.w.Write(header); err != nil {
		file.Close()
		return nil, err
	}
	atexit.Register(func() { _ = r.Close() })
	return r, nil
}

// Path returns the file being written.
func (r *CSVRecorder) Path() string { return r.path }

// Record buffers a sample.
func (r *CSVRecorder) Record(s Sample) error {
	if r.closed {
		return fmt.Errorf("recorder %s is closed", r.path)
	}
	r.samples = append(r.samples, s)
	if len(r.samples) >= r.bufferSize {
		return r.Flush()
	}
	return nil
}

// Flush writes all buffered samples.
func (r *CSVRecorder) Flush() error {
	for _, s := range r.samples {
		row := []string{
			s.Instance,
			strconv.FormatFloat(s.Time, 'g', -1, 64),
			strconv.FormatBool(s.CacheHit),
			s.Status.String(),
		}
		vals := values(s.Outputs)
		if len(vals) != len(r.columns) {
			return fmt.Errorf("sample at t=%g has %d values for %d outputs", s.Time, len(vals), len(r.columns))
		}
		for _, v := range vals {
			row = append(row, formatValue(v))
		}
		if err := r.w.Write(row); err != nil {
			return err
		}
	}
	r.samples = nil
	r.w.Flush()
	return r.w.Error()
}

// Close flushes and closes the file. Closing twice is a no-op.
func (r *CSVRecorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.Flush(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	}
	return fmt.Sprint(v)
}
