package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/timesplit/split"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn string   // Column name for dates (default: first of ds/date/Date/timestamp)
	Columns    []string // Value columns to load (default: every column except date and ID)
	IDColumn   string   // Column name for series ID (optional, for filtering)
	IDFilter   string   // Value to filter by ID column
	DateFormat string   // Date format tried first (default: "2006-01-02")
	HasHeader  bool     // Whether CSV has header row (default: true)
	Delimiter  rune     // Field delimiter (default: ',')
	SkipRows   int      // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat: "2006-01-02",
		HasHeader:  true,
		Delimiter:  ',',
	}
}

// Frame is a set of value columns sharing one timeline.
type Frame struct {
	Timestamps []time.Time
	Names      []string
	columns    map[string][]float64
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Timestamps)
}

// Series returns the named column as a Series sharing the frame's timeline.
func (f *Frame) Series(name string) (*Series, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, fmt.Errorf("timeseries: unknown column %q", name)
	}
	return &Series{Timestamps: f.Timestamps, Values: col, Name: name}, nil
}

// Matrix returns the named columns as a row-major matrix.
func (f *Frame) Matrix(names ...string) (split.Matrix, error) {
	cols := make([][]float64, len(names))
	for j, name := range names {
		col, ok := f.columns[name]
		if !ok {
			return nil, fmt.Errorf("timeseries: unknown column %q", name)
		}
		cols[j] = col
	}
	m := make(split.Matrix, f.Len())
	for i := range m {
		m[i] = make([]float64, len(names))
		for j := range cols {
			m[i][j] = cols[j][i]
		}
	}
	return m, nil
}

// LoadCSV loads a frame from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Frame, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a frame from an io.Reader.
//
// Rows whose date cannot be parsed, or whose value in any selected column is
// empty, NA, NaN, null or non-numeric, are skipped so that every column stays
// aligned with the timeline.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Frame, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	first, err := reader.Read()
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(first))
	var pending []string
	if opts.HasHeader {
		for i, h := range first {
			headers[i] = clean(h)
		}
	} else {
		for i := range first {
			headers[i] = strconv.Itoa(i)
		}
		pending = first
	}

	dateIdx, idIdx := -1, -1
	for i, h := range headers {
		switch {
		case opts.DateColumn != "" && h == opts.DateColumn:
			dateIdx = i
		case opts.DateColumn == "" && dateIdx == -1 && (h == "ds" || h == "date" || h == "Date" || h == "timestamp"):
			dateIdx = i
		case opts.IDColumn != "" && h == opts.IDColumn:
			idIdx = i
		}
	}
	if dateIdx == -1 {
		if opts.DateColumn != "" || opts.HasHeader {
			return nil, errors.New("timeseries: no date column found in CSV")
		}
		dateIdx = 0
	}

	valueIdx, names, err := selectColumns(headers, opts.Columns, dateIdx, idIdx)
	if err != nil {
		return nil, err
	}

	frame := &Frame{Names: names, columns: make(map[string][]float64, len(names))}
	row := make([]float64, len(valueIdx))

	for {
		record := pending
		pending = nil
		if record == nil {
			record, err = reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
		}

		if opts.IDFilter != "" && idIdx >= 0 && idIdx < len(record) {
			if clean(record[idIdx]) != opts.IDFilter {
				continue
			}
		}
		if dateIdx >= len(record) {
			continue
		}
		ts, ok := parseDate(clean(record[dateIdx]), opts.DateFormat)
		if !ok {
			continue
		}
		if !parseRow(record, valueIdx, row) {
			continue
		}

		frame.Timestamps = append(frame.Timestamps, ts)
		for j, name := range names {
			frame.columns[name] = append(frame.columns[name], row[j])
		}
	}

	if frame.Len() == 0 {
		return nil, errors.New("timeseries: no valid data found in CSV")
	}
	return frame, nil
}

// selectColumns resolves the value column indices. Without an explicit list,
// every column other than the date and ID columns is selected.
func selectColumns(headers, wanted []string, dateIdx, idIdx int) ([]int, []string, error) {
	if len(wanted) == 0 {
		var idx []int
		var names []string
		for i, h := range headers {
			if i == dateIdx || i == idIdx {
				continue
			}
			idx = append(idx, i)
			names = append(names, h)
		}
		if len(idx) == 0 {
			return nil, nil, errors.New("timeseries: no value columns in CSV")
		}
		return idx, names, nil
	}

	idx := make([]int, len(wanted))
	for j, name := range wanted {
		idx[j] = -1
		for i, h := range headers {
			if h == name {
				idx[j] = i
				break
			}
		}
		if idx[j] == -1 {
			return nil, nil, fmt.Errorf("timeseries: column %q not found in CSV", name)
		}
	}
	return idx, wanted, nil
}

func parseRow(record []string, idx []int, row []float64) bool {
	for j, i := range idx {
		if i >= len(record) {
			return false
		}
		s := clean(record[i])
		if s == "" || s == "NA" || s == "NaN" || s == "null" {
			return false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		row[j] = v
	}
	return true
}

func parseDate(s, format string) (time.Time, bool) {
	formats := []string{
		format,
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02-Jan-2006",
		"2006",
	}
	for _, f := range formats {
		if f == "" {
			continue
		}
		if ts, err := time.Parse(f, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func clean(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

// SaveCSV writes a series to a CSV file as ds,y rows.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := WriteCSV(writer, series); err != nil {
		return err
	}
	return writer.Flush()
}

// WriteCSV writes a series as ds,y rows with RFC 3339 timestamps.
func WriteCSV(w io.Writer, series *Series) error {
	if len(series.Timestamps) != len(series.Values) {
		return ErrLengthMismatch
	}
	cw := csv.NewWriter(w)
	name := series.Name
	if name == "" {
		name = "y"
	}
	if err := cw.Write([]string{"ds", name}); err != nil {
		return err
	}
	for i, v := range series.Values {
		rec := []string{
			series.Timestamps[i].Format(time.RFC3339),
			strconv.FormatFloat(v, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
