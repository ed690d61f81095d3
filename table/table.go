// Package table reads and writes result tables as CSV files with the
// header Student,LPIPS,SSIM.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"handcompare/types"
)

// MissingColumnsError reports a table whose header lacks required columns
type MissingColumnsError struct {
	Path    string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s is missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// Write stores the table at path, creating the parent directory and
// replacing any existing file
func Write(path string, t types.Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create output folder %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}

	if err := Encode(f, t); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}

// Encode writes the header and one record per row
func Encode(w io.Writer, t types.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.Columns()); err != nil {
		return err
	}
	for _, row := range t {
		record := []string{row.Student, FormatFloat(row.LPIPS), FormatFloat(row.SSIM)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatFloat renders a score the way Python prints a float: the shortest
// digits that parse back to the same value, fixed notation with at least
// one decimal between 1e-4 and 1e16, exponent notation outside it. NaN is
// written as an empty cell.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Read loads a table from path
func Read(path string) (types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		if missing, ok := err.(*MissingColumnsError); ok {
			missing.Path = path
			return nil, missing
		}
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return t, nil
}

// Decode parses a CSV table located by header names. Columns may appear in
// any order and extra columns are ignored. Cells that are not numbers are
// read as NaN.
func Decode(r io.Reader) (types.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &MissingColumnsError{Missing: types.Columns()}
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range types.Columns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	studentCol, lpipsCol, ssimCol := index[types.ColumnStudent], index[types.ColumnLPIPS], index[types.ColumnSSIM]

	var t types.Table
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t = append(t, types.Row{
			Student: cell(record, studentCol),
			LPIPS:   parseScore(cell(record, lpipsCol)),
			SSIM:    parseScore(cell(record, ssimCol)),
		})
	}
	return t, nil
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

func parseScore(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
