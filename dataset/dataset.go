// Package dataset loads tabular housing data from spreadsheets and cleans it
// into a purely numeric table ready for the modeling pipeline.
package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"

	hperrors "github.com/ezoic/houseprice/pkg/errors"
)

// Table is an in-memory column table. Cells are kept as the raw strings read
// from the file; Clean parses the numeric columns into Values, using NaN as
// the missing marker.
type Table struct {
	cols  []string
	cells map[string][]string
	vals  map[string][]float64
	rows  int
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return t.rows }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// Cells returns the raw string cells of a column.
func (t *Table) Cells(name string) ([]string, bool) {
	c, ok := t.cells[name]
	return c, ok
}

// Values returns the parsed numeric values of a column. Only columns that
// have been through Clean (or coerced explicitly) have values.
func (t *Table) Values(name string) ([]float64, bool) {
	v, ok := t.vals[name]
	return v, ok
}

// Load reads a spreadsheet into a Table. The format is picked by extension:
// .xlsx via excelize, anything else is treated as CSV.
func Load(path string) (*Table, error) {
	var records [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = loadXLSX(path)
	} else {
		records, err = loadCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.Newf("dataset: %s: empty file", path)
	}

	header := records[0]
	if len(header) == 0 {
		return nil, errors.Newf("dataset: %s: empty header row", path)
	}

	t := &Table{
		cols:  make([]string, len(header)),
		cells: make(map[string][]string, len(header)),
		vals:  make(map[string][]float64),
		rows:  len(records) - 1,
	}
	for j, name := range header {
		name = strings.TrimSpace(name)
		t.cols[j] = name
		col := make([]string, t.rows)
		for i, row := range records[1:] {
			if j < len(row) {
				col[i] = strings.TrimSpace(row[j])
			}
		}
		t.cells[name] = col
	}
	return t, nil
}

func loadCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: parse %s", path)
	}
	return records, nil
}

func loadXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Newf("dataset: %s: no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: read sheet %q in %s", sheets[0], path)
	}
	return rows, nil
}

// ParseNumeric coerces a raw cell to a float. Thousands separators are
// stripped first; anything that still fails to parse becomes NaN.
func ParseNumeric(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseStrict parses a cell without separator stripping.
func parseStrict(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Median returns the median of the non-NaN values. All-NaN input yields NaN.
func Median(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	// Insertion sort keeps this allocation-free for the typical column.
	for i := 1; i < len(clean); i++ {
		for j := i; j > 0 && clean[j] < clean[j-1]; j-- {
			clean[j], clean[j-1] = clean[j-1], clean[j]
		}
	}
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid]
	}
	return (clean[mid-1] + clean[mid]) / 2
}

// ColumnMedians returns the NaN-aware median of every column of X.
func ColumnMedians(X mat.Matrix) []float64 {
	rows, cols := X.Dims()
	medians := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = X.At(i, j)
		}
		medians[j] = Median(col)
	}
	return medians
}

// FillMissing replaces every NaN in X with the corresponding column fill
// value, in place.
func FillMissing(X *mat.Dense, fills []float64) error {
	rows, cols := X.Dims()
	if len(fills) != cols {
		return hperrors.NewDimensionError("dataset.FillMissing", cols, len(fills), 1)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.IsNaN(X.At(i, j)) {
				X.Set(i, j, fills[j])
			}
		}
	}
	return nil
}
