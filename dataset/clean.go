package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	hperrors "github.com/ezoic/houseprice/pkg/errors"
	"github.com/ezoic/houseprice/pkg/log"
	"github.com/ezoic/houseprice/preprocessing"
)

// missingCategory is the category string assigned to empty categorical cells.
// It participates in encoding like any other value.
const missingCategory = "NaN"

// CleanConfig names the columns the cleaning pass operates on. Columns listed
// here but absent from the file are skipped.
type CleanConfig struct {
	// Target is the column that must be present and numeric after cleaning.
	// Rows where it is missing or unparseable are dropped.
	Target string

	// NumericColumns are parsed with thousands-separator stripping.
	NumericColumns []string

	// DerivedColumns are removed from the table entirely.
	DerivedColumns []string

	// CategoricalColumns are replaced with integer codes.
	CategoricalColumns []string

	// FullTableImpute fills missing numerics with medians computed over the
	// whole cleaned table. When false, NaNs are left in place so the caller
	// can impute from the training split only.
	FullTableImpute bool
}

// CleanResult is the numeric table produced by Clean plus the fitted
// per-column encoders.
type CleanResult struct {
	Table       *Table
	Encoders    map[string]*preprocessing.LabelEncoder
	RowsDropped int
}

// Clean coerces the configured numeric columns, drops rows with a missing
// target, removes derived columns, encodes categoricals, and optionally
// median-fills the remaining gaps. The input table is not modified.
func Clean(t *Table, cfg CleanConfig) (*CleanResult, error) {
	logger := log.GetLoggerWithName("dataset")

	if !t.HasColumn(cfg.Target) {
		return nil, hperrors.NewValueError("dataset.Clean", "target column "+cfg.Target+" not found")
	}

	dropped := map[string]bool{}
	for _, name := range cfg.DerivedColumns {
		if t.HasColumn(name) {
			dropped[name] = true
		}
	}

	numeric := map[string]bool{cfg.Target: true}
	for _, name := range cfg.NumericColumns {
		numeric[name] = true
	}
	categorical := map[string]bool{}
	for _, name := range cfg.CategoricalColumns {
		if t.HasColumn(name) {
			categorical[name] = true
		}
	}

	// Parse the target first to find the rows to keep.
	targetCells, _ := t.Cells(cfg.Target)
	keep := make([]int, 0, t.NumRows())
	for i, cell := range targetCells {
		if !math.IsNaN(ParseNumeric(cell)) {
			keep = append(keep, i)
		}
	}
	rowsDropped := t.NumRows() - len(keep)
	if rowsDropped > 0 {
		logger.Info("dropped rows with missing target",
			"target", cfg.Target,
			"dropped", rowsDropped,
			"remaining", len(keep))
	}
	if len(keep) == 0 {
		return nil, hperrors.NewModelError("dataset.Clean", "no rows with target values", hperrors.ErrEmptyData)
	}

	out := &Table{
		cols:  make([]string, 0, len(t.cols)),
		cells: make(map[string][]string),
		vals:  make(map[string][]float64),
		rows:  len(keep),
	}
	encoders := make(map[string]*preprocessing.LabelEncoder)

	for _, name := range t.cols {
		if dropped[name] {
			continue
		}
		cells, _ := t.Cells(name)

		kept := make([]string, len(keep))
		for i, idx := range keep {
			kept[i] = cells[idx]
		}

		var vals []float64
		switch {
		case categorical[name]:
			for i, cell := range kept {
				if cell == "" {
					kept[i] = missingCategory
				}
			}
			enc := preprocessing.NewLabelEncoder()
			encoded, err := enc.FitTransform(kept)
			if err != nil {
				return nil, err
			}
			encoders[name] = enc
			vals = encoded
		default:
			// Every surviving column must be numeric for the feature matrix.
			// Only the configured numeric-looking columns get thousands
			// separators stripped; the rest parse as-is.
			vals = make([]float64, len(kept))
			for i, cell := range kept {
				if numeric[name] {
					vals[i] = ParseNumeric(cell)
				} else {
					vals[i] = parseStrict(cell)
				}
			}
		}

		out.cols = append(out.cols, name)
		out.cells[name] = kept
		out.vals[name] = vals
	}

	if cfg.FullTableImpute {
		for _, name := range out.cols {
			vals := out.vals[name]
			med := Median(vals)
			if math.IsNaN(med) {
				continue
			}
			for i, v := range vals {
				if math.IsNaN(v) {
					vals[i] = med
				}
			}
		}
	}

	logger.Debug("cleaned table",
		"rows", out.rows,
		"columns", len(out.cols),
		"encoded", len(encoders))

	return &CleanResult{Table: out, Encoders: encoders, RowsDropped: rowsDropped}, nil
}

// FeatureMatrix splits a cleaned table into a feature matrix and a target
// column. Feature order follows the table's column order with the target
// removed.
func FeatureMatrix(t *Table, target string) (X *mat.Dense, y *mat.Dense, featureNames []string, err error) {
	yVals, ok := t.Values(target)
	if !ok {
		return nil, nil, nil, hperrors.NewValueError("dataset.FeatureMatrix", "target column "+target+" not found")
	}

	for _, name := range t.cols {
		if name == target {
			continue
		}
		if _, ok := t.Values(name); !ok {
			return nil, nil, nil, hperrors.NewValueError("dataset.FeatureMatrix", "column "+name+" has no numeric values")
		}
		featureNames = append(featureNames, name)
	}
	if len(featureNames) == 0 {
		return nil, nil, nil, hperrors.NewModelError("dataset.FeatureMatrix", "no feature columns", hperrors.ErrEmptyData)
	}

	X = mat.NewDense(t.rows, len(featureNames), nil)
	for j, name := range featureNames {
		vals, _ := t.Values(name)
		for i := 0; i < t.rows; i++ {
			X.Set(i, j, vals[i])
		}
	}

	y = mat.NewDense(t.rows, 1, nil)
	for i := 0; i < t.rows; i++ {
		y.Set(i, 0, yVals[i])
	}
	return X, y, featureNames, nil
}
