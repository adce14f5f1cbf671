package preprocessing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/ezoic/houseprice/core/model"
	hperrors "github.com/ezoic/houseprice/pkg/errors"
)

// LabelEncoder maps each distinct category string to a zero-based integer
// code. Codes are assigned in the order categories are first seen during Fit,
// so they are dataset-specific; Save persists the learned mapping as a JSON
// artifact so codes remain portable across runs and dataset versions.
type LabelEncoder struct {
	state *model.StateManager

	// classes holds categories in code order; codeOf is the inverse mapping.
	classes []string
	codeOf  map[string]int
}

// NewLabelEncoder creates an unfitted LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{state: model.NewStateManager()}
}

// Fit learns the category set from values in first-seen order.
func (e *LabelEncoder) Fit(values []string) (err error) {
	defer hperrors.Recover(&err, "LabelEncoder.Fit")

	if len(values) == 0 {
		return hperrors.NewModelError("LabelEncoder.Fit", "empty data", hperrors.ErrEmptyData)
	}

	e.classes = e.classes[:0]
	e.codeOf = make(map[string]int)
	for _, v := range values {
		if _, seen := e.codeOf[v]; !seen {
			e.codeOf[v] = len(e.classes)
			e.classes = append(e.classes, v)
		}
	}

	e.state.SetFitted()
	return nil
}

// Transform maps values to their learned codes. A value never seen during Fit
// is an error rather than a silent wrong code.
func (e *LabelEncoder) Transform(values []string) ([]float64, error) {
	if !e.state.IsFitted() {
		return nil, hperrors.NewNotFittedError("LabelEncoder", "Transform")
	}

	codes := make([]float64, len(values))
	for i, v := range values {
		code, ok := e.codeOf[v]
		if !ok {
			return nil, hperrors.NewValueError("LabelEncoder.Transform",
				fmt.Sprintf("unknown category %q", v))
		}
		codes[i] = float64(code)
	}
	return codes, nil
}

// FitTransform learns the category set from values and returns their codes.
func (e *LabelEncoder) FitTransform(values []string) ([]float64, error) {
	if err := e.Fit(values); err != nil {
		return nil, err
	}
	return e.Transform(values)
}

// InverseTransform maps codes back to category strings.
func (e *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if !e.state.IsFitted() {
		return nil, hperrors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}

	out := make([]string, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(e.classes) {
			return nil, hperrors.NewValueError("LabelEncoder.InverseTransform",
				fmt.Sprintf("code %d out of range [0, %d)", c, len(e.classes)))
		}
		out[i] = e.classes[c]
	}
	return out, nil
}

// Classes returns the learned categories in code order.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// NumClasses returns the number of distinct categories learned during Fit.
func (e *LabelEncoder) NumClasses() int {
	return len(e.classes)
}

// IsFitted reports whether Fit has completed.
func (e *LabelEncoder) IsFitted() bool {
	return e.state.IsFitted()
}

// encoderArtifact is the on-disk representation of a fitted encoder.
type encoderArtifact struct {
	Classes []string `json:"classes"`
}

// Save writes the learned category-to-code mapping to path as JSON.
func (e *LabelEncoder) Save(path string) error {
	if !e.state.IsFitted() {
		return hperrors.NewNotFittedError("LabelEncoder", "Save")
	}

	data, err := json.MarshalIndent(encoderArtifact{Classes: e.classes}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "label encoder: marshal mapping")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "label encoder: write mapping")
	}
	return nil
}

// LoadLabelEncoder reads a mapping previously written by Save and returns a
// fitted encoder.
func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "label encoder: read mapping")
	}

	var artifact encoderArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrap(err, "label encoder: unmarshal mapping")
	}

	e := NewLabelEncoder()
	e.codeOf = make(map[string]int, len(artifact.Classes))
	for i, c := range artifact.Classes {
		if _, dup := e.codeOf[c]; dup {
			return nil, hperrors.NewValueError("LoadLabelEncoder",
				fmt.Sprintf("duplicate category %q in mapping file", c))
		}
		e.codeOf[c] = i
	}
	e.classes = artifact.Classes
	e.state.SetFitted()
	return e, nil
}
