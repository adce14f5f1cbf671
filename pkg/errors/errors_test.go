package errors_test

import (
	"errors"
	"fmt"
	"testing"

	hperrors "github.com/ezoic/houseprice/pkg/errors"
)

func TestNotFittedErrorWrapping(t *testing.T) {
	original := hperrors.NewNotFittedError("RandomForestRegressor", "Predict")
	wrapped := fmt.Errorf("pipeline step failed: %w", original)

	if !errors.Is(wrapped, original) {
		t.Errorf("errors.Is failed to identify wrapped error")
	}
	if !errors.Is(wrapped, hperrors.ErrNotFitted) {
		t.Errorf("errors.Is failed to identify ErrNotFitted sentinel")
	}

	var notFitted *hperrors.NotFittedError
	if !errors.As(wrapped, &notFitted) {
		t.Fatalf("errors.As failed to extract NotFittedError")
	}
	if notFitted.ModelName != "RandomForestRegressor" {
		t.Errorf("expected ModelName 'RandomForestRegressor', got %q", notFitted.ModelName)
	}
	if notFitted.Method != "Predict" {
		t.Errorf("expected Method 'Predict', got %q", notFitted.Method)
	}
}

func TestDimensionErrorFields(t *testing.T) {
	dimErr := hperrors.NewDimensionError("StandardScaler.Transform", 5, 3, 1)
	wrapped := fmt.Errorf("scaling failed: %w", dimErr)

	var dimensionErr *hperrors.DimensionError
	if !errors.As(wrapped, &dimensionErr) {
		t.Fatalf("errors.As failed to extract DimensionError")
	}
	if dimensionErr.Expected != 5 || dimensionErr.Got != 3 || dimensionErr.Axis != 1 {
		t.Errorf("unexpected fields: %+v", dimensionErr)
	}
	if !errors.Is(wrapped, hperrors.ErrDimensionMismatch) {
		t.Errorf("errors.Is failed to identify ErrDimensionMismatch sentinel")
	}
}

func TestValueError(t *testing.T) {
	valErr := hperrors.NewValueError("LabelEncoder.Transform", "unknown category \"Ranch\"")

	var ve *hperrors.ValueError
	if !errors.As(valErr, &ve) {
		t.Fatalf("errors.As failed to extract ValueError")
	}
	if ve.Op != "LabelEncoder.Transform" {
		t.Errorf("expected Op 'LabelEncoder.Transform', got %q", ve.Op)
	}
}

func TestModelErrorChain(t *testing.T) {
	stdErr := fmt.Errorf("csv parse failure")
	modelErr := hperrors.NewModelError("Dataset.Load", "cleaning failed", stdErr)
	wrapped := fmt.Errorf("training aborted: %w", modelErr)

	if !errors.Is(wrapped, stdErr) {
		t.Errorf("failed to find underlying error in chain")
	}

	var me *hperrors.ModelError
	if !errors.As(wrapped, &me) {
		t.Fatalf("failed to extract ModelError")
	}
	if me.Unwrap() != stdErr {
		t.Errorf("ModelError.Unwrap() didn't return the wrapped error")
	}
}

func TestSentinelErrors(t *testing.T) {
	err := hperrors.NewModelError("Clean", "empty table", hperrors.ErrEmptyData)

	if !errors.Is(err, hperrors.ErrEmptyData) {
		t.Errorf("failed to identify ErrEmptyData sentinel")
	}

	wrapped := fmt.Errorf("preprocessing failed: %w", err)
	if !errors.Is(wrapped, hperrors.ErrEmptyData) {
		t.Errorf("failed to identify ErrEmptyData through wrapper")
	}
}

func TestRecoverConvertsPanic(t *testing.T) {
	run := func() (err error) {
		defer hperrors.Recover(&err, "GradientBoostingRegressor.Fit")
		panic(fmt.Errorf("index out of range"))
	}

	err := run()
	if err == nil {
		t.Fatalf("expected error from recovered panic, got nil")
	}

	var me *hperrors.ModelError
	if !errors.As(err, &me) {
		t.Fatalf("expected ModelError, got %T", err)
	}
	if me.Op != "GradientBoostingRegressor.Fit" {
		t.Errorf("expected op to carry through, got %q", me.Op)
	}
}

func ExampleNewModelError() {
	err := hperrors.NewModelError("Ensemble", "averaging failure", hperrors.ErrNotImplemented)
	fmt.Println(err)
	// Output: goml: Ensemble: averaging failure: not implemented
}
