// Package model provides the core abstractions shared by every estimator in
// houseprice: fitted-state tracking and the uniform regressor capability that
// lets the ensemble evaluator and the single-record predictor treat all models
// polymorphically.
package model

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Regressor is the uniform capability implemented by every trainable model.
// Fit learns from a feature matrix X (n_samples x n_features) and a target
// column vector y (n_samples x 1). Predict returns an (n_samples x 1) column
// of predictions.
type Regressor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// FeatureImporter is implemented by models that can report per-feature
// importance scores. Scores are normalized to sum to 1.
type FeatureImporter interface {
	FeatureImportances() []float64
}

// StateManager tracks whether an estimator has been fitted. Estimators embed
// a pointer to it and consult IsFitted before predicting or transforming.
type StateManager struct {
	mu     sync.RWMutex
	fitted bool

	// nFeatures is the feature count learned during Fit, 0 until fitted.
	nFeatures int
}

// NewStateManager returns an unfitted StateManager.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether SetFitted has been called.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the estimator as trained.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
}

// Reset returns the estimator to the untrained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nFeatures = 0
}

// SetNFeatures records the feature count learned during Fit.
func (s *StateManager) SetNFeatures(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nFeatures = n
}

// NFeatures returns the feature count learned during Fit.
func (s *StateManager) NFeatures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures
}
