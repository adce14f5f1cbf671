package model

import "testing"

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()

	if s.IsFitted() {
		t.Errorf("new StateManager must not be fitted")
	}

	s.SetNFeatures(12)
	s.SetFitted()

	if !s.IsFitted() {
		t.Errorf("expected fitted after SetFitted")
	}
	if got := s.NFeatures(); got != 12 {
		t.Errorf("NFeatures: expected 12, got %d", got)
	}

	s.Reset()
	if s.IsFitted() {
		t.Errorf("expected unfitted after Reset")
	}
	if got := s.NFeatures(); got != 0 {
		t.Errorf("NFeatures after Reset: expected 0, got %d", got)
	}
}
