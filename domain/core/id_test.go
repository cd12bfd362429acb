package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestParseExperimentID tests experiment ID parsing
func TestParseExperimentID(t *testing.T) {
	tests := []struct {
		input    string
		expected ExperimentID
		hasError bool
	}{
		{"valid-id", ExperimentID("valid-id"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExperimentID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseExperimentID(%q) expected error, got none", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseExperimentID(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseExperimentID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

// TestErrorTaxonomy verifies the sentinel error wrapping helpers
func TestErrorTaxonomy(t *testing.T) {
	if !IsInvalidInputError(ErrZeroTrials) {
		t.Error("ErrZeroTrials should be an invalid-input error")
	}
	if !IsInvalidInputError(ErrZeroDelta) {
		t.Error("ErrZeroDelta should be an invalid-input error")
	}
	if !IsInvalidInputError(NewInvalidInputError("successes", "must be non-negative")) {
		t.Error("NewInvalidInputError should wrap ErrInvalidInput")
	}
	if !IsNumericDomainError(NewNumericDomainError("alpha", 1.5)) {
		t.Error("NewNumericDomainError should wrap ErrNumericDomain")
	}
	if IsInvalidInputError(NewNumericDomainError("alpha", 1.5)) {
		t.Error("numeric-domain errors should not match the invalid-input class")
	}
	if !IsNotFoundError(ErrExperimentNotFound) {
		t.Error("ErrExperimentNotFound should be a not-found error")
	}
	if !IsNotFoundError(ErrResultNotFound) {
		t.Error("ErrResultNotFound should be a not-found error")
	}
}
