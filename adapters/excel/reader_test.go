package excel

import (
	"os"
	"path/filepath"
	"testing"

	"goab/domain/core"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "variations.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestReadVariationsCSV(t *testing.T) {
	path := writeTempCSV(t, "variation,successes,trials\ncontrol,127,5734\ntreatment,174,5851\n")

	variations, err := NewDataReader(path).ReadVariations("")
	if err != nil {
		t.Fatalf("ReadVariations: %v", err)
	}

	if len(variations) != 2 {
		t.Fatalf("expected 2 variations, got %d", len(variations))
	}
	if variations[0].Key != core.VariationKey("control") {
		t.Errorf("first key = %s, want control", variations[0].Key)
	}
	if variations[0].Obs.Successes != 127 || variations[0].Obs.Trials != 5734 {
		t.Errorf("control counts = %+v, want 127/5734", variations[0].Obs)
	}
	if variations[1].Obs.Successes != 174 || variations[1].Obs.Trials != 5851 {
		t.Errorf("treatment counts = %+v, want 174/5851", variations[1].Obs)
	}
}

func TestReadVariationsSkipsBlankLines(t *testing.T) {
	path := writeTempCSV(t, "variation,successes,trials\ncontrol,10,100\n\ntreatment,12,100\n")

	variations, err := NewDataReader(path).ReadVariations("")
	if err != nil {
		t.Fatalf("ReadVariations: %v", err)
	}
	if len(variations) != 2 {
		t.Errorf("expected 2 variations, got %d", len(variations))
	}
}

func TestReadVariationsRejectsBadRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"non-integer successes", "variation,successes,trials\ncontrol,abc,100\n"},
		{"non-integer trials", "variation,successes,trials\ncontrol,10,xyz\n"},
		{"missing columns", "variation,successes,trials\ncontrol,10\n"},
		{"zero trials", "variation,successes,trials\ncontrol,0,0\n"},
		{"successes exceed trials", "variation,successes,trials\ncontrol,101,100\n"},
		{"header only", "variation,successes,trials\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.content)
			_, err := NewDataReader(path).ReadVariations("")
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if !core.IsInvalidInputError(err) {
				t.Errorf("expected invalid-input error, got %v", err)
			}
		})
	}
}

func TestReadVariationsMissingFile(t *testing.T) {
	_, err := NewDataReader("/nonexistent/variations.csv").ReadVariations("")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
