package matching

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWeightsValid(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}
}

func TestLoadWeightsEmptyPath(t *testing.T) {
	weights, err := LoadWeights("")
	if err != nil {
		t.Fatalf("empty path should not error: %v", err)
	}
	if weights != DefaultWeights() {
		t.Fatalf("expected defaults, got %+v", weights)
	}
}

func TestLoadWeightsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := []byte(`weights:
  mgmt_status: 2.0
  idh_status: 1.5
  age_bracket: 0.7
  kps_score: 0.6
  treatment_phase: 0.5
  time_since_diagnosis: 0.4
  user_type: 0.1
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write weights file: %v", err)
	}

	weights, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("LoadWeights failed: %v", err)
	}
	if weights.MgmtStatus != 2.0 || weights.UserType != 0.1 {
		t.Fatalf("weights not loaded from file: %+v", weights)
	}
}

func TestLoadWeightsRejectsNonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := []byte(`weights:
  mgmt_status: 0
  idh_status: 1.0
  age_bracket: 0.7
  kps_score: 0.6
  treatment_phase: 0.5
  time_since_diagnosis: 0.4
  user_type: 0.3
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write weights file: %v", err)
	}

	weights, err := LoadWeights(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if weights != DefaultWeights() {
		t.Fatalf("invalid file should fall back to defaults, got %+v", weights)
	}
}

func TestLoadWeightsMissingFile(t *testing.T) {
	weights, err := LoadWeights(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected read error")
	}
	if weights != DefaultWeights() {
		t.Fatalf("missing file should fall back to defaults, got %+v", weights)
	}
}
