package matching

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Weights are the per-feature multipliers applied before similarity is
// computed. They are loaded once at startup and immutable at runtime.
// Molecular markers carry the heaviest weight because they most strongly
// shape prognosis and treatment-response similarity.
type Weights struct {
	MgmtStatus         float64 `yaml:"mgmt_status"`
	IdhStatus          float64 `yaml:"idh_status"`
	AgeBracket         float64 `yaml:"age_bracket"`
	KpsScore           float64 `yaml:"kps_score"`
	TreatmentPhase     float64 `yaml:"treatment_phase"`
	TimeSinceDiagnosis float64 `yaml:"time_since_diagnosis"`
	UserType           float64 `yaml:"user_type"`
}

func DefaultWeights() Weights {
	return Weights{
		MgmtStatus:         1.0,
		IdhStatus:          1.0,
		AgeBracket:         0.7,
		KpsScore:           0.6,
		TreatmentPhase:     0.5,
		TimeSinceDiagnosis: 0.4,
		UserType:           0.3,
	}
}

func (w Weights) Values() [NumFeatures]float64 {
	return [NumFeatures]float64{
		w.MgmtStatus,
		w.IdhStatus,
		w.AgeBracket,
		w.KpsScore,
		w.TreatmentPhase,
		w.TimeSinceDiagnosis,
		w.UserType,
	}
}

func (w Weights) Validate() error {
	for i, v := range w.Values() {
		if v <= 0 {
			return fmt.Errorf("weight %s must be positive, got %v", FeatureNames[i], v)
		}
	}
	return nil
}

type weightsFile struct {
	Weights Weights `yaml:"weights"`
}

// LoadWeights reads a weight override file. An empty path returns the
// defaults; a file that cannot be read or fails validation also falls back
// to defaults with the error returned so the caller can log it.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultWeights(), err
	}

	var cfg weightsFile
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return DefaultWeights(), err
	}

	if err := cfg.Weights.Validate(); err != nil {
		return DefaultWeights(), err
	}

	return cfg.Weights, nil
}
