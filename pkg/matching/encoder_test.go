package matching

import (
	"math"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestEncodeFullRecord(t *testing.T) {
	record := PatientRecord{
		UserType:              "patient",
		MgmtStatus:            "methylated",
		IdhStatus:             "mutant",
		AgeAtDiagnosis:        intPtr(45),
		KarnofskyScore:        intPtr(80),
		CurrentTreatmentPhase: "adjuvant_chemotherapy",
		TimeSinceDiagnosis:    "6_months",
	}

	vec := Encode(record)
	want := FeatureVector{
		MgmtStatus:         2,
		IdhStatus:          2,
		AgeBracket:         2,
		KpsScore:           0.8,
		TreatmentPhase:     0.5,
		TimeSinceDiagnosis: 0.6,
		UserType:           0,
	}
	if vec != want {
		t.Fatalf("unexpected encoding: got %+v want %+v", vec, want)
	}
}

func TestEncodeEmptyRecordUsesDefaults(t *testing.T) {
	vec := Encode(PatientRecord{})
	want := FeatureVector{KpsScore: 0.5}
	if vec != want {
		t.Fatalf("unexpected default encoding: got %+v want %+v", vec, want)
	}
}

func TestEncodeIsTotal(t *testing.T) {
	records := []PatientRecord{
		{MgmtStatus: "METHYLATED"}, // wrong case is unknown
		{IdhStatus: "something-else"},
		{AgeAtDiagnosis: intPtr(-3)},
		{AgeAtDiagnosis: intPtr(200)},
		{KarnofskyScore: intPtr(0)},
		{KarnofskyScore: intPtr(250)},
		{CurrentTreatmentPhase: "Adjuvant_Chemotherapy"},
		{TimeSinceDiagnosis: "decade"},
		{UserType: "clinician"},
	}

	for i, record := range records {
		vec := Encode(record)
		for j, value := range vec.Values() {
			if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
				t.Fatalf("record %d feature %s encoded to %v", i, FeatureNames[j], value)
			}
		}
	}
}

func TestEncodeAgeBrackets(t *testing.T) {
	cases := []struct {
		age  int
		want float64
	}{
		{18, 1},
		{39, 1},
		{40, 2},
		{54, 2},
		{55, 3},
		{69, 3},
		{70, 4},
		{120, 4},
	}
	for _, tc := range cases {
		vec := Encode(PatientRecord{AgeAtDiagnosis: intPtr(tc.age)})
		if vec.AgeBracket != tc.want {
			t.Fatalf("age %d: got bracket %v want %v", tc.age, vec.AgeBracket, tc.want)
		}
	}
}

func TestEncodeTreatmentPhaseOrdinal(t *testing.T) {
	for i, phase := range TreatmentPhases {
		vec := Encode(PatientRecord{CurrentTreatmentPhase: phase})
		want := float64(i+1) / float64(len(TreatmentPhases))
		if vec.TreatmentPhase != want {
			t.Fatalf("phase %s: got %v want %v", phase, vec.TreatmentPhase, want)
		}
	}
}

func TestSharedAttributes(t *testing.T) {
	a := Encode(PatientRecord{
		MgmtStatus:            "methylated",
		IdhStatus:             "wildtype",
		AgeAtDiagnosis:        intPtr(50),
		CurrentTreatmentPhase: "maintenance",
	})
	b := Encode(PatientRecord{
		MgmtStatus:            "methylated",
		IdhStatus:             "mutant",
		AgeAtDiagnosis:        intPtr(48),
		CurrentTreatmentPhase: "maintenance",
	})

	shared := SharedAttributes(a, b)
	want := map[string]bool{"mgmt_status": true, "age_bracket": true, "treatment_phase": true}
	if len(shared) != len(want) {
		t.Fatalf("expected %d shared attributes, got %v", len(want), shared)
	}
	for _, name := range shared {
		if !want[name] {
			t.Fatalf("unexpected shared attribute %q", name)
		}
	}
}

func TestSharedAttributesIgnoresDefaults(t *testing.T) {
	// Two empty records agree on every feature, but only because everything
	// is unknown; nothing should be reported as shared.
	shared := SharedAttributes(Encode(PatientRecord{}), Encode(PatientRecord{}))
	if len(shared) != 0 {
		t.Fatalf("expected no shared attributes, got %v", shared)
	}
}
