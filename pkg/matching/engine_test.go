package matching

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func defaultEngine() *Engine {
	return NewEngine(DefaultWeights())
}

func TestSimilaritySelfIsOne(t *testing.T) {
	engine := defaultEngine()
	vec := Encode(PatientRecord{
		MgmtStatus:            "methylated",
		IdhStatus:             "wildtype",
		AgeAtDiagnosis:        intPtr(52),
		KarnofskyScore:        intPtr(90),
		CurrentTreatmentPhase: "maintenance",
		TimeSinceDiagnosis:    "1_year_plus",
	})

	score := engine.Similarity(vec, vec)
	if math.Abs(score-1) > 1e-9 {
		t.Fatalf("self similarity = %v, want 1", score)
	}
}

func TestSimilaritySymmetricAndBounded(t *testing.T) {
	engine := defaultEngine()
	u := Encode(PatientRecord{MgmtStatus: "methylated", IdhStatus: "mutant", KarnofskyScore: intPtr(70)})
	v := Encode(PatientRecord{MgmtStatus: "unmethylated", IdhStatus: "wildtype", KarnofskyScore: intPtr(90)})

	uv := engine.Similarity(u, v)
	vu := engine.Similarity(v, u)
	if math.Abs(uv-vu) > 1e-12 {
		t.Fatalf("similarity not symmetric: %v vs %v", uv, vu)
	}
	if uv < 0 || uv > 1 {
		t.Fatalf("similarity %v out of [0,1]", uv)
	}
}

func TestSimilarityZeroVector(t *testing.T) {
	engine := defaultEngine()
	var zero FeatureVector
	other := Encode(PatientRecord{MgmtStatus: "methylated"})

	if score := engine.Similarity(zero, other); score != 0 {
		t.Fatalf("zero vector similarity = %v, want 0", score)
	}
	if score := engine.Similarity(zero, zero); score != 0 {
		t.Fatalf("zero-zero similarity = %v, want 0", score)
	}
}

// A mismatch on a light feature must cost less than a mismatch on a heavy
// one, everything else equal.
func TestWeightOrdering(t *testing.T) {
	engine := defaultEngine()
	base := PatientRecord{
		MgmtStatus:            "methylated",
		IdhStatus:             "mutant",
		AgeAtDiagnosis:        intPtr(50),
		KarnofskyScore:        intPtr(80),
		CurrentTreatmentPhase: "maintenance",
		TimeSinceDiagnosis:    "6_months",
	}
	query := Encode(base)

	mgmtDiff := base
	mgmtDiff.MgmtStatus = "unmethylated"

	typeDiff := base
	typeDiff.UserType = "caregiver"

	heavyMiss := engine.Similarity(query, Encode(mgmtDiff))
	lightMiss := engine.Similarity(query, Encode(typeDiff))
	if lightMiss <= heavyMiss {
		t.Fatalf("user type mismatch (%v) should score above mgmt mismatch (%v)", lightMiss, heavyMiss)
	}
}

func TestTopKExclusions(t *testing.T) {
	engine := defaultEngine()
	requester := uuid.New()
	query := Encode(PatientRecord{MgmtStatus: "methylated", IdhStatus: "mutant"})

	candidates := []Candidate{
		{UserID: requester, Vector: query, Consent: true},
		{UserID: uuid.New(), Vector: query, Consent: false},
		{UserID: uuid.New(), Vector: query, Consent: true},
	}

	results := engine.TopK(query, requester, candidates, 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result after exclusions, got %d", len(results))
	}
	if results[0].UserID == requester {
		t.Fatal("requester must never appear in their own matches")
	}
}

func TestTopKLimitsAndOrder(t *testing.T) {
	engine := defaultEngine()
	requester := uuid.New()
	query := Encode(PatientRecord{
		MgmtStatus:            "methylated",
		IdhStatus:             "mutant",
		CurrentTreatmentPhase: "maintenance",
	})

	records := []PatientRecord{
		{MgmtStatus: "methylated", IdhStatus: "mutant", CurrentTreatmentPhase: "maintenance"},
		{MgmtStatus: "methylated", IdhStatus: "mutant"},
		{MgmtStatus: "methylated", IdhStatus: "wildtype"},
		{MgmtStatus: "unmethylated", IdhStatus: "wildtype"},
		{UserType: "caregiver"},
	}
	candidates := make([]Candidate, len(records))
	for i, record := range records {
		candidates[i] = Candidate{UserID: uuid.New(), Vector: Encode(record), Consent: true}
	}

	results := engine.TopK(query, requester, candidates, 3)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not sorted by score: %v before %v", results[i-1].Score, results[i].Score)
		}
	}
	if results[0].UserID != candidates[0].UserID {
		t.Fatal("identical candidate should rank first")
	}
}

func TestTopKLargerThanPool(t *testing.T) {
	engine := defaultEngine()
	query := Encode(PatientRecord{MgmtStatus: "methylated"})
	candidates := []Candidate{
		{UserID: uuid.New(), Vector: query, Consent: true},
		{UserID: uuid.New(), Vector: query, Consent: true},
	}

	results := engine.TopK(query, uuid.New(), candidates, 50)
	if len(results) != 2 {
		t.Fatalf("expected pool-size results, got %d", len(results))
	}
}

func TestTopKTieBreakDeterministic(t *testing.T) {
	engine := defaultEngine()
	query := Encode(PatientRecord{MgmtStatus: "methylated"})

	// All candidates are identical, so ordering can only come from the id
	// tie-break.
	candidates := make([]Candidate, 6)
	for i := range candidates {
		candidates[i] = Candidate{UserID: uuid.New(), Vector: query, Consent: true}
	}

	first := engine.TopK(query, uuid.New(), candidates, len(candidates))
	for trial := 0; trial < 5; trial++ {
		// Reverse the input order; output order must not change.
		reversed := make([]Candidate, len(candidates))
		for i := range candidates {
			reversed[i] = candidates[len(candidates)-1-i]
		}
		again := engine.TopK(query, uuid.New(), reversed, len(reversed))
		for i := range first {
			if first[i].UserID != again[i].UserID {
				t.Fatalf("tie-break not deterministic at position %d", i)
			}
		}
		candidates = reversed
	}

	for i := 1; i < len(first); i++ {
		if first[i-1].UserID.String() >= first[i].UserID.String() {
			t.Fatal("tied results not ordered by user id")
		}
	}
}

func TestTopKNonPositiveK(t *testing.T) {
	engine := defaultEngine()
	candidates := []Candidate{{UserID: uuid.New(), Vector: Encode(PatientRecord{MgmtStatus: "methylated"}), Consent: true}}

	if results := engine.TopK(FeatureVector{}, uuid.New(), candidates, 0); results != nil {
		t.Fatalf("k=0 should return nil, got %v", results)
	}
	if results := engine.TopK(FeatureVector{}, uuid.New(), candidates, -1); results != nil {
		t.Fatalf("negative k should return nil, got %v", results)
	}
}

func TestNewEngineRejectsInvalidWeights(t *testing.T) {
	bad := Weights{MgmtStatus: -1}
	engine := NewEngine(bad)
	if engine.weights != DefaultWeights() {
		t.Fatalf("invalid weights should fall back to defaults, got %+v", engine.weights)
	}
}
