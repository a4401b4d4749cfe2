package matching

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/we4us/platform/pkg/common/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeDirectory struct {
	order      []uuid.UUID
	records    map[uuid.UUID]PatientRecord
	consent    map[uuid.UUID]bool
	names      map[uuid.UUID]string
	listCalled int
}

func (f *fakeDirectory) GetPatientRecord(ctx context.Context, userID uuid.UUID) (PatientRecord, error) {
	record, ok := f.records[userID]
	if !ok {
		return PatientRecord{}, ErrNotFound
	}
	return record, nil
}

// ListConsentingCandidates pages the pool in insertion order and honors the
// offset/limit window the same way the real repository does.
func (f *fakeDirectory) ListConsentingCandidates(ctx context.Context, excludeUserID uuid.UUID, offset, limit int) ([]CandidateRecord, error) {
	f.listCalled++

	var pool []CandidateRecord
	for _, id := range f.order {
		if id == excludeUserID {
			continue
		}
		pool = append(pool, CandidateRecord{UserID: id, Record: f.records[id], Consent: f.consent[id]})
	}

	if offset >= len(pool) {
		return nil, nil
	}
	pool = pool[offset:]
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

func (f *fakeDirectory) GetDisplayInfo(ctx context.Context, userID uuid.UUID) (DisplayInfo, error) {
	name, ok := f.names[userID]
	if !ok {
		return DisplayInfo{}, errors.New("no display info")
	}
	return DisplayInfo{Name: name, CurrentPhase: f.records[userID].CurrentTreatmentPhase}, nil
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		records: make(map[uuid.UUID]PatientRecord),
		consent: make(map[uuid.UUID]bool),
		names:   make(map[uuid.UUID]string),
	}
}

func (f *fakeDirectory) add(record PatientRecord, consent bool, name string) uuid.UUID {
	id := uuid.New()
	f.order = append(f.order, id)
	f.records[id] = record
	f.consent[id] = consent
	f.names[id] = name
	return id
}

func newTestService(dir *fakeDirectory) *Service {
	return NewService(dir, NewEngine(DefaultWeights()), nil, 10, 1000)
}

func TestGetMatchesRequesterWithoutRecord(t *testing.T) {
	service := newTestService(newFakeDirectory())

	_, err := service.GetMatches(context.Background(), uuid.New(), 5)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMatchesRanksAndTruncates(t *testing.T) {
	dir := newFakeDirectory()
	base := PatientRecord{
		MgmtStatus:            "methylated",
		IdhStatus:             "mutant",
		AgeAtDiagnosis:        intPtr(48),
		CurrentTreatmentPhase: "maintenance",
	}
	requester := dir.add(base, true, "Requester")

	twin := dir.add(base, true, "Twin")
	for i := 0; i < 9; i++ {
		dir.add(PatientRecord{MgmtStatus: "unmethylated", IdhStatus: "wildtype"}, true, "Other")
	}

	views, err := newTestService(dir).GetMatches(context.Background(), requester, 3)
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(views))
	}
	if views[0].UserID != twin {
		t.Fatalf("expected twin ranked first, got %s", views[0].Name)
	}
	if views[0].Name != "Twin" {
		t.Fatalf("expected resolved name, got %q", views[0].Name)
	}
	if views[0].Similarity < 0.99 {
		t.Fatalf("twin similarity = %v, want ~1", views[0].Similarity)
	}
	if views[0].Phase != "Maintenance" {
		t.Fatalf("expected phase label Maintenance, got %q", views[0].Phase)
	}
}

func TestGetMatchesExcludesNonConsenting(t *testing.T) {
	dir := newFakeDirectory()
	record := PatientRecord{MgmtStatus: "methylated"}
	requester := dir.add(record, true, "Requester")
	dir.add(record, false, "Private")
	visible := dir.add(record, true, "Visible")

	views, err := newTestService(dir).GetMatches(context.Background(), requester, 10)
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 match, got %d", len(views))
	}
	if views[0].UserID != visible {
		t.Fatal("non-consenting user leaked into matches")
	}
}

func TestGetMatchesEmptyPool(t *testing.T) {
	dir := newFakeDirectory()
	requester := dir.add(PatientRecord{MgmtStatus: "methylated"}, true, "Alone")

	views, err := newTestService(dir).GetMatches(context.Background(), requester, 5)
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty result, got %d", len(views))
	}
}

func TestGetMatchesCoercesLimit(t *testing.T) {
	dir := newFakeDirectory()
	record := PatientRecord{MgmtStatus: "methylated"}
	requester := dir.add(record, true, "Requester")
	for i := 0; i < 15; i++ {
		dir.add(record, true, "Peer")
	}

	service := NewService(dir, NewEngine(DefaultWeights()), nil, 10, 1000)
	views, err := service.GetMatches(context.Background(), requester, 0)
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if len(views) != 10 {
		t.Fatalf("limit 0 should coerce to default 10, got %d", len(views))
	}
}

// The whole consenting pool is scored, not just the first directory page: a
// perfect match created after a full page of weak candidates must still rank
// first.
func TestGetMatchesScoresFullPool(t *testing.T) {
	dir := newFakeDirectory()
	base := PatientRecord{
		MgmtStatus:            "methylated",
		IdhStatus:             "mutant",
		AgeAtDiagnosis:        intPtr(48),
		KarnofskyScore:        intPtr(90),
		CurrentTreatmentPhase: "maintenance",
		TimeSinceDiagnosis:    "6_months",
	}
	requester := dir.add(base, true, "Requester")

	// Two full pages of weak candidates come first in the stable order.
	for i := 0; i < 4; i++ {
		dir.add(PatientRecord{MgmtStatus: "unmethylated", IdhStatus: "wildtype"}, true, "Weak")
	}
	twin := dir.add(base, true, "Twin")

	service := NewService(dir, NewEngine(DefaultWeights()), nil, 10, 2)
	views, err := service.GetMatches(context.Background(), requester, 3)
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if dir.listCalled < 3 {
		t.Fatalf("expected the pool to be read in multiple pages, got %d reads", dir.listCalled)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(views))
	}
	if views[0].UserID != twin {
		t.Fatalf("perfect match beyond the first page was not ranked first, got %q", views[0].Name)
	}
	if views[0].Similarity < 0.99 {
		t.Fatalf("twin similarity = %v, want ~1", views[0].Similarity)
	}
}

func TestGetMatchesFallbackName(t *testing.T) {
	dir := newFakeDirectory()
	record := PatientRecord{MgmtStatus: "methylated"}
	requester := dir.add(record, true, "Requester")

	// Candidate with no display info at all.
	anon := uuid.New()
	dir.order = append(dir.order, anon)
	dir.records[anon] = record
	dir.consent[anon] = true

	views, err := newTestService(dir).GetMatches(context.Background(), requester, 5)
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 match, got %d", len(views))
	}
	if views[0].Name != "Community member" {
		t.Fatalf("expected fallback name, got %q", views[0].Name)
	}
}

func TestPhaseLabel(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"maintenance":           "Maintenance",
		"adjuvant_chemotherapy": "Adjuvant chemotherapy",
	}
	for in, want := range cases {
		if got := PhaseLabel(in); got != want {
			t.Fatalf("PhaseLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
