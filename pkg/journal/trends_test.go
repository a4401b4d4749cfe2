package journal

import "testing"

func TestComputeTrendsEmpty(t *testing.T) {
	trends := ComputeTrends(nil, 30)
	if trends.Period != 30 {
		t.Fatalf("period = %d, want 30", trends.Period)
	}
	if trends.Averages != nil {
		t.Fatal("expected nil averages with no check-ins")
	}
	if len(trends.Trends) != 0 {
		t.Fatalf("expected empty series, got %d points", len(trends.Trends))
	}
}

func TestComputeTrendsAveragesAndOrder(t *testing.T) {
	checkins := []Checkin{
		{Date: "2026-08-30", EnergyLevel: 6, PainLevel: 2, MoodLevel: 8, CognitiveClarity: 7},
		{Date: "2026-08-28", EnergyLevel: 4, PainLevel: 4, MoodLevel: 6, CognitiveClarity: 5},
		{Date: "2026-08-29", EnergyLevel: 5, PainLevel: 3, MoodLevel: 7, CognitiveClarity: 6},
	}

	trends := ComputeTrends(checkins, 7)
	if len(trends.Trends) != 3 {
		t.Fatalf("expected 3 points, got %d", len(trends.Trends))
	}
	for i := 1; i < len(trends.Trends); i++ {
		if trends.Trends[i-1].Date >= trends.Trends[i].Date {
			t.Fatalf("series not in ascending date order: %s before %s",
				trends.Trends[i-1].Date, trends.Trends[i].Date)
		}
	}

	if trends.Averages == nil {
		t.Fatal("expected averages")
	}
	if trends.Averages.EnergyLevel != 5 {
		t.Fatalf("energy average = %v, want 5", trends.Averages.EnergyLevel)
	}
	if trends.Averages.PainLevel != 3 {
		t.Fatalf("pain average = %v, want 3", trends.Averages.PainLevel)
	}
	if trends.Averages.MoodLevel != 7 {
		t.Fatalf("mood average = %v, want 7", trends.Averages.MoodLevel)
	}
}

func TestComputeTrendsRoundsAverages(t *testing.T) {
	checkins := []Checkin{
		{Date: "2026-08-29", EnergyLevel: 5, PainLevel: 1, MoodLevel: 1, CognitiveClarity: 1},
		{Date: "2026-08-30", EnergyLevel: 6, PainLevel: 2, MoodLevel: 1, CognitiveClarity: 2},
		{Date: "2026-08-31", EnergyLevel: 6, PainLevel: 2, MoodLevel: 2, CognitiveClarity: 2},
	}

	trends := ComputeTrends(checkins, 3)
	if trends.Averages.EnergyLevel != 5.7 {
		t.Fatalf("energy average = %v, want 5.7", trends.Averages.EnergyLevel)
	}
	if trends.Averages.PainLevel != 1.7 {
		t.Fatalf("pain average = %v, want 1.7", trends.Averages.PainLevel)
	}
	if trends.Averages.MoodLevel != 1.3 {
		t.Fatalf("mood average = %v, want 1.3", trends.Averages.MoodLevel)
	}
}
