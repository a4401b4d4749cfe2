package journal

import (
	"sort"

	"github.com/we4us/platform/pkg/common/models"
)

// ComputeTrends turns a set of check-ins into a dated series plus period
// averages. Points come back in ascending date order regardless of input
// order. With no check-ins the averages are nil so clients can tell "no
// data" from "all zeros".
func ComputeTrends(checkins []Checkin, periodDays int) models.SymptomTrends {
	trends := models.SymptomTrends{Period: periodDays}
	if len(checkins) == 0 {
		trends.Trends = []models.SymptomTrendPoint{}
		return trends
	}

	points := make([]models.SymptomTrendPoint, 0, len(checkins))
	var energy, pain, mood, clarity int
	for _, c := range checkins {
		points = append(points, models.SymptomTrendPoint{
			Date:             c.Date,
			EnergyLevel:      c.EnergyLevel,
			PainLevel:        c.PainLevel,
			MoodLevel:        c.MoodLevel,
			CognitiveClarity: c.CognitiveClarity,
		})
		energy += c.EnergyLevel
		pain += c.PainLevel
		mood += c.MoodLevel
		clarity += c.CognitiveClarity
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	n := float64(len(checkins))
	trends.Trends = points
	trends.Averages = &models.SymptomAverages{
		EnergyLevel:      round1(float64(energy) / n),
		PainLevel:        round1(float64(pain) / n),
		MoodLevel:        round1(float64(mood) / n),
		CognitiveClarity: round1(float64(clarity) / n),
	}
	return trends
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
