package collector

import (
	"math"
	"time"

	"github.com/martynrees/airrm-report/internal/models"
)

// Summarize computes the executive overview across a full record set.
// Building counts are by id, not display name, so duplicate names
// across distinct sites still count separately. The mean health score
// is unweighted across records and rounded to two decimals. An empty
// record set yields the zero summary.
func Summarize(records []models.MetricRecord) models.AggregateSummary {
	if len(records) == 0 {
		return models.AggregateSummary{}
	}

	buildings := make(map[string]bool)
	flagged := make(map[string]bool)

	summary := models.AggregateSummary{}
	healthTotal := 0.0

	for _, rec := range records {
		buildings[rec.BuildingId] = true
		if rec.HasIssues {
			flagged[rec.BuildingId] = true
		}

		summary.TotalAps += rec.ApCount
		summary.TotalClients += rec.ClientCount
		summary.TotalAdvisories += len(rec.Advisories)
		healthTotal += rec.HealthScore
	}

	summary.TotalBuildings = len(buildings)
	summary.BuildingsWithIssues = len(flagged)
	summary.AverageHealthScore = round2(healthTotal / float64(len(records)))
	summary.GeneratedAt = time.Now().Format(time.RFC3339)

	return summary
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
