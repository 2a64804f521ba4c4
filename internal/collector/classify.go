package collector

import (
	"github.com/martynrees/airrm-report/internal/models"
)

// Thresholds are the issue-classification knobs. They are supplied per
// invocation so a record can be reclassified after the fact.
type Thresholds struct {
	Health  float64
	Changes int
}

// DefaultThresholds returns the stock classification policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Health:  70.0,
		Changes: 100,
	}
}

// Classify reports whether a record requires operator attention. The
// three signals are independent and any one is sufficient: health
// below threshold, any advisory present, or optimization changes
// above threshold. Pure and idempotent.
func Classify(rec *models.MetricRecord, th Thresholds) bool {
	return rec.HealthScore < th.Health ||
		len(rec.Advisories) > 0 ||
		rec.RrmChanges > th.Changes
}
