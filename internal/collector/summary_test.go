package collector

import (
	"testing"

	"github.com/martynrees/airrm-report/internal/models"
)

func TestSummarizeEmptyInput(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalBuildings != 0 || summary.AverageHealthScore != 0 {
		t.Errorf("empty input should yield the zero summary, got %+v", summary)
	}
	if summary.GeneratedAt != "" {
		t.Errorf("empty input should not stamp a generation time")
	}
}

func TestSummarizeCountsBuildingsById(t *testing.T) {
	records := []models.MetricRecord{
		{BuildingId: "b-1", BuildingName: "Wing A", Band: models.Band24, HealthScore: 80},
		{BuildingId: "b-1", BuildingName: "Wing A", Band: models.Band5, HealthScore: 90},
		// distinct site sharing a display name still counts separately
		{BuildingId: "b-2", BuildingName: "Wing A", Band: models.Band5, HealthScore: 70},
	}

	summary := Summarize(records)
	if summary.TotalBuildings != 2 {
		t.Errorf("TotalBuildings: got %d, want 2", summary.TotalBuildings)
	}
}

func TestSummarizeFlaggedByIdentity(t *testing.T) {
	records := []models.MetricRecord{
		{BuildingId: "b-1", Band: models.Band24, HasIssues: true},
		{BuildingId: "b-1", Band: models.Band5, HasIssues: true},
		{BuildingId: "b-2", Band: models.Band24, HasIssues: false},
	}

	summary := Summarize(records)
	if summary.BuildingsWithIssues != 1 {
		t.Errorf("BuildingsWithIssues: got %d, want 1", summary.BuildingsWithIssues)
	}
}

func TestSummarizeSums(t *testing.T) {
	records := []models.MetricRecord{
		{BuildingId: "b-1", Band: models.Band24, ApCount: 12, ClientCount: 45,
			Advisories: []models.Advisory{{Type: "a"}, {Type: "b"}}},
		{BuildingId: "b-1", Band: models.Band5, ApCount: 8, ClientCount: 34,
			Advisories: []models.Advisory{{Type: "c"}}},
	}

	summary := Summarize(records)
	if summary.TotalAps != 20 {
		t.Errorf("TotalAps: got %d, want 20", summary.TotalAps)
	}
	if summary.TotalClients != 79 {
		t.Errorf("TotalClients: got %d, want 79", summary.TotalClients)
	}
	if summary.TotalAdvisories != 3 {
		t.Errorf("TotalAdvisories: got %d, want 3", summary.TotalAdvisories)
	}
}

func TestSummarizeAverageHealth(t *testing.T) {
	records := []models.MetricRecord{
		{BuildingId: "b-1", Band: models.Band24, HealthScore: 85.5},
		{BuildingId: "b-1", Band: models.Band5, HealthScore: 65.2},
		{BuildingId: "b-1", Band: models.Band6, HealthScore: 72.8},
	}

	summary := Summarize(records)
	want := 74.5 // (85.5 + 65.2 + 72.8) / 3, rounded to two decimals
	if summary.AverageHealthScore != want {
		t.Errorf("AverageHealthScore: got %.2f, want %.2f", summary.AverageHealthScore, want)
	}
	if summary.GeneratedAt == "" {
		t.Errorf("summary should carry a generation timestamp")
	}
}

func TestSummarizeRounding(t *testing.T) {
	records := []models.MetricRecord{
		{BuildingId: "b-1", Band: models.Band24, HealthScore: 70},
		{BuildingId: "b-1", Band: models.Band5, HealthScore: 70},
		{BuildingId: "b-1", Band: models.Band6, HealthScore: 71},
	}

	summary := Summarize(records)
	if summary.AverageHealthScore != 70.33 {
		t.Errorf("AverageHealthScore: got %v, want 70.33", summary.AverageHealthScore)
	}
}
