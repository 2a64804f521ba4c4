package models

import (
	"time"
)

// Band is a radio frequency band as numbered by the AI-RRM APIs
// (2 = 2.4 GHz, 5 = 5 GHz, 6 = 6 GHz).
type Band int

const (
	Band24 Band = 2
	Band5  Band = 5
	Band6  Band = 6
)

// AllBands lists every supported band in ascending order. Callers that
// iterate bands must keep this order so advisory deduplication stays
// deterministic.
var AllBands = []Band{Band24, Band5, Band6}

// Label returns the display label for the band (e.g. "2.4 GHz").
func (b Band) Label() string {
	switch b {
	case Band24:
		return "2.4 GHz"
	case Band5:
		return "5 GHz"
	case Band6:
		return "6 GHz"
	}
	return "unknown"
}

// Site is one canonical building entry resolved from the floor-level
// site hierarchy. Floors are discarded after resolution.
type Site struct {
	Id        string `json:"instanceUUID"`
	Name      string `json:"name"`
	Hierarchy string `json:"groupNameHierarchy"`
	Profile   string `json:"aiRfProfileName"`
}

// Advisory is one AI-generated observation for a (building, band)
// pair. It has no identity beyond its type and content.
type Advisory struct {
	Seq         uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	BuildingId  string  `gorm:"index" json:"-"`
	Band        Band    `json:"-"`
	Type        string  `json:"insightType"`
	Value       float64 `json:"insightValue"`
	Description string  `json:"description"`
	Reason      string  `json:"reason"`
}

// MetricRecord holds everything collected for one (building, band)
// pair. One record exists per pair per collection run, even when no
// telemetry was available for it.
type MetricRecord struct {
	BuildingId string `gorm:"primaryKey" json:"building_id"`
	Band       Band   `gorm:"primaryKey" json:"frequency_band"`

	BuildingName string `json:"building_name"`
	Hierarchy    string `json:"building_hierarchy"`
	Profile      string `json:"profile_name"`

	// Coverage facet
	ApCount     int `json:"ap_count"`
	ClientCount int `json:"client_count"`

	// Performance facet
	HealthScore float64 `json:"rrm_health_score"`
	RrmChanges  int     `json:"rrm_changes"`

	// CoverageKnown and PerformanceKnown record whether the facet was
	// actually fetched. They are what lets a renderer tell a real zero
	// from a default left by a failed fetch.
	CoverageKnown    bool `json:"coverage_known"`
	PerformanceKnown bool `json:"performance_known"`

	Advisories []Advisory `gorm:"foreignKey:BuildingId,Band;references:BuildingId,Band" json:"insights"`

	Timestamp string `json:"timestamp"`
	HasIssues bool   `json:"has_issues"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Key identifies the record within one collection run.
func (m *MetricRecord) Key() string {
	return m.BuildingId + "/" + m.Band.Label()
}

// AggregateSummary is the executive overview computed once per
// collection run.
type AggregateSummary struct {
	Seq                 uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	TotalBuildings      int     `json:"total_buildings"`
	BuildingsWithIssues int     `json:"buildings_with_issues"`
	TotalAps            int     `json:"total_aps"`
	TotalClients        int     `json:"total_clients"`
	TotalAdvisories     int     `json:"total_insights"`
	AverageHealthScore  float64 `json:"average_health_score"`
	GeneratedAt         string  `json:"collection_timestamp"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
