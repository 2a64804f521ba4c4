package catalyst

import (
	"encoding/json"
	"log"
)

// Wire-format structs for the AI-RRM APIs. The remote payloads are
// loosely typed, so numeric fields decode as json.Number here and are
// converted to typed values before anything leaves this package.

// SiteHierarchyResponse is the airfprofilesitesinfo payload: profile
// groups, each carrying floor-level site entries.
type SiteHierarchyResponse struct {
	Response []ProfileGroup `json:"response"`
}

type ProfileGroup struct {
	ProfileName string      `json:"aiRfProfileName"`
	Sites       []SiteEntry `json:"associatedBuildings"`
}

// SiteEntry is one floor-level site as reported by the hierarchy API.
type SiteEntry struct {
	InstanceUUID string `json:"instanceUUID"`
	Name         string `json:"name"`
	Hierarchy    string `json:"groupNameHierarchy"`
}

// CoverageSummary is the decoded coverage facet for one
// (building, band) pair.
type CoverageSummary struct {
	ApCount     int
	ClientCount int
	Timestamp   string
}

// PerformanceSummary is the decoded performance facet for one
// (building, band) pair.
type PerformanceSummary struct {
	HealthScore float64
	RrmChanges  int
	Timestamp   string
}

type coverageNode struct {
	TotalApCount json.Number `json:"totalApCount"`
	TotalClients json.Number `json:"totalClients"`
	Timestamp    string      `json:"timestamp"`
}

type performanceNode struct {
	RrmHealthScore    json.Number `json:"rrmHealthScore"`
	TotalRrmChangesV2 json.Number `json:"totalRrmChangesV2"`
	Timestamp         string      `json:"timestamp"`
}

type insightNode struct {
	InsightType  string      `json:"insightType"`
	InsightValue json.Number `json:"insightValue"`
	Description  string      `json:"description"`
	Reason       string      `json:"reason"`
}

// asInt converts a json.Number field, logging and returning 0 on a
// value the API sent in an unexpected shape.
func asInt(n json.Number, field string) int {
	if n == "" {
		return 0
	}
	v, err := n.Int64()
	if err != nil {
		// some deployments send counters as floats
		f, ferr := n.Float64()
		if ferr != nil {
			log.Printf("catalyst: failed to convert %s value %v to int64 (%v)", field, n, err)
			return 0
		}
		return int(f)
	}
	return int(v)
}

func asFloat(n json.Number, field string) float64 {
	if n == "" {
		return 0
	}
	v, err := n.Float64()
	if err != nil {
		log.Printf("catalyst: failed to convert %s value %v to float64 (%v)", field, n, err)
		return 0
	}
	return v
}
