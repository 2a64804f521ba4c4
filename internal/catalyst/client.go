package catalyst

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/martynrees/airrm-report/internal/models"
)

const (
	sitesPath   = "/api/v1/dna/sunray/airfprofilesitesinfo"
	graphqlPath = "/api/kairos/v1/proxy/api/v2/core-services/customer-id/sunray/graphql"

	opCoverage    = "getRfCoverageSummaryLatest01"
	opPerformance = "getRfPerformanceSummaryLatest01"
	opInsights    = "getCurrentInsights01"
)

const coverageQuery = `query getRfCoverageSummaryLatest01($buildingId: String, $frequencyBand: Int) {
	getRfCoverageSummaryLatest01(buildingId: $buildingId, frequencyBand: $frequencyBand) {
		nodes {
			buildingId
			frequencyBand
			siteId
			timestampMs
			timestamp
			connectivitySnr
			connectivitySnrDensity
			apDensity
			totalApCount
			totalClients
		}
	}
}`

const performanceQuery = `query getRfPerformanceSummaryLatest01($buildingId: String, $frequencyBand: Int) {
	getRfPerformanceSummaryLatest01(buildingId: $buildingId, frequencyBand: $frequencyBand) {
		nodes {
			buildingId
			frequencyBand
			siteId
			timestampMs
			timestamp
			totalRrmChangesV2
			rrmHealthScore
			apPercentageWithHighCci
		}
	}
}`

const insightsQuery = `query getCurrentInsights01($buildingId: String, $frequencyBand: Int) {
	getCurrentInsights01(buildingId: $buildingId, frequencyBand: $frequencyBand) {
		nodes {
			buildingId
			frequencyBand
			siteId
			timestampMs
			timestamp
			insightType
			insightValue
			description
			reason
		}
	}
}`

// Client issues authenticated requests against the Catalyst Center
// AI-RRM APIs: the REST site listing plus the three GraphQL facet
// queries.
type Client struct {
	auth  *Auth
	debug bool
}

func NewClient(auth *Auth, cfg Config) *Client {
	return &Client{
		auth:  auth,
		debug: cfg.Debug,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}

	reqURL := c.auth.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, rdr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	headers, err := c.auth.Headers()
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.debug {
		log.Printf("catalyst: %s %s", method, reqURL)
	}

	resp, err := c.auth.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s returned status %d", method, path, resp.StatusCode)
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return out, nil
}

// ListSites fetches the AI-RRM site hierarchy. The response is
// floor-granular; resolving it to buildings is the collector's job.
func (c *Client) ListSites(ctx context.Context) (*SiteHierarchyResponse, error) {
	body, err := c.do(ctx, http.MethodGet, sitesPath, nil)
	if err != nil {
		return nil, err
	}

	resp := &SiteHierarchyResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("parse site hierarchy: %w", err)
	}

	return resp, nil
}

// graphql runs one named query and returns the raw nodes array for
// that operation. A missing operation key or empty nodes comes back as
// an empty array, not an error.
func (c *Client) graphql(ctx context.Context, operation, query string, buildingId string, band models.Band) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"operationName": operation,
		"query":         query,
		"variables": map[string]interface{}{
			"buildingId":    buildingId,
			"frequencyBand": int(band),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql payload: %w", err)
	}

	if c.debug {
		log.Printf("catalyst: graphql %s building %s band %s", operation, buildingId, band.Label())
	}

	body, err := c.do(ctx, http.MethodPost, graphqlPath, payload)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data map[string]struct {
			Nodes json.RawMessage `json:"nodes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse graphql response: %w", err)
	}

	nodes := env.Data[operation].Nodes
	if nodes == nil {
		nodes = json.RawMessage("[]")
	}

	return nodes, nil
}

// GetCoverageSummary returns the coverage facet for one
// (building, band) pair, or (nil, nil) when the query has no data.
func (c *Client) GetCoverageSummary(ctx context.Context, buildingId string, band models.Band) (*CoverageSummary, error) {
	raw, err := c.graphql(ctx, opCoverage, coverageQuery, buildingId, band)
	if err != nil {
		return nil, err
	}

	nodes := make([]coverageNode, 0)
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("parse coverage nodes: %w", err)
	}

	if len(nodes) == 0 {
		return nil, nil
	}

	n := nodes[0]
	return &CoverageSummary{
		ApCount:     asInt(n.TotalApCount, "totalApCount"),
		ClientCount: asInt(n.TotalClients, "totalClients"),
		Timestamp:   n.Timestamp,
	}, nil
}

// GetPerformanceSummary returns the performance facet for one
// (building, band) pair, or (nil, nil) when the query has no data.
func (c *Client) GetPerformanceSummary(ctx context.Context, buildingId string, band models.Band) (*PerformanceSummary, error) {
	raw, err := c.graphql(ctx, opPerformance, performanceQuery, buildingId, band)
	if err != nil {
		return nil, err
	}

	nodes := make([]performanceNode, 0)
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("parse performance nodes: %w", err)
	}

	if len(nodes) == 0 {
		return nil, nil
	}

	n := nodes[0]
	return &PerformanceSummary{
		HealthScore: asFloat(n.RrmHealthScore, "rrmHealthScore"),
		RrmChanges:  asInt(n.TotalRrmChangesV2, "totalRrmChangesV2"),
		Timestamp:   n.Timestamp,
	}, nil
}

// GetAdvisories returns the current AI advisories for one
// (building, band) pair. No advisories is an empty slice, never nil
// semantics the callers need to special-case.
func (c *Client) GetAdvisories(ctx context.Context, buildingId string, band models.Band) ([]models.Advisory, error) {
	raw, err := c.graphql(ctx, opInsights, insightsQuery, buildingId, band)
	if err != nil {
		return nil, err
	}

	nodes := make([]insightNode, 0)
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("parse insight nodes: %w", err)
	}

	advisories := make([]models.Advisory, 0, len(nodes))
	for _, n := range nodes {
		advisories = append(advisories, models.Advisory{
			BuildingId:  buildingId,
			Band:        band,
			Type:        n.InsightType,
			Value:       asFloat(n.InsightValue, "insightValue"),
			Description: n.Description,
			Reason:      n.Reason,
		})
	}

	return advisories, nil
}
