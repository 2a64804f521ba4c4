package collector

import (
	"context"
	"log"

	"github.com/martynrees/airrm-report/internal/catalyst"
	"github.com/martynrees/airrm-report/internal/models"
)

// Gateway is the authenticated-request capability the collector runs
// against. catalyst.Client satisfies it; tests supply fakes.
type Gateway interface {
	ListSites(ctx context.Context) (*catalyst.SiteHierarchyResponse, error)
	GetCoverageSummary(ctx context.Context, buildingId string, band models.Band) (*catalyst.CoverageSummary, error)
	GetPerformanceSummary(ctx context.Context, buildingId string, band models.Band) (*catalyst.PerformanceSummary, error)
	GetAdvisories(ctx context.Context, buildingId string, band models.Band) ([]models.Advisory, error)
}

// Collector walks every resolved building across the enabled bands and
// builds one MetricRecord per pair, sequentially. Facet failures
// degrade to defaults; a pair failure never stops the run.
type Collector struct {
	gw         Gateway
	bands      []models.Band
	thresholds Thresholds
}

func New(gw Gateway, bands []models.Band, th Thresholds) *Collector {
	if len(bands) == 0 {
		bands = append([]models.Band(nil), models.AllBands...)
	}

	return &Collector{
		gw:         gw,
		bands:      bands,
		thresholds: th,
	}
}

// CollectAll resolves the building directory and builds records for
// every (building, band) pair. An empty directory yields an empty
// slice and no error; that is the caller's cue to skip the report
// entirely. The returned error is non-nil only for directory fetch
// failure or context cancellation.
func (c *Collector) CollectAll(ctx context.Context) ([]models.MetricRecord, error) {
	log.Printf("collector: starting data collection")

	resp, err := c.gw.ListSites(ctx)
	if err != nil {
		return nil, err
	}

	sites := ResolveSites(resp)
	if len(sites) == 0 {
		log.Printf("collector: no AI-RRM enabled buildings found")
		return []models.MetricRecord{}, nil
	}

	records := make([]models.MetricRecord, 0, len(sites)*len(c.bands))
	for _, site := range sites {
		log.Printf("collector: collecting data for building %s (%s)", site.Name, site.Hierarchy)

		for _, band := range c.bands {
			if err := ctx.Err(); err != nil {
				log.Printf("collector: collection interrupted (%v)", err)
				return records, err
			}

			rec, ok := c.buildRecord(ctx, site, band)
			if ok {
				records = append(records, rec)
			}
		}
	}

	log.Printf("collector: collection complete, gathered %d building/band records", len(records))

	return records, nil
}

// buildRecord fetches the three facets for one pair and classifies the
// result. Each facet failure is logged and leaves its fields at
// defaults. The second return is false only when the whole pair blew
// up, in which case the pair is skipped and collection continues.
func (c *Collector) buildRecord(ctx context.Context, site models.Site, band models.Band) (rec models.MetricRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("collector: failed to collect metrics for %s %s: %v", site.Name, band.Label(), r)
			ok = false
		}
	}()

	rec = models.MetricRecord{
		BuildingId:   site.Id,
		Band:         band,
		BuildingName: site.Name,
		Hierarchy:    site.Hierarchy,
		Profile:      site.Profile,
		Advisories:   []models.Advisory{},
	}

	// Coverage facet: AP count, client count
	coverage, err := c.gw.GetCoverageSummary(ctx, site.Id, band)
	if err != nil {
		log.Printf("collector: could not fetch coverage for %s %s (%v)", site.Name, band.Label(), err)
	} else if coverage != nil {
		rec.ApCount = coverage.ApCount
		rec.ClientCount = coverage.ClientCount
		rec.Timestamp = coverage.Timestamp
		rec.CoverageKnown = true
	}

	// Performance facet: health score, optimization changes
	performance, err := c.gw.GetPerformanceSummary(ctx, site.Id, band)
	if err != nil {
		log.Printf("collector: could not fetch performance for %s %s (%v)", site.Name, band.Label(), err)
	} else if performance != nil {
		rec.HealthScore = performance.HealthScore
		rec.RrmChanges = performance.RrmChanges
		rec.PerformanceKnown = true

		// coverage timestamp wins when both facets carry one
		if rec.Timestamp == "" {
			rec.Timestamp = performance.Timestamp
		}
	}

	// Advisory facet
	advisories, err := c.gw.GetAdvisories(ctx, site.Id, band)
	if err != nil {
		log.Printf("collector: could not fetch advisories for %s %s (%v)", site.Name, band.Label(), err)
	} else if advisories != nil {
		rec.Advisories = advisories
	}

	rec.HasIssues = Classify(&rec, c.thresholds)

	return rec, true
}
