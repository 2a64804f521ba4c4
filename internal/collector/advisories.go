package collector

import (
	"log"
	"sort"

	"github.com/martynrees/airrm-report/internal/models"
)

// AdvisoryBuckets is one building's advisories partitioned for
// reporting: building-wide types deduplicated down to one instance,
// band-specific advisories kept in full per band.
type AdvisoryBuckets struct {
	// BuildingWide holds one advisory per building-scope type label,
	// first-seen across bands in ascending band order. TypeOrder
	// preserves the encounter order for deterministic rendering.
	BuildingWide map[string]models.Advisory
	TypeOrder    []string

	// ByBand holds every advisory whose type is not building-scoped,
	// grouped by band, never deduplicated.
	ByBand map[models.Band][]models.Advisory
	Bands  []models.Band
}

// CategorizeAdvisories partitions the advisories of one building's
// records. Records are iterated in ascending band order regardless of
// input order. When a dropped building-wide duplicate differs in
// content from the kept instance, a data-quality warning is logged;
// the first instance is still the one retained.
func CategorizeAdvisories(records []models.MetricRecord, buildingScopeTypes []string) AdvisoryBuckets {
	scoped := make(map[string]bool, len(buildingScopeTypes))
	for _, t := range buildingScopeTypes {
		scoped[t] = true
	}

	ordered := append([]models.MetricRecord(nil), records...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Band < ordered[j].Band })

	buckets := AdvisoryBuckets{
		BuildingWide: make(map[string]models.Advisory),
		ByBand:       make(map[models.Band][]models.Advisory),
	}

	for _, rec := range ordered {
		for _, adv := range rec.Advisories {
			if !scoped[adv.Type] {
				if _, ok := buckets.ByBand[rec.Band]; !ok {
					buckets.Bands = append(buckets.Bands, rec.Band)
				}
				buckets.ByBand[rec.Band] = append(buckets.ByBand[rec.Band], adv)
				continue
			}

			kept, ok := buckets.BuildingWide[adv.Type]
			if !ok {
				buckets.BuildingWide[adv.Type] = adv
				buckets.TypeOrder = append(buckets.TypeOrder, adv.Type)
				continue
			}

			// duplicate across bands: assumed identical, verify anyway
			if kept.Description != adv.Description || kept.Reason != adv.Reason {
				log.Printf("collector: building-wide advisory %q differs between %s and %s for building %s, keeping first",
					adv.Type, kept.Band.Label(), adv.Band.Label(), rec.BuildingName)
			}
		}
	}

	return buckets
}

// CountAdvisories returns the total advisory count across the buckets
// (deduplicated building-wide instances plus all band-specific ones).
func (b AdvisoryBuckets) CountAdvisories() int {
	n := len(b.BuildingWide)
	for _, advs := range b.ByBand {
		n += len(advs)
	}
	return n
}

// Empty reports whether the building carries no advisories at all,
// which a renderer shows differently from threshold-only flagging.
func (b AdvisoryBuckets) Empty() bool {
	return len(b.BuildingWide) == 0 && len(b.ByBand) == 0
}
