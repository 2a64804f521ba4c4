package collector

import (
	"log"

	"github.com/martynrees/airrm-report/internal/catalyst"
	"github.com/martynrees/airrm-report/internal/models"
)

// ResolveSites turns the floor-granular site hierarchy into one
// canonical entry per building, keyed by display name. The first
// floor seen under a name wins; later floors under the same name are
// discarded without merging. A missing or empty response resolves to
// an empty list, never an error.
func ResolveSites(resp *catalyst.SiteHierarchyResponse) []models.Site {
	sites := make([]models.Site, 0)
	if resp == nil {
		return sites
	}

	seen := make(map[string]string) // name -> first-seen id
	floorCount := 0

	for _, profile := range resp.Response {
		for _, entry := range profile.Sites {
			floorCount++
			if entry.Name == "" {
				continue
			}

			if firstId, ok := seen[entry.Name]; ok {
				if firstId != entry.InstanceUUID {
					// same display name, different site id: first one wins,
					// but this can conflate genuinely distinct sites
					log.Printf("collector: building %q repeated with different id %s (keeping %s)",
						entry.Name, entry.InstanceUUID, firstId)
				}
				continue
			}

			seen[entry.Name] = entry.InstanceUUID
			sites = append(sites, models.Site{
				Id:        entry.InstanceUUID,
				Name:      entry.Name,
				Hierarchy: entry.Hierarchy,
				Profile:   profile.ProfileName,
			})
		}
	}

	log.Printf("collector: resolved %d buildings from %d floor-level sites", len(sites), floorCount)

	return sites
}
