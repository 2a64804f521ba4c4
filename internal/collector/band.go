package collector

import (
	"log"
	"sort"

	"github.com/martynrees/airrm-report/internal/models"
)

// ParseBands maps configured band tokens ("2.4", "5", "5.0", "6",
// "6.0") to the band enumeration. Unknown tokens are logged and
// skipped. An empty or fully-invalid list enables all bands. The
// result is always ascending and duplicate-free; downstream advisory
// deduplication depends on that ordering.
func ParseBands(tokens []string) []models.Band {
	seen := make(map[models.Band]bool)
	bands := make([]models.Band, 0, len(tokens))

	for _, tok := range tokens {
		var b models.Band
		switch tok {
		case "2.4":
			b = models.Band24
		case "5", "5.0":
			b = models.Band5
		case "6", "6.0":
			b = models.Band6
		default:
			log.Printf("collector: invalid frequency band %q ignored", tok)
			continue
		}

		if !seen[b] {
			seen[b] = true
			bands = append(bands, b)
		}
	}

	if len(bands) == 0 {
		return append([]models.Band(nil), models.AllBands...)
	}

	sort.Slice(bands, func(i, j int) bool { return bands[i] < bands[j] })
	return bands
}
