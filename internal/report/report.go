// Package report renders a finished collection run for operators:
// a plain-text report mirroring the sections of the PDF handed out by
// the presentation layer, plus a JSON export of records and summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/martynrees/airrm-report/internal/collector"
	"github.com/martynrees/airrm-report/internal/models"
)

// Config holds the report output settings.
type Config struct {
	Output string `mapstructure:"output"`
	Json   bool   `mapstructure:"json"`
}

// Writer renders collection runs. BuildingScopeTypes drives advisory
// categorization in the attention section.
type Writer struct {
	buildingScopeTypes []string
}

func NewWriter(buildingScopeTypes []string) *Writer {
	return &Writer{buildingScopeTypes: buildingScopeTypes}
}

// absent markers keep defaulted fields distinguishable from real
// zeros in the rendered output
func fmtHealth(rec models.MetricRecord) string {
	if !rec.PerformanceKnown {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", rec.HealthScore)
}

func fmtChanges(rec models.MetricRecord) string {
	if !rec.PerformanceKnown {
		return "n/a"
	}
	return strconv.Itoa(rec.RrmChanges)
}

func fmtAps(rec models.MetricRecord) string {
	if !rec.CoverageKnown {
		return "n/a"
	}
	return strconv.Itoa(rec.ApCount)
}

func fmtClients(rec models.MetricRecord) string {
	if !rec.CoverageKnown {
		return "n/a"
	}
	return strconv.Itoa(rec.ClientCount)
}

// Render writes the full text report to w.
func (wr *Writer) Render(w io.Writer, records []models.MetricRecord, summary models.AggregateSummary) error {
	sep := strings.Repeat("=", 64)
	thin := strings.Repeat("-", 64)

	fmt.Fprintf(w, "%s\nAI-RRM PERFORMANCE REPORT\nGenerated: %s\n%s\n\n",
		sep, time.Now().Format("2006-01-02 15:04:05"), sep)

	// Executive summary
	fmt.Fprintf(w, "Executive Summary\n%s\n", thin)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Buildings\t%d\n", summary.TotalBuildings)
	fmt.Fprintf(tw, "Buildings with Issues\t%d\n", summary.BuildingsWithIssues)
	fmt.Fprintf(tw, "Total Access Points\t%d\n", summary.TotalAps)
	fmt.Fprintf(tw, "Total Clients\t%d\n", summary.TotalClients)
	fmt.Fprintf(tw, "Total Advisories\t%d\n", summary.TotalAdvisories)
	fmt.Fprintf(tw, "Average Health Score\t%.1f\n", summary.AverageHealthScore)
	tw.Flush()
	fmt.Fprintln(w)

	wr.renderIssues(w, records, thin)
	wr.renderAllBuildings(w, records, thin)

	return nil
}

// renderIssues writes the attention section: per flagged building, the
// per-band metric rows followed by its categorized advisories.
func (wr *Writer) renderIssues(w io.Writer, records []models.MetricRecord, thin string) {
	flagged := make([]models.MetricRecord, 0)
	for _, rec := range records {
		if rec.HasIssues {
			flagged = append(flagged, rec)
		}
	}

	if len(flagged) == 0 {
		return
	}

	fmt.Fprintf(w, "Buildings Requiring Attention\n%s\n", thin)

	// group per building, preserving record order
	order := make([]string, 0)
	grouped := make(map[string][]models.MetricRecord)
	for _, rec := range flagged {
		if _, ok := grouped[rec.BuildingId]; !ok {
			order = append(order, rec.BuildingId)
		}
		grouped[rec.BuildingId] = append(grouped[rec.BuildingId], rec)
	}

	for _, id := range order {
		recs := grouped[id]
		fmt.Fprintf(w, "\n%s (%s)\n", recs[0].BuildingName, recs[0].Hierarchy)

		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "  Band\tHealth\tChanges\tAdvisories\tAPs\tClients")
		for _, rec := range recs {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%s\t%s\n",
				rec.Band.Label(), fmtHealth(rec), fmtChanges(rec),
				len(rec.Advisories), fmtAps(rec), fmtClients(rec))
		}
		tw.Flush()

		buckets := collector.CategorizeAdvisories(recs, wr.buildingScopeTypes)
		if buckets.Empty() {
			fmt.Fprintln(w, "  No active advisories (flagged on thresholds)")
			continue
		}

		for _, typ := range buckets.TypeOrder {
			adv := buckets.BuildingWide[typ]
			fmt.Fprintf(w, "  [building-wide] %s: %s\n    Recommendation: %s\n",
				adv.Type, adv.Description, adv.Reason)
		}

		for _, band := range buckets.Bands {
			for _, adv := range buckets.ByBand[band] {
				fmt.Fprintf(w, "  [%s] %s: %s\n    Recommendation: %s\n",
					band.Label(), adv.Type, adv.Description, adv.Reason)
			}
		}
	}

	fmt.Fprintln(w)
}

// renderAllBuildings writes the full metric table, sorted by building
// name then band.
func (wr *Writer) renderAllBuildings(w io.Writer, records []models.MetricRecord, thin string) {
	fmt.Fprintf(w, "All Buildings - Detailed Metrics\n%s\n", thin)

	sorted := append([]models.MetricRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].BuildingName != sorted[j].BuildingName {
			return sorted[i].BuildingName < sorted[j].BuildingName
		}
		return sorted[i].Band < sorted[j].Band
	})

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Building\tBand\tHealth\tChanges\tAdvisories\tAPs\tClients\tFlagged")
	for _, rec := range sorted {
		flaggedMark := ""
		if rec.HasIssues {
			flaggedMark = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			rec.BuildingName, rec.Band.Label(), fmtHealth(rec), fmtChanges(rec),
			len(rec.Advisories), fmtAps(rec), fmtClients(rec), flaggedMark)
	}
	tw.Flush()
}

// WriteFile renders the report to the given path, creating parent
// directories as needed.
func (wr *Writer) WriteFile(path string, records []models.MetricRecord, summary models.AggregateSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := wr.Render(f, records, summary); err != nil {
		return err
	}

	log.Printf("report: generated %s", path)

	return nil
}

// jsonExport is the machine-readable run envelope.
type jsonExport struct {
	Summary models.AggregateSummary `json:"summary"`
	Records []models.MetricRecord   `json:"records"`
}

// WriteJSON exports records and summary next to the text report,
// swapping the extension for .json.
func (wr *Writer) WriteJSON(path string, records []models.MetricRecord, summary models.AggregateSummary) error {
	jsonPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"

	out, err := json.MarshalIndent(jsonExport{Summary: summary, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(jsonPath, out, 0o644); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}

	log.Printf("report: generated %s", jsonPath)

	return nil
}
