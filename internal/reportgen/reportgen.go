// Package reportgen runs one full collection and report cycle:
// authenticate, resolve the building directory, collect every
// (building, band) pair, classify, summarize, render, and optionally
// persist the run for the report API server.
package reportgen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/martynrees/airrm-report/internal/catalyst"
	"github.com/martynrees/airrm-report/internal/collector"
	"github.com/martynrees/airrm-report/internal/report"
	"github.com/martynrees/airrm-report/internal/store"
)

type Generator struct {
	cfg Config
}

func New(cfg Config) (*Generator, error) {
	if cfg.Catalyst.Endpoint == "" || cfg.Catalyst.Username == "" || cfg.Catalyst.Password == "" {
		return nil, fmt.Errorf("missing Catalyst Center connection info (endpoint, username, password)")
	}

	return &Generator{cfg: cfg}, nil
}

// thresholds resolves the configured classification policy, falling
// back to the stock values for unset knobs.
func (g *Generator) thresholds() collector.Thresholds {
	th := collector.DefaultThresholds()
	if g.cfg.Collect.HealthThreshold > 0 {
		th.Health = g.cfg.Collect.HealthThreshold
	}
	if g.cfg.Collect.ChangesThreshold > 0 {
		th.Changes = g.cfg.Collect.ChangesThreshold
	}
	return th
}

func (g *Generator) outputPath() string {
	if g.cfg.Report.Output != "" {
		return g.cfg.Report.Output
	}
	return filepath.Join("output", fmt.Sprintf("airrm_report_%s.txt", time.Now().Format("20060102_150405")))
}

// Run executes the full cycle. A kill signal cancels the collection
// context; an interrupted run exits cleanly without writing a partial
// report. An empty building directory is a clean no-op, not an error.
func (g *Generator) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	killSig := make(chan os.Signal, 1)
	signal.Notify(killSig, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	go func() {
		<-killSig
		log.Printf("reportgen: caught kill signal, shutting down")
		cancel()
	}()

	// Auth failure is fatal: no pipeline run without a session
	auth := catalyst.NewAuth(g.cfg.Catalyst)
	if err := auth.Login(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	client := catalyst.NewClient(auth, g.cfg.Catalyst)
	bands := collector.ParseBands(g.cfg.Collect.Bands)

	labels := make([]string, 0, len(bands))
	for _, b := range bands {
		labels = append(labels, b.Label())
	}
	log.Printf("reportgen: enabled frequency bands: %v", labels)

	coll := collector.New(client, bands, g.thresholds())
	records, err := coll.CollectAll(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("reportgen: operation cancelled, no report written")
			return nil
		}
		return fmt.Errorf("collection failed: %w", err)
	}

	if len(records) == 0 {
		log.Printf("reportgen: no metrics collected, skipping report generation")
		return nil
	}

	summary := collector.Summarize(records)
	log.Printf("reportgen: collected data for %d buildings, %d with issues",
		summary.TotalBuildings, summary.BuildingsWithIssues)

	writer := report.NewWriter(g.cfg.Collect.BuildingScopeTypes)
	outPath := g.outputPath()
	if err := writer.WriteFile(outPath, records, summary); err != nil {
		return err
	}
	if g.cfg.Report.Json {
		if err := writer.WriteJSON(outPath, records, summary); err != nil {
			return err
		}
	}

	// Persist the run for airrmrepd when a database is configured
	if g.cfg.Db.Driver != "" {
		st, err := store.New(g.cfg.Db)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		if err := st.SaveRun(records, summary); err != nil {
			return fmt.Errorf("persist run: %w", err)
		}
		log.Printf("reportgen: run persisted to %s store", g.cfg.Db.Driver)
	}

	log.Printf("reportgen: report generated successfully: %s", outPath)
	log.Printf("reportgen: summary: %d buildings, %d with issues, %d advisories",
		summary.TotalBuildings, summary.BuildingsWithIssues, summary.TotalAdvisories)

	return nil
}
