package store

import (
	"path/filepath"
	"testing"

	"github.com/martynrees/airrm-report/internal/models"
)

func sqliteConfig(t *testing.T) Config {
	t.Helper()

	cfg := Config{Driver: "sqlite"}
	cfg.Sqlite.Path = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

func sampleRecords() []models.MetricRecord {
	return []models.MetricRecord{
		{
			BuildingId: "b-1", BuildingName: "Wing A", Band: models.Band5,
			HealthScore: 65.2, HasIssues: true,
			Advisories: []models.Advisory{
				{BuildingId: "b-1", Band: models.Band5, Type: "High Co-Channel Interference"},
			},
		},
		{
			BuildingId: "b-2", BuildingName: "Wing B", Band: models.Band5,
			HealthScore: 92.3,
		},
	}
}

func TestMysqlDSN(t *testing.T) {
	cfg := Config{Driver: "mysql"}
	cfg.Mysql.User = "airrm"
	cfg.Mysql.Password = "secret"
	cfg.Mysql.Host = "db:3306"
	cfg.Mysql.Database = "airrm"

	want := "airrm:secret@tcp(db:3306)/airrm?charset=utf8mb4&parseTime=True&loc=Local"
	if got := MysqlDSN(cfg); got != want {
		t.Errorf("dsn: got %q, want %q", got, want)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := New(Config{Driver: "oracle"}); err == nil {
		t.Errorf("unknown driver should error")
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	st, err := New(sqliteConfig(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	summary := models.AggregateSummary{TotalBuildings: 2, BuildingsWithIssues: 1, AverageHealthScore: 78.75}
	if err := st.SaveRun(sampleRecords(), summary); err != nil {
		t.Fatalf("save run: %v", err)
	}

	records, err := st.LoadRecords()
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}

	var flagged *models.MetricRecord
	for i := range records {
		if records[i].BuildingId == "b-1" {
			flagged = &records[i]
		}
	}
	if flagged == nil || !flagged.HasIssues {
		t.Fatalf("flagged record not round-tripped")
	}
	if len(flagged.Advisories) != 1 {
		t.Errorf("advisories: got %d, want 1", len(flagged.Advisories))
	}

	loaded, err := st.LoadSummary()
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if loaded == nil || loaded.TotalBuildings != 2 {
		t.Errorf("summary not round-tripped: %+v", loaded)
	}
}

func TestSaveRunReplacesPreviousRun(t *testing.T) {
	st, err := New(sqliteConfig(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := st.SaveRun(sampleRecords(), models.AggregateSummary{TotalBuildings: 2}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// second run: b-2 vanished, b-1 has no advisories anymore
	next := []models.MetricRecord{
		{BuildingId: "b-1", BuildingName: "Wing A", Band: models.Band5, HealthScore: 90},
	}
	if err := st.SaveRun(next, models.AggregateSummary{TotalBuildings: 1}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	records, err := st.LoadRecords()
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("stale records not deleted: got %d, want 1", len(records))
	}
	if records[0].BuildingId != "b-1" || len(records[0].Advisories) != 0 {
		t.Errorf("second run not stored cleanly: %+v", records[0])
	}

	summary, err := st.LoadSummary()
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if summary.TotalBuildings != 1 {
		t.Errorf("summary not replaced: got %d buildings", summary.TotalBuildings)
	}
}

func TestLoadSummaryEmptyStore(t *testing.T) {
	st, err := New(sqliteConfig(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	summary, err := st.LoadSummary()
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if summary != nil {
		t.Errorf("empty store should yield nil summary")
	}
}
