package reportserver

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/martynrees/airrm-report/internal/collector"
	"github.com/martynrees/airrm-report/internal/models"
)

// RecordExtView is the external view of a metric record. Absent facets
// are surfaced through the known flags so a renderer can show n/a
// instead of a misleading zero.
type RecordExtView struct {
	BuildingId       string  `json:"building_id"`
	BuildingName     string  `json:"building_name"`
	Hierarchy        string  `json:"building_hierarchy"`
	Profile          string  `json:"profile_name"`
	Band             int     `json:"frequency_band"`
	BandLabel        string  `json:"frequency_label"`
	ApCount          int     `json:"ap_count"`
	ClientCount      int     `json:"client_count"`
	HealthScore      float64 `json:"rrm_health_score"`
	RrmChanges       int     `json:"rrm_changes"`
	CoverageKnown    bool    `json:"coverage_known"`
	PerformanceKnown bool    `json:"performance_known"`
	AdvisoryCount    int     `json:"advisory_count"`
	Timestamp        string  `json:"timestamp"`
	HasIssues        bool    `json:"has_issues"`
}

func (e *RecordExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func recordView(rec models.MetricRecord) *RecordExtView {
	return &RecordExtView{
		BuildingId:       rec.BuildingId,
		BuildingName:     rec.BuildingName,
		Hierarchy:        rec.Hierarchy,
		Profile:          rec.Profile,
		Band:             int(rec.Band),
		BandLabel:        rec.Band.Label(),
		ApCount:          rec.ApCount,
		ClientCount:      rec.ClientCount,
		HealthScore:      rec.HealthScore,
		RrmChanges:       rec.RrmChanges,
		CoverageKnown:    rec.CoverageKnown,
		PerformanceKnown: rec.PerformanceKnown,
		AdvisoryCount:    len(rec.Advisories),
		Timestamp:        rec.Timestamp,
		HasIssues:        rec.HasIssues,
	}
}

func (s *ReportServer) apiRecordRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.apiRecordGetAll)
	r.Get("/flagged", s.apiRecordGetFlagged)

	return r
}

func (s *ReportServer) apiRecordGetAll(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.LoadRecords()
	if err != nil {
		log.Printf("apiRecordGetAll: failed to query DB (%v)", err)
		render.Render(w, r, s.httpErrUnexpected(fmt.Errorf("failed to get data from backend")))
		return
	}

	outs := []render.Renderer{}
	for _, rec := range records {
		outs = append(outs, recordView(rec))
	}

	render.RenderList(w, r, outs)
}

func (s *ReportServer) apiRecordGetFlagged(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.LoadRecords()
	if err != nil {
		log.Printf("apiRecordGetFlagged: failed to query DB (%v)", err)
		render.Render(w, r, s.httpErrUnexpected(fmt.Errorf("failed to get data from backend")))
		return
	}

	outs := []render.Renderer{}
	for _, rec := range records {
		if rec.HasIssues {
			outs = append(outs, recordView(rec))
		}
	}

	render.RenderList(w, r, outs)
}

// SummaryExtView is the external view of the run summary.
type SummaryExtView struct {
	TotalBuildings      int     `json:"total_buildings"`
	BuildingsWithIssues int     `json:"buildings_with_issues"`
	TotalAps            int     `json:"total_aps"`
	TotalClients        int     `json:"total_clients"`
	TotalAdvisories     int     `json:"total_insights"`
	AverageHealthScore  float64 `json:"average_health_score"`
	GeneratedAt         string  `json:"collection_timestamp"`
}

func (e *SummaryExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *ReportServer) apiSummaryRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.apiSummaryGet)

	return r
}

func (s *ReportServer) apiSummaryGet(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.LoadSummary()
	if err != nil {
		log.Printf("apiSummaryGet: failed to query DB (%v)", err)
		render.Render(w, r, s.httpErrUnexpected(fmt.Errorf("failed to get data from backend")))
		return
	}

	if summary == nil {
		render.Render(w, r, s.httpErrNotFound(fmt.Errorf("no collection run stored")))
		return
	}

	render.Render(w, r, &SummaryExtView{
		TotalBuildings:      summary.TotalBuildings,
		BuildingsWithIssues: summary.BuildingsWithIssues,
		TotalAps:            summary.TotalAps,
		TotalClients:        summary.TotalClients,
		TotalAdvisories:     summary.TotalAdvisories,
		AverageHealthScore:  summary.AverageHealthScore,
		GeneratedAt:         summary.GeneratedAt,
	})
}

// AdvisoryExtView is one advisory in the categorized building view.
type AdvisoryExtView struct {
	Band           string  `json:"band,omitempty"`
	Type           string  `json:"type"`
	Value          float64 `json:"value"`
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
}

// BuildingAdvisoriesExtView is the categorized advisory set for one
// building: deduplicated building-wide advisories plus the full
// per-band list.
type BuildingAdvisoriesExtView struct {
	BuildingId   string            `json:"building_id"`
	BuildingName string            `json:"building_name"`
	BuildingWide []AdvisoryExtView `json:"building_wide"`
	BandSpecific []AdvisoryExtView `json:"band_specific"`
}

func (e *BuildingAdvisoriesExtView) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *ReportServer) apiBuildingIdCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "buildingid")
		if key == "" {
			render.Render(w, r, s.httpErrInvalidRequest(fmt.Errorf("missing buildingid param")))
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyBuildingId, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type ctxKey string

const ctxKeyBuildingId ctxKey = "buildingid"

func (s *ReportServer) apiBuildingRouter() chi.Router {
	r := chi.NewRouter()
	r.Route("/{buildingid}", func(r chi.Router) {
		r.Use(s.apiBuildingIdCtx)
		r.Get("/advisories", s.apiBuildingGetAdvisories)
	})

	return r
}

func (s *ReportServer) apiBuildingGetAdvisories(w http.ResponseWriter, r *http.Request) {
	buildingId, _ := r.Context().Value(ctxKeyBuildingId).(string)

	records, err := s.store.LoadRecords()
	if err != nil {
		log.Printf("apiBuildingGetAdvisories: failed to query DB (%v)", err)
		render.Render(w, r, s.httpErrUnexpected(fmt.Errorf("failed to get data from backend")))
		return
	}

	buildingRecords := make([]models.MetricRecord, 0)
	for _, rec := range records {
		if rec.BuildingId == buildingId {
			buildingRecords = append(buildingRecords, rec)
		}
	}

	if len(buildingRecords) == 0 {
		render.Render(w, r, s.httpErrNotFound(fmt.Errorf("unknown building %s", buildingId)))
		return
	}

	buckets := collector.CategorizeAdvisories(buildingRecords, s.cfg.Collect.BuildingScopeTypes)

	out := &BuildingAdvisoriesExtView{
		BuildingId:   buildingId,
		BuildingName: buildingRecords[0].BuildingName,
		BuildingWide: []AdvisoryExtView{},
		BandSpecific: []AdvisoryExtView{},
	}

	for _, typ := range buckets.TypeOrder {
		adv := buckets.BuildingWide[typ]
		out.BuildingWide = append(out.BuildingWide, AdvisoryExtView{
			Type:           adv.Type,
			Value:          adv.Value,
			Description:    adv.Description,
			Recommendation: adv.Reason,
		})
	}

	for _, band := range buckets.Bands {
		for _, adv := range buckets.ByBand[band] {
			out.BandSpecific = append(out.BandSpecific, AdvisoryExtView{
				Band:           band.Label(),
				Type:           adv.Type,
				Value:          adv.Value,
				Description:    adv.Description,
				Recommendation: adv.Reason,
			})
		}
	}

	render.Render(w, r, out)
}
