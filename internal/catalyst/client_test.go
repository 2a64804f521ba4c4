package catalyst

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/martynrees/airrm-report/internal/models"
)

// testServer fakes the Catalyst Center endpoints the client touches.
func testServer(t *testing.T, graphqlBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(authPath, func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"Token": "test-token"})
	})
	mux.HandleFunc(sitesPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"response":[{"aiRfProfileName":"P1","associatedBuildings":[
			{"name":"Wing A","instanceUUID":"a-1","groupNameHierarchy":"Global/Wing A/Floor 1"}]}]}`))
	})
	mux.HandleFunc(graphqlPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(graphqlBody))
	})

	return httptest.NewServer(mux)
}

func loggedInClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	cfg := Config{Endpoint: srv.URL, Username: "admin", Password: "secret"}
	auth := NewAuth(cfg)
	if err := auth.Login(context.Background()); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	return NewClient(auth, cfg)
}

func TestLoginStoresToken(t *testing.T) {
	srv := testServer(t, "{}")
	defer srv.Close()

	cfg := Config{Endpoint: srv.URL, Username: "admin", Password: "secret"}
	auth := NewAuth(cfg)
	if err := auth.Login(context.Background()); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	headers, err := auth.Headers()
	if err != nil {
		t.Fatalf("headers: %v", err)
	}
	if headers["X-Auth-Token"] != "test-token" {
		t.Errorf("token header: got %q, want %q", headers["X-Auth-Token"], "test-token")
	}
}

func TestLoginEmptyToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(authPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`)) // 200 but no token in payload
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	auth := NewAuth(Config{Endpoint: srv.URL, Username: "admin", Password: "secret"})
	if err := auth.Login(context.Background()); err == nil {
		t.Errorf("login should fail when no token is returned")
	}
}

func TestHeadersBeforeLogin(t *testing.T) {
	auth := NewAuth(Config{Endpoint: "https://controller.example"})
	if _, err := auth.Headers(); err == nil {
		t.Errorf("Headers should fail before Login")
	}
}

func TestListSites(t *testing.T) {
	srv := testServer(t, "{}")
	defer srv.Close()

	client := loggedInClient(t, srv)
	resp, err := client.ListSites(context.Background())
	if err != nil {
		t.Fatalf("ListSites: %v", err)
	}

	if len(resp.Response) != 1 {
		t.Fatalf("profile groups: got %d, want 1", len(resp.Response))
	}
	if resp.Response[0].Sites[0].Name != "Wing A" {
		t.Errorf("site name: got %q, want %q", resp.Response[0].Sites[0].Name, "Wing A")
	}
}

func TestGetCoverageSummary(t *testing.T) {
	body := `{"data":{"getRfCoverageSummaryLatest01":{"nodes":[
		{"totalApCount":12,"totalClients":45,"timestamp":"2026-02-03T10:00:00Z"}]}}}`
	srv := testServer(t, body)
	defer srv.Close()

	client := loggedInClient(t, srv)
	coverage, err := client.GetCoverageSummary(context.Background(), "b-1", models.Band5)
	if err != nil {
		t.Fatalf("GetCoverageSummary: %v", err)
	}
	if coverage == nil {
		t.Fatalf("expected coverage data")
	}
	if coverage.ApCount != 12 || coverage.ClientCount != 45 {
		t.Errorf("coverage: got %d/%d, want 12/45", coverage.ApCount, coverage.ClientCount)
	}
	if coverage.Timestamp != "2026-02-03T10:00:00Z" {
		t.Errorf("timestamp: got %q", coverage.Timestamp)
	}
}

func TestGetCoverageSummaryEmptyNodes(t *testing.T) {
	srv := testServer(t, `{"data":{"getRfCoverageSummaryLatest01":{"nodes":[]}}}`)
	defer srv.Close()

	client := loggedInClient(t, srv)
	coverage, err := client.GetCoverageSummary(context.Background(), "b-1", models.Band6)
	if err != nil {
		t.Fatalf("empty nodes must not error: %v", err)
	}
	if coverage != nil {
		t.Errorf("empty nodes should yield nil summary")
	}
}

func TestGetPerformanceSummaryFloatFields(t *testing.T) {
	body := `{"data":{"getRfPerformanceSummaryLatest01":{"nodes":[
		{"rrmHealthScore":65.2,"totalRrmChangesV2":87,"timestamp":"2026-02-03T10:00:00Z"}]}}}`
	srv := testServer(t, body)
	defer srv.Close()

	client := loggedInClient(t, srv)
	perf, err := client.GetPerformanceSummary(context.Background(), "b-1", models.Band5)
	if err != nil {
		t.Fatalf("GetPerformanceSummary: %v", err)
	}
	if perf.HealthScore != 65.2 {
		t.Errorf("health score: got %v, want 65.2", perf.HealthScore)
	}
	if perf.RrmChanges != 87 {
		t.Errorf("changes: got %d, want 87", perf.RrmChanges)
	}
}

func TestGetAdvisories(t *testing.T) {
	body := `{"data":{"getCurrentInsights01":{"nodes":[
		{"insightType":"High Co-Channel Interference","insightValue":45.2,
		 "description":"Overlapping channels","reason":"Enable DCA"}]}}}`
	srv := testServer(t, body)
	defer srv.Close()

	client := loggedInClient(t, srv)
	advisories, err := client.GetAdvisories(context.Background(), "b-1", models.Band5)
	if err != nil {
		t.Fatalf("GetAdvisories: %v", err)
	}
	if len(advisories) != 1 {
		t.Fatalf("advisories: got %d, want 1", len(advisories))
	}

	adv := advisories[0]
	if adv.Type != "High Co-Channel Interference" || adv.Value != 45.2 {
		t.Errorf("advisory fields: got %q/%v", adv.Type, adv.Value)
	}
	if adv.BuildingId != "b-1" || adv.Band != models.Band5 {
		t.Errorf("advisory context: got %s/%s", adv.BuildingId, adv.Band.Label())
	}
}

func TestGetAdvisoriesMissingOperationKey(t *testing.T) {
	srv := testServer(t, `{"data":{}}`)
	defer srv.Close()

	client := loggedInClient(t, srv)
	advisories, err := client.GetAdvisories(context.Background(), "b-1", models.Band24)
	if err != nil {
		t.Fatalf("missing operation key must not error: %v", err)
	}
	if len(advisories) != 0 {
		t.Errorf("advisories: got %d, want 0", len(advisories))
	}
}

func TestRequestFailureSurfacesStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(authPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"Token": "test-token"})
	})
	mux.HandleFunc(graphqlPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := loggedInClient(t, srv)
	if _, err := client.GetCoverageSummary(context.Background(), "b-1", models.Band5); err == nil {
		t.Errorf("5xx response should surface as an error")
	}
}
