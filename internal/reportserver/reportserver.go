package reportserver

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/martynrees/airrm-report/internal/store"
)

// ReportServer serves the last persisted collection run to the
// presentation layer over HTTP JSON.
type ReportServer struct {
	cfg   Config
	store *store.Store
}

func New(cfg Config) (*ReportServer, error) {
	var err error

	// Base Initialization
	s := &ReportServer{
		cfg: cfg,
	}

	// Run store initialization
	s.store, err = store.New(cfg.Db)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *ReportServer) Run() error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if s.cfg.Http.BasicAuth {
		userdb := make(map[string]string)
		for _, v := range s.cfg.Http.Users {
			userdb[v.User] = v.Password
		}
		r.Use(middleware.BasicAuth(s.cfg.Http.ServerName, userdb))
	}

	r.Route("/records", func(r chi.Router) {
		r.Mount("/", s.apiRecordRouter())
	})

	r.Route("/summary", func(r chi.Router) {
		r.Mount("/", s.apiSummaryRouter())
	})

	r.Route("/buildings", func(r chi.Router) {
		r.Mount("/", s.apiBuildingRouter())
	})

	// Start HTTP Handler
	err := http.ListenAndServe(s.cfg.Http.Listen, r)
	if err != nil {
		log.Fatal(err)
	}

	return nil
}
