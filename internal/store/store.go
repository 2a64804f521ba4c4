package store

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/martynrees/airrm-report/internal/models"
)

// Config selects and configures the run database. An empty driver
// disables persistence entirely.
type Config struct {
	Driver string `mapstructure:"driver"`
	Debug  bool   `mapstructure:"debug"`
	Mysql  struct {
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Host     string `mapstructure:"host"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mysql"`
	Sqlite struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"sqlite"`
}

// Store persists the latest collection run for the report API server.
// Exactly one run is kept; saving a new run replaces the previous one.
type Store struct {
	db *gorm.DB
}

// MysqlDSN builds the connection string for the mysql driver.
func MysqlDSN(cfg Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Mysql.User, cfg.Mysql.Password, cfg.Mysql.Host, cfg.Mysql.Database)
}

func getDbConn(cfg Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	switch cfg.Driver {
	case "mysql":
		if cfg.Mysql.User == "" || cfg.Mysql.Host == "" || cfg.Mysql.Database == "" {
			return nil, fmt.Errorf("missing connection info")
		}

		db, err = gorm.Open(mysql.Open(MysqlDSN(cfg)), &gorm.Config{})
		if err != nil {
			return nil, err
		}

	case "sqlite":
		path := cfg.Sqlite.Path
		if path == "" {
			path = "airrm_report.db"
		}

		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown db driver %s", cfg.Driver)
	}

	if cfg.Debug {
		db.Logger = db.Logger.LogMode(logger.Info)
	}

	return db, err
}

func New(cfg Config) (*Store, error) {
	db, err := getDbConn(cfg)
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.MetricRecord{}, &models.Advisory{}, &models.AggregateSummary{})
	if err != nil {
		log.Printf("store: failed to automigrate database %v", err)
		return nil, err
	}

	return &Store{db: db}, nil
}

// SaveRun replaces the stored run with the given one. Records are
// upserted and rows belonging to pairs that vanished since the last
// run are deleted, advisories and summary are rewritten wholesale.
func (s *Store) SaveRun(records []models.MetricRecord, summary models.AggregateSummary) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// advisories are rewritten from scratch each run
		if err := tx.Where("1 = 1").Delete(&models.Advisory{}).Error; err != nil {
			return err
		}

		// mark existing record keys, clear the mark for keys still present
		delKeys := make(map[string]bool)
		existing := make([]models.MetricRecord, 0)
		if err := tx.Find(&existing).Error; err != nil {
			return err
		}
		for _, rec := range existing {
			delKeys[rec.Key()] = true
		}

		for i := range records {
			rec := records[i]
			advisories := rec.Advisories
			rec.Advisories = nil

			if err := tx.Save(&rec).Error; err != nil {
				return err
			}
			delKeys[rec.Key()] = false

			if len(advisories) > 0 {
				if err := tx.Create(&advisories).Error; err != nil {
					return err
				}
			}
		}

		// delete keys that no longer exist
		for _, rec := range existing {
			if delKeys[rec.Key()] {
				err := tx.Where("building_id = ? AND band = ?", rec.BuildingId, rec.Band).
					Delete(&models.MetricRecord{}).Error
				if err != nil {
					return err
				}
			}
		}

		if err := tx.Where("1 = 1").Delete(&models.AggregateSummary{}).Error; err != nil {
			return err
		}

		return tx.Create(&summary).Error
	})
}

// LoadRecords returns every stored record with its advisories.
func (s *Store) LoadRecords() ([]models.MetricRecord, error) {
	records := make([]models.MetricRecord, 0)
	r := s.db.Preload("Advisories").Find(&records)
	if r.Error != nil {
		return nil, r.Error
	}

	return records, nil
}

// LoadSummary returns the stored run summary, or nil when no run has
// been persisted yet.
func (s *Store) LoadSummary() (*models.AggregateSummary, error) {
	summaries := make([]models.AggregateSummary, 0)
	r := s.db.Find(&summaries)
	if r.Error != nil {
		return nil, r.Error
	}

	if len(summaries) == 0 {
		return nil, nil
	}

	return &summaries[0], nil
}
