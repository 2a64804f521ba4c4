package reportserver

import (
	"github.com/martynrees/airrm-report/internal/collector"
	"github.com/martynrees/airrm-report/internal/store"
)

// Config defines the configuration structure for the report API server
type Config struct {
	Http struct {
		ServerName string `mapstructure:"server_name"`
		Listen     string `mapstructure:"listen"`
		BasicAuth  bool   `mapstructure:"basic_auth"`
		Debug      bool   `mapstructure:"debug"`
		Users      []struct {
			User     string `mapstructure:"user"`
			Password string `mapstructure:"password"`
		} `mapstructure:"users"`
	} `mapstructure:"http"`
	Db      store.Config     `mapstructure:"db"`
	Collect collector.Config `mapstructure:"collect"`
}
