package reportgen

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/martynrees/airrm-report/internal/catalyst"
	"github.com/martynrees/airrm-report/internal/collector"
	"github.com/martynrees/airrm-report/internal/report"
	"github.com/martynrees/airrm-report/internal/store"
)

// Config is the full configuration for a one-shot report run.
type Config struct {
	Catalyst catalyst.Config  `mapstructure:"catalyst"`
	Collect  collector.Config `mapstructure:"collect"`
	Report   report.Config    `mapstructure:"report"`
	Db       store.Config     `mapstructure:"db"`
}

// ApplyEnv layers environment variables (optionally from a .env file)
// over the file configuration. The variable names match the original
// report tooling so existing deployments keep working.
func ApplyEnv(cfg *Config) {
	if err := godotenv.Load(); err != nil {
		log.Printf("reportgen: no .env file found, using system env vars only")
	}

	if v := os.Getenv("DNA_CENTER_URL"); v != "" {
		cfg.Catalyst.Endpoint = v
	}
	if v := os.Getenv("DNA_CENTER_USERNAME"); v != "" {
		cfg.Catalyst.Username = v
	}
	if v := os.Getenv("DNA_CENTER_PASSWORD"); v != "" {
		cfg.Catalyst.Password = v
	}
	if v := os.Getenv("VERIFY_SSL"); v != "" {
		cfg.Catalyst.VerifySSL = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("FREQUENCY_BANDS"); v != "" {
		bands := make([]string, 0)
		for _, tok := range strings.Split(v, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				bands = append(bands, tok)
			}
		}
		cfg.Collect.Bands = bands
	}
}
