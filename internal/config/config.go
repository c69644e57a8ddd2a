package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soaringjerry/peerlens/internal/utils"
)

const devPseudonymKey = "peerlens-dev-pseudonym-key"

// maxScalePoints matches the distribution cap in the services package.
const maxScalePoints = 100

// Config is the runtime configuration of the server.
type Config struct {
	Addr           string        `yaml:"addr"`
	PseudonymKey   string        `yaml:"pseudonym_key"`
	LexiconPath    string        `yaml:"lexicon_path"`
	ScalePoints    int           `yaml:"scale_points"`
	SummaryWorkers int           `yaml:"summary_workers"`
	Retention      time.Duration `yaml:"review_retention"`

	Commit    string `yaml:"-"`
	BuildTime string `yaml:"-"`
}

func defaults() Config {
	return Config{Addr: ":8080", ScalePoints: 5, SummaryWorkers: 4}
}

// Load reads the optional YAML file named by PEERLENS_CONFIG and applies
// environment overrides on top of it.
func Load() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("PEERLENS_CONFIG"); path != "" {
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.PseudonymKey == "" {
		log.Printf("PEERLENS_PSEUDONYM_KEY not set, using the development key; pseudonyms are not private")
		cfg.PseudonymKey = devPseudonymKey
	}
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Addr = utils.SafeEnv("PEERLENS_ADDR", cfg.Addr)
	cfg.PseudonymKey = utils.SafeEnv("PEERLENS_PSEUDONYM_KEY", cfg.PseudonymKey)
	cfg.LexiconPath = utils.SafeEnv("PEERLENS_LEXICON", cfg.LexiconPath)
	cfg.ScalePoints = utils.EnvInt("PEERLENS_SCALE_POINTS", cfg.ScalePoints)
	cfg.SummaryWorkers = utils.EnvInt("PEERLENS_SUMMARY_WORKERS", cfg.SummaryWorkers)
	cfg.Retention = utils.EnvDuration("PEERLENS_REVIEW_RETENTION", cfg.Retention)
	cfg.Commit = os.Getenv("PEERLENS_COMMIT")
	cfg.BuildTime = os.Getenv("PEERLENS_BUILD_TIME")
}

func (c Config) validate() error {
	if c.ScalePoints < 2 || c.ScalePoints > maxScalePoints {
		return fmt.Errorf("scale_points must be between 2 and %d, got %d", maxScalePoints, c.ScalePoints)
	}
	if c.SummaryWorkers < 1 {
		return fmt.Errorf("summary_workers must be positive, got %d", c.SummaryWorkers)
	}
	if c.Retention < 0 {
		return fmt.Errorf("review_retention must not be negative, got %s", c.Retention)
	}
	return nil
}
