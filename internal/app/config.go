package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/leadbot/core/config"
	coredatabase "github.com/m3rciful/leadbot/core/database"
	sheetstore "github.com/m3rciful/leadbot/internal/storage/sheets"
)

// Storage backends selectable via storage.backend.
const (
	BackendPostgres = "postgres"
	BackendSheets   = "sheets"
)

// StorageConfig selects the lead persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend" envconfig:"STORAGE_BACKEND"`
}

// FlowConfig selects the dialogue variant and session lifetime.
type FlowConfig struct {
	Variant string `yaml:"variant" envconfig:"FLOW_VARIANT"`
	// SessionTTLMinutes evicts dialogues idle longer than this; 0 disables.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" envconfig:"FLOW_SESSION_TTL_MINUTES"`
}

// SessionTTL converts the configured minutes to a duration.
func (f FlowConfig) SessionTTL() time.Duration {
	return time.Duration(f.SessionTTLMinutes) * time.Minute
}

// Config is the full application configuration: the reusable core config
// plus the lead capture specific sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Storage  StorageConfig       `yaml:"storage"`
	Sheets   sheetstore.Config   `yaml:"sheets"`
	Flow     FlowConfig          `yaml:"flow"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads the YAML file, applies env overrides and validates.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	backend := strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if backend == "" {
		backend = BackendSheets
	}
	switch backend {
	case BackendPostgres:
	case BackendSheets:
		if strings.TrimSpace(cfg.Sheets.SpreadsheetID) == "" {
			return fmt.Errorf("sheets.spreadsheet_id is required when storage.backend is 'sheets'")
		}
		if strings.TrimSpace(cfg.Sheets.CredentialsFile) == "" {
			return fmt.Errorf("sheets.credentials_file is required when storage.backend is 'sheets'")
		}
	default:
		return fmt.Errorf("invalid storage.backend %q; allowed: postgres, sheets", cfg.Storage.Backend)
	}
	cfg.Storage.Backend = backend

	if cfg.Flow.SessionTTLMinutes < 0 {
		return fmt.Errorf("flow.session_ttl_minutes must be >= 0")
	}
	return nil
}
