package app

import (
	"testing"
	"time"
)

func TestNormalizeStorageBackend(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults to sheets",
			mutate: func(c *Config) { c.Storage.Backend = "" },
		},
		{
			name:   "postgres needs no sheets config",
			mutate: func(c *Config) { c.Storage.Backend = "Postgres"; c.Sheets.SpreadsheetID = "" },
		},
		{
			name:    "sheets without spreadsheet id",
			mutate:  func(c *Config) { c.Sheets.SpreadsheetID = "" },
			wantErr: true,
		},
		{
			name:    "sheets without credentials",
			mutate:  func(c *Config) { c.Sheets.CredentialsFile = "" },
			wantErr: true,
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: true,
		},
		{
			name:    "negative session ttl",
			mutate:  func(c *Config) { c.Flow.SessionTTLMinutes = -1 },
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Storage.Backend = "sheets"
			cfg.Sheets.SpreadsheetID = "sheet-id"
			cfg.Sheets.CredentialsFile = "creds.json"
			tc.mutate(cfg)

			err := normalize(cfg)
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFlowSessionTTL(t *testing.T) {
	f := FlowConfig{SessionTTLMinutes: 30}
	if got := f.SessionTTL(); got != 30*time.Minute {
		t.Fatalf("got %v", got)
	}
	if got := (FlowConfig{}).SessionTTL(); got != 0 {
		t.Fatalf("zero minutes must disable the ttl, got %v", got)
	}
}
