package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default values",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8080" {
					t.Errorf("expected port 8080, got %s", cfg.Port)
				}
				if cfg.LogLevel != "info" {
					t.Errorf("expected log level info, got %s", cfg.LogLevel)
				}
				if cfg.WSReadTimeout != 60*time.Second {
					t.Errorf("expected WSReadTimeout 60s, got %v", cfg.WSReadTimeout)
				}
				if _, off := time.Date(2024, 1, 1, 0, 0, 0, 0, cfg.WallClock).Zone(); off != -8*3600 {
					t.Errorf("expected wall clock offset -8h, got %ds", off)
				}
				if cfg.RecoveryPolicy.Name() != "matched" {
					t.Errorf("expected matched recovery, got %s", cfg.RecoveryPolicy.Name())
				}
				if !cfg.CapCallRate || !cfg.ExcludeOffHoursCalls || cfg.MatchDID {
					t.Errorf("unexpected policy flags: cap=%v exclude=%v did=%v", cfg.CapCallRate, cfg.ExcludeOffHoursCalls, cfg.MatchDID)
				}
				if cfg.RefreshInterval != 0 {
					t.Errorf("expected refresh disabled, got %v", cfg.RefreshInterval)
				}
				if cfg.RefreshDays != 7 {
					t.Errorf("expected 7 refresh days, got %d", cfg.RefreshDays)
				}
			},
		},
		{
			name: "custom values",
			env: map[string]string{
				"PORT":             "9000",
				"LOG_LEVEL":        "debug",
				"WS_READ_TIMEOUT":  "30",
				"WS_WRITE_TIMEOUT": "5",
				"ALLOWED_ORIGINS":  "http://example.com,http://test.com",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("expected port 9000, got %s", cfg.Port)
				}
				if cfg.LogLevel != "debug" {
					t.Errorf("expected log level debug, got %s", cfg.LogLevel)
				}
				if cfg.WSReadTimeout != 30*time.Second {
					t.Errorf("expected WSReadTimeout 30s, got %v", cfg.WSReadTimeout)
				}
				if cfg.WSWriteTimeout != 5*time.Second {
					t.Errorf("expected WSWriteTimeout 5s, got %v", cfg.WSWriteTimeout)
				}
				if len(cfg.AllowedOrigins) != 2 {
					t.Errorf("expected 2 allowed origins, got %d", len(cfg.AllowedOrigins))
				}
			},
		},
		{
			name: "metric policy",
			env: map[string]string{
				"WALL_CLOCK_OFFSET":       "+05:30",
				"RECOVERY_POLICY":         "window",
				"CAP_CALL_RATE":           "false",
				"EXCLUDE_OFF_HOURS_CALLS": "false",
				"MATCH_DID":               "true",
				"REFRESH_INTERVAL":        "300",
				"REFRESH_DAYS":            "3",
				"HOURS_CONFIG":            "/etc/recovery/hours.yaml",
			},
			check: func(t *testing.T, cfg *Config) {
				if _, off := time.Date(2024, 1, 1, 0, 0, 0, 0, cfg.WallClock).Zone(); off != 5*3600+30*60 {
					t.Errorf("expected wall clock offset +5:30, got %ds", off)
				}
				if cfg.RecoveryPolicy.Name() != "window" {
					t.Errorf("expected window recovery, got %s", cfg.RecoveryPolicy.Name())
				}
				opts := cfg.AggregatorOptions()
				if opts.CapCallRate {
					t.Error("expected uncapped call rate")
				}
				p := cfg.NormalizePolicy()
				if !p.MatchDID || p.ExcludeOffHoursCalls {
					t.Errorf("unexpected normalize policy %+v", p)
				}
				if len(p.Keywords) == 0 {
					t.Error("expected default keywords")
				}
				if cfg.RefreshInterval != 5*time.Minute {
					t.Errorf("expected 5m refresh interval, got %v", cfg.RefreshInterval)
				}
				if cfg.RefreshDays != 3 {
					t.Errorf("expected 3 refresh days, got %d", cfg.RefreshDays)
				}
				if cfg.HoursConfig != "/etc/recovery/hours.yaml" {
					t.Errorf("unexpected hours config %s", cfg.HoursConfig)
				}
			},
		},
		{
			name:    "invalid RECOVERY_POLICY",
			env:     map[string]string{"RECOVERY_POLICY": "nextday"},
			wantErr: true,
		},
		{
			name:    "invalid WALL_CLOCK_OFFSET",
			env:     map[string]string{"WALL_CLOCK_OFFSET": "PST"},
			wantErr: true,
		},
		{
			name:    "invalid CAP_CALL_RATE",
			env:     map[string]string{"CAP_CALL_RATE": "sometimes"},
			wantErr: true,
		},
		{
			name:    "invalid REFRESH_DAYS",
			env:     map[string]string{"REFRESH_DAYS": "0"},
			wantErr: true,
		},
		{
			name: "invalid WS_READ_TIMEOUT",
			env: map[string]string{
				"WS_READ_TIMEOUT": "invalid",
			},
			wantErr: true,
		},
		{
			name: "invalid WS_WRITE_TIMEOUT",
			env: map[string]string{
				"WS_WRITE_TIMEOUT": "invalid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			// Load config
			cfg, err := Load()

			// Check error
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Run custom checks
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestWebSocketConstants(t *testing.T) {
	// Clear environment and set clean defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// PongWait should equal WSReadTimeout
	if cfg.PongWait != cfg.WSReadTimeout {
		t.Errorf("PongWait (%v) should equal WSReadTimeout (%v)", cfg.PongWait, cfg.WSReadTimeout)
	}

	// PingPeriod should be less than PongWait
	if cfg.PingPeriod >= cfg.PongWait {
		t.Errorf("PingPeriod (%v) should be less than PongWait (%v)", cfg.PingPeriod, cfg.PongWait)
	}

	// WriteWait should equal WSWriteTimeout
	if cfg.WriteWait != cfg.WSWriteTimeout {
		t.Errorf("WriteWait (%v) should equal WSWriteTimeout (%v)", cfg.WriteWait, cfg.WSWriteTimeout)
	}

	// MaxMessageSize should be set
	if cfg.MaxMessageSize <= 0 {
		t.Errorf("MaxMessageSize should be positive, got %d", cfg.MaxMessageSize)
	}
}
