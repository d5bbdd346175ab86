package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	return &Config{
		Database:  DatabaseConfig{Path: "./test.db", BusyTimeout: time.Second},
		Recollect: RecollectConfig{BaseURL: "https://api.recollect.net", Area: "RegionOfWaterlooON", ServiceID: 1110, Locale: "en"},
		Sync:      SyncConfig{MonthsAhead: 4, RefreshEnabled: true, RefreshCron: "0 */6 * * *"},
		Calendar:  CalendarConfig{MonthsAhead: 3, TimeZone: "UTC", ReminderTime: "07:00"},
		Suggest:   SuggestConfig{MinQueryLength: 3, Limit: 10},
		Log:       LogConfig{Level: "info", Format: "json"},
	}
}

const validYAML = `
server:
  host: "0.0.0.0"
  port: 9090
  read_timeout: "5s"
  shutdown_timeout: "5s"

database:
  path: "/var/lib/wastecal/ecoscan.db"
  busy_timeout: "2s"

recollect:
  base_url: "http://localhost:9999"
  area: "Guelph"
  service_id: 2222
  locale: "fr"
  timeout: "3s"

ecoscan:
  url: "http://localhost:7000/detect-image/"

sync:
  months_ahead: 6
  pad_before_days: 7
  pad_after_days: 2
  refresh_enabled: true
  refresh_cron: "30 5 * * *"

calendar:
  months_ahead: 2
  time_zone: "America/Toronto"
  reminder_time: "18:30"

suggest:
  min_query_length: 4
  limit: 5

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.Path != "/var/lib/wastecal/ecoscan.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Database.BusyTimeout != 2*time.Second {
		t.Errorf("database.busy_timeout = %v, want 2s", cfg.Database.BusyTimeout)
	}

	// Recollect
	if cfg.Recollect.BaseURL != "http://localhost:9999" {
		t.Errorf("recollect.base_url = %q", cfg.Recollect.BaseURL)
	}
	if cfg.Recollect.ServiceID != 2222 {
		t.Errorf("recollect.service_id = %d, want 2222", cfg.Recollect.ServiceID)
	}
	if cfg.Recollect.UserAgent != "wastecal" {
		t.Errorf("recollect.user_agent = %q, want default", cfg.Recollect.UserAgent)
	}

	// EcoScan
	if cfg.EcoScan.URL != "http://localhost:7000/detect-image/" {
		t.Errorf("ecoscan.url = %q", cfg.EcoScan.URL)
	}
	if cfg.EcoScan.Timeout != 60*time.Second {
		t.Errorf("ecoscan.timeout = %v, want default 60s", cfg.EcoScan.Timeout)
	}

	// Sync
	if cfg.Sync.MonthsAhead != 6 {
		t.Errorf("sync.months_ahead = %d, want 6", cfg.Sync.MonthsAhead)
	}
	if cfg.Sync.PadBeforeDays != 7 || cfg.Sync.PadAfterDays != 2 {
		t.Errorf("sync pads = %d/%d, want 7/2", cfg.Sync.PadBeforeDays, cfg.Sync.PadAfterDays)
	}

	// Calendar
	if cfg.Calendar.MonthsAhead != 2 {
		t.Errorf("calendar.months_ahead = %d, want 2", cfg.Calendar.MonthsAhead)
	}
	if cfg.Calendar.Location == nil || cfg.Calendar.Location.String() != "America/Toronto" {
		t.Errorf("calendar.location = %v", cfg.Calendar.Location)
	}
	if cfg.Calendar.ReminderOffset != 18*time.Hour+30*time.Minute {
		t.Errorf("calendar.reminder_offset = %v, want 18h30m", cfg.Calendar.ReminderOffset)
	}

	// Suggest
	if cfg.Suggest.MinQueryLength != 4 {
		t.Errorf("suggest.min_query_length = %d, want 4", cfg.Suggest.MinQueryLength)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("SYNC_MONTHS_AHEAD", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Sync.MonthsAhead != 1 {
		t.Errorf("sync.months_ahead = %d, want 1 (ENV override)", cfg.Sync.MonthsAhead)
	}
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Sync.MonthsAhead != 4 {
		t.Errorf("sync.months_ahead = %d, want 4 (default)", cfg.Sync.MonthsAhead)
	}
	if cfg.Calendar.MonthsAhead != 3 {
		t.Errorf("calendar.months_ahead = %d, want 3 (default)", cfg.Calendar.MonthsAhead)
	}
	if cfg.Recollect.ServiceID != 1110 {
		t.Errorf("recollect.service_id = %d, want 1110 (default)", cfg.Recollect.ServiceID)
	}
	if cfg.Sync.RetentionDays != 365 {
		t.Errorf("sync.retention_days = %d, want 365 (default)", cfg.Sync.RetentionDays)
	}
	if cfg.Suggest.MinQueryLength != 3 {
		t.Errorf("suggest.min_query_length = %d, want 3 (default)", cfg.Suggest.MinQueryLength)
	}
	if cfg.Auth.Enabled() {
		t.Error("auth should be disabled by default")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Calendar.ReminderOffset != 7*time.Hour {
		t.Errorf("reminder offset = %v, want 7h", cfg.Calendar.ReminderOffset)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty database path", mutate: func(c *Config) { c.Database.Path = " " }},
		{name: "empty base url", mutate: func(c *Config) { c.Recollect.BaseURL = "" }},
		{name: "zero service id", mutate: func(c *Config) { c.Recollect.ServiceID = 0 }},
		{name: "zero sync months", mutate: func(c *Config) { c.Sync.MonthsAhead = 0 }},
		{name: "negative pad", mutate: func(c *Config) { c.Sync.PadBeforeDays = -1 }},
		{name: "negative retention", mutate: func(c *Config) { c.Sync.RetentionDays = -1 }},
		{name: "bad cron", mutate: func(c *Config) { c.Sync.RefreshCron = "every day" }},
		{name: "zero calendar months", mutate: func(c *Config) { c.Calendar.MonthsAhead = 0 }},
		{name: "unknown zone", mutate: func(c *Config) { c.Calendar.TimeZone = "Mars/Olympus" }},
		{name: "bad reminder time", mutate: func(c *Config) { c.Calendar.ReminderTime = "7am" }},
		{name: "zero min query", mutate: func(c *Config) { c.Suggest.MinQueryLength = 0 }},
		{name: "auth user without hash", mutate: func(c *Config) { c.Auth.User = "admin" }},
		{name: "auth plain password", mutate: func(c *Config) {
			c.Auth.User = "admin"
			c.Auth.PasswordHash = "hunter2"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_BadCronIgnoredWhenRefreshDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.RefreshEnabled = false
	cfg.Sync.RefreshCron = "never"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_AuthHashAccepted(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.User = "admin"
	cfg.Auth.PasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Auth.Enabled() {
		t.Error("auth should be enabled")
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("06:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 6*time.Hour+45*time.Minute {
		t.Errorf("ParseClock = %v, want 6h45m", got)
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Error("expected error for hour 25")
	}
}
