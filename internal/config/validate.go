package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Recollect.BaseURL == "" {
		return fmt.Errorf("recollect.base_url is required")
	}
	if c.Recollect.ServiceID <= 0 {
		return fmt.Errorf("recollect.service_id must be > 0 (got %d)", c.Recollect.ServiceID)
	}

	if err := c.Sync.validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := c.Calendar.validate(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}

	if c.Suggest.MinQueryLength < 1 {
		return fmt.Errorf("suggest.min_query_length must be >= 1 (got %d)", c.Suggest.MinQueryLength)
	}

	if err := c.Auth.validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	return nil
}

func (s *SyncConfig) validate() error {
	if s.MonthsAhead <= 0 {
		return fmt.Errorf("months_ahead must be > 0 (got %d)", s.MonthsAhead)
	}
	if s.PadBeforeDays < 0 || s.PadAfterDays < 0 {
		return fmt.Errorf("pad days must be >= 0 (got %d/%d)", s.PadBeforeDays, s.PadAfterDays)
	}
	if s.RetentionDays < 0 {
		return fmt.Errorf("retention_days must be >= 0 (got %d)", s.RetentionDays)
	}
	if s.RefreshEnabled {
		if _, err := cron.ParseStandard(s.RefreshCron); err != nil {
			return fmt.Errorf("refresh_cron %q: %w", s.RefreshCron, err)
		}
	}
	return nil
}

func (c *CalendarConfig) validate() error {
	if c.MonthsAhead <= 0 {
		return fmt.Errorf("months_ahead must be > 0 (got %d)", c.MonthsAhead)
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("time_zone %q: %w", c.TimeZone, err)
	}
	c.Location = loc

	offset, err := ParseClock(c.ReminderTime)
	if err != nil {
		return fmt.Errorf("reminder_time: %w", err)
	}
	c.ReminderOffset = offset

	return nil
}

func (a *AuthConfig) validate() error {
	if a.User == "" && a.PasswordHash == "" {
		return nil
	}
	if a.User == "" || a.PasswordHash == "" {
		return fmt.Errorf("user and password_hash must be set together")
	}
	if !strings.HasPrefix(a.PasswordHash, "$argon2id$") || strings.Count(a.PasswordHash, "$") != 5 {
		return fmt.Errorf("password_hash is not an argon2id hash")
	}
	return nil
}

// ParseClock parses a "HH:MM" time of day into an offset from midnight.
func ParseClock(raw string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", raw, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
