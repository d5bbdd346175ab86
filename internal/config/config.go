package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Recollect RecollectConfig `yaml:"recollect"`
	EcoScan   EcoScanConfig   `yaml:"ecoscan"`
	Sync      SyncConfig      `yaml:"sync"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Suggest   SuggestConfig   `yaml:"suggest"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds the local SQLite store settings.
type DatabaseConfig struct {
	Path        string        `yaml:"path"         env:"DATABASE_PATH"         env-default:"./ecoscan.db"`
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"DATABASE_BUSY_TIMEOUT" env-default:"5s"`
}

// RecollectConfig holds settings for the remote schedule and suggestion feeds.
type RecollectConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"RECOLLECT_BASE_URL"   env-default:"https://api.recollect.net"`
	Area      string        `yaml:"area"       env:"RECOLLECT_AREA"       env-default:"RegionOfWaterlooON"`
	ServiceID int           `yaml:"service_id" env:"RECOLLECT_SERVICE_ID" env-default:"1110"`
	Locale    string        `yaml:"locale"     env:"RECOLLECT_LOCALE"     env-default:"en"`
	Timeout   time.Duration `yaml:"timeout"    env:"RECOLLECT_TIMEOUT"    env-default:"15s"`
	UserAgent string        `yaml:"user_agent" env:"RECOLLECT_USER_AGENT" env-default:"wastecal"`
}

// EcoScanConfig holds settings for the image classification endpoint.
// An empty URL disables classification.
type EcoScanConfig struct {
	URL           string        `yaml:"url"             env:"ECOSCAN_URL"`
	Timeout       time.Duration `yaml:"timeout"         env:"ECOSCAN_TIMEOUT"         env-default:"60s"`
	MaxImageBytes int64         `yaml:"max_image_bytes" env:"ECOSCAN_MAX_IMAGE_BYTES" env-default:"10485760"`
	// RateLimit caps scan requests per client host per minute; 0 disables it.
	RateLimit int `yaml:"rate_limit" env:"ECOSCAN_RATE_LIMIT" env-default:"20"`
}

// SyncConfig holds defaults for the sync window and background refresh.
type SyncConfig struct {
	MonthsAhead    int    `yaml:"months_ahead"    env:"SYNC_MONTHS_AHEAD"    env-default:"4"`
	PadBeforeDays  int    `yaml:"pad_before_days" env:"SYNC_PAD_BEFORE_DAYS" env-default:"0"`
	PadAfterDays   int    `yaml:"pad_after_days"  env:"SYNC_PAD_AFTER_DAYS"  env-default:"0"`
	RefreshEnabled bool   `yaml:"refresh_enabled" env:"SYNC_REFRESH_ENABLED" env-default:"true"`
	RefreshCron    string `yaml:"refresh_cron"    env:"SYNC_REFRESH_CRON"    env-default:"0 */6 * * *"`
	RetentionDays  int    `yaml:"retention_days"  env:"SYNC_RETENTION_DAYS"  env-default:"365"`
}

// CalendarConfig holds settings for calendar projections and export.
type CalendarConfig struct {
	MonthsAhead  int    `yaml:"months_ahead"  env:"CALENDAR_MONTHS_AHEAD"  env-default:"3"`
	TimeZone     string `yaml:"time_zone"     env:"CALENDAR_TIME_ZONE"     env-default:"Local"`
	ReminderTime string `yaml:"reminder_time" env:"CALENDAR_REMINDER_TIME" env-default:"07:00"`

	// Location is resolved from TimeZone during validation.
	Location *time.Location `yaml:"-" env:"-"`
	// ReminderOffset is ReminderTime as an offset from midnight, set during validation.
	ReminderOffset time.Duration `yaml:"-" env:"-"`
}

// SuggestConfig holds location suggestion settings.
type SuggestConfig struct {
	MinQueryLength int `yaml:"min_query_length" env:"SUGGEST_MIN_QUERY_LENGTH" env-default:"3"`
	Limit          int `yaml:"limit"            env:"SUGGEST_LIMIT"            env-default:"10"`
}

// AuthConfig holds optional HTTP basic-auth credentials for mutating
// endpoints. PasswordHash is an argon2id hash produced by
// "wastecal hash-password".
type AuthConfig struct {
	User         string `yaml:"user"          env:"AUTH_USER"`
	PasswordHash string `yaml:"password_hash" env:"AUTH_PASSWORD_HASH"`
}

// Enabled reports whether basic auth is configured.
func (c AuthConfig) Enabled() bool {
	return c.User != "" && c.PasswordHash != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
