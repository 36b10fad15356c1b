package config

import (
	"time"

	"homeworkbot/internal/practicum"
)

// Config is the effective runtime configuration, loaded once at startup.
//
// Secrets (tokens) come from the environment only; the optional settings file
// carries non-secret tunables.
type Config struct {
	Practicum PracticumConfig
	Telegram  TelegramConfig
	Poll      PollConfig
	Logging   LoggingConfig
}

type PracticumConfig struct {
	Token    string
	Endpoint string
	// Timeout bounds a single status request. Zero disables the client timeout.
	Timeout time.Duration
}

type TelegramConfig struct {
	Token  string
	ChatID int64
	// RawChatID keeps the env value as given, for error messages.
	RawChatID string
	// RatePerSec caps outgoing messages.
	RatePerSec int
	// Timeout bounds each Bot API call.
	Timeout time.Duration
	// APIURL points at a self-hosted Bot API server. Empty means api.telegram.org.
	APIURL string
}

type PollConfig struct {
	Interval time.Duration
}

type LoggingConfig struct {
	Level   string
	Console bool
	File    LoggingFile
	Fluent  LoggingFluent
}

type LoggingFile struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type LoggingFluent struct {
	Enabled  bool
	Host     string
	Port     int
	MinLevel string
}

// Defaults.
const (
	DefaultEndpoint        = practicum.DefaultEndpoint
	DefaultInterval        = 60 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
	DefaultRatePerSec      = 1
	DefaultTelegramTimeout = 10 * time.Second
	DefaultLogFile         = "main.log"
	DefaultLogMaxSizeMB    = 50
	DefaultLogMaxBackups   = 5
	DefaultFluentPort      = 24224
)

// Environment keys.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"

	EnvSettingsFile    = "HOMEWORK_BOT_CONFIG"
	EnvEndpoint        = "PRACTICUM_ENDPOINT"
	EnvInterval        = "POLL_INTERVAL"
	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvTelegramRate    = "TELEGRAM_RATE_PER_SEC"
	EnvTelegramTimeout = "TELEGRAM_TIMEOUT"
	EnvTelegramAPIURL  = "TELEGRAM_API_URL"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFile         = "LOG_FILE"
	EnvLogConsole      = "LOG_CONSOLE"
	EnvFluentEnabled   = "FLUENTBIT_ENABLED"
	EnvFluentHost      = "FLUENTBIT_HOST"
	EnvFluentPort      = "FLUENTBIT_PORT"
	EnvFluentLevel     = "FLUENTBIT_LOG_LEVEL"
)

// settingsFile is the on-disk shape of the optional settings file (JSON or YAML).
// Durations are Go duration strings (e.g. "60s", "2m").
type settingsFile struct {
	Endpoint        string          `json:"endpoint,omitempty" yaml:"endpoint"`
	PollInterval    *Duration       `json:"poll_interval,omitempty" yaml:"poll_interval"`
	RequestTimeout  *Duration       `json:"request_timeout,omitempty" yaml:"request_timeout"`
	TelegramRate    int             `json:"telegram_rate_per_sec,omitempty" yaml:"telegram_rate_per_sec"`
	TelegramTimeout *Duration       `json:"telegram_timeout,omitempty" yaml:"telegram_timeout"`
	Logging         *loggingSection `json:"logging,omitempty" yaml:"logging"`
}

type loggingSection struct {
	Level   string         `json:"level,omitempty" yaml:"level"`
	Console *bool          `json:"console,omitempty" yaml:"console"`
	File    *fileSection   `json:"file,omitempty" yaml:"file"`
	Fluent  *fluentSection `json:"fluent,omitempty" yaml:"fluent"`
}

type fileSection struct {
	Enabled    *bool  `json:"enabled,omitempty" yaml:"enabled"`
	Path       string `json:"path,omitempty" yaml:"path"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress"`
}

type fluentSection struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Host     string `json:"host,omitempty" yaml:"host"`
	Port     int    `json:"port,omitempty" yaml:"port"`
	MinLevel string `json:"min_level,omitempty" yaml:"min_level"`
}
