package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// MissingEnvError lists required environment variables that are unset or blank.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Keys, ", ")
}

// Load builds the configuration from (in order of increasing precedence)
// defaults, the optional settings file named by HOMEWORK_BOT_CONFIG and the
// process environment. envFiles are dotenv files loaded first; with none given
// "./.env" is tried. Missing dotenv files are ignored, and variables already
// present in the environment are never overwritten by them.
//
// The returned config is validated; a nil error means it is safe to start.
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotenv(envFiles); err != nil {
		return nil, err
	}

	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv(EnvSettingsFile)); path != "" {
		sf, err := parseSettingsFile(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.applySettings(sf); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a config with every tunable set and no secrets.
func Defaults() *Config {
	return &Config{
		Practicum: PracticumConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  DefaultRequestTimeout,
		},
		Telegram: TelegramConfig{RatePerSec: DefaultRatePerSec, Timeout: DefaultTelegramTimeout},
		Poll:     PollConfig{Interval: DefaultInterval},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File: LoggingFile{
				Enabled:    true,
				Path:       DefaultLogFile,
				MaxSizeMB:  DefaultLogMaxSizeMB,
				MaxBackups: DefaultLogMaxBackups,
			},
			Fluent: LoggingFluent{Port: DefaultFluentPort, MinLevel: "info"},
		},
	}
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func parseSettingsFile(path string) (*settingsFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sf, err := decodeSettings(path, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

func (c *Config) applySettings(sf *settingsFile) error {
	if s := strings.TrimSpace(sf.Endpoint); s != "" {
		c.Practicum.Endpoint = s
	}
	if sf.PollInterval != nil && *sf.PollInterval > 0 {
		c.Poll.Interval = sf.PollInterval.Std()
	}
	if sf.RequestTimeout != nil {
		c.Practicum.Timeout = sf.RequestTimeout.Std()
	}
	if sf.TelegramTimeout != nil && *sf.TelegramTimeout > 0 {
		c.Telegram.Timeout = sf.TelegramTimeout.Std()
	}
	if sf.TelegramRate > 0 {
		c.Telegram.RatePerSec = sf.TelegramRate
	}

	lg := sf.Logging
	if lg == nil {
		return nil
	}
	if s := strings.TrimSpace(lg.Level); s != "" {
		c.Logging.Level = s
	}
	if lg.Console != nil {
		c.Logging.Console = *lg.Console
	}
	if f := lg.File; f != nil {
		if f.Enabled != nil {
			c.Logging.File.Enabled = *f.Enabled
		}
		if s := strings.TrimSpace(f.Path); s != "" {
			c.Logging.File.Path = s
		}
		if f.MaxSizeMB > 0 {
			c.Logging.File.MaxSizeMB = f.MaxSizeMB
		}
		if f.MaxBackups > 0 {
			c.Logging.File.MaxBackups = f.MaxBackups
		}
		if f.MaxAgeDays > 0 {
			c.Logging.File.MaxAgeDays = f.MaxAgeDays
		}
		c.Logging.File.Compress = f.Compress
	}
	if f := lg.Fluent; f != nil {
		c.Logging.Fluent.Enabled = f.Enabled
		if s := strings.TrimSpace(f.Host); s != "" {
			c.Logging.Fluent.Host = s
		}
		if f.Port > 0 {
			c.Logging.Fluent.Port = f.Port
		}
		if s := strings.TrimSpace(f.MinLevel); s != "" {
			c.Logging.Fluent.MinLevel = s
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Practicum.Token = strings.TrimSpace(os.Getenv(EnvPracticumToken))
	c.Telegram.Token = strings.TrimSpace(os.Getenv(EnvTelegramToken))
	c.Telegram.RawChatID = strings.TrimSpace(os.Getenv(EnvTelegramChatID))

	if s, ok := lookupEnv(EnvEndpoint); ok {
		c.Practicum.Endpoint = s
	}
	if s, ok := lookupEnv(EnvInterval); ok {
		d, err := envDuration(EnvInterval, s)
		if err != nil {
			return err
		}
		c.Poll.Interval = d
	}
	if s, ok := lookupEnv(EnvRequestTimeout); ok {
		d, err := envDuration(EnvRequestTimeout, s)
		if err != nil {
			return err
		}
		c.Practicum.Timeout = d
	}
	if s, ok := lookupEnv(EnvTelegramTimeout); ok {
		d, err := envDuration(EnvTelegramTimeout, s)
		if err != nil {
			return err
		}
		c.Telegram.Timeout = d
	}
	if s, ok := lookupEnv(EnvTelegramAPIURL); ok {
		c.Telegram.APIURL = s
	}
	if s, ok := lookupEnv(EnvTelegramRate); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: must be a positive integer, got %q", EnvTelegramRate, s)
		}
		c.Telegram.RatePerSec = n
	}
	if s, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = s
	}
	if s, ok := lookupEnv(EnvLogFile); ok {
		// "-" turns the file sink off.
		if s == "-" {
			c.Logging.File.Enabled = false
		} else {
			c.Logging.File.Enabled = true
			c.Logging.File.Path = s
		}
	}
	if s, ok := lookupEnv(EnvLogConsole); ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogConsole, err)
		}
		c.Logging.Console = b
	}
	if s, ok := lookupEnv(EnvFluentEnabled); ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFluentEnabled, err)
		}
		c.Logging.Fluent.Enabled = b
	}
	if s, ok := lookupEnv(EnvFluentHost); ok {
		c.Logging.Fluent.Host = s
	}
	if s, ok := lookupEnv(EnvFluentPort); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: must be a positive integer, got %q", EnvFluentPort, s)
		}
		c.Logging.Fluent.Port = n
	}
	if s, ok := lookupEnv(EnvFluentLevel); ok {
		c.Logging.Fluent.MinLevel = s
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Validate fails fast on anything the poll loop can't run without.
// All missing secrets are reported together.
func (c *Config) Validate() error {
	var missing []string
	if c.Practicum.Token == "" {
		missing = append(missing, EnvPracticumToken)
	}
	if c.Telegram.Token == "" {
		missing = append(missing, EnvTelegramToken)
	}
	if c.Telegram.RawChatID == "" && c.Telegram.ChatID == 0 {
		missing = append(missing, EnvTelegramChatID)
	}
	if len(missing) > 0 {
		return &MissingEnvError{Keys: missing}
	}

	if c.Telegram.RawChatID != "" {
		id, err := strconv.ParseInt(c.Telegram.RawChatID, 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("%s: invalid chat id %q", EnvTelegramChatID, c.Telegram.RawChatID)
		}
		c.Telegram.ChatID = id
	}
	if strings.TrimSpace(c.Practicum.Endpoint) == "" {
		return errors.New("practicum endpoint is empty")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll interval must be > 0, got %s", c.Poll.Interval)
	}
	if c.Practicum.Timeout < 0 {
		return fmt.Errorf("request timeout must be >= 0, got %s", c.Practicum.Timeout)
	}
	if c.Telegram.Timeout <= 0 {
		return fmt.Errorf("telegram timeout must be > 0, got %s", c.Telegram.Timeout)
	}
	if c.Telegram.RatePerSec <= 0 {
		c.Telegram.RatePerSec = DefaultRatePerSec
	}
	if c.Logging.Fluent.Enabled && strings.TrimSpace(c.Logging.Fluent.Host) == "" {
		return fmt.Errorf("%s is required when fluent logging is enabled", EnvFluentHost)
	}
	return nil
}

// Redacted summarizes the effective config without secrets, for the startup log line.
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		"endpoint":         c.Practicum.Endpoint,
		"request_timeout":  c.Practicum.Timeout.String(),
		"poll_interval":    c.Poll.Interval.String(),
		"chat_id":          c.Telegram.ChatID,
		"telegram_rate":    c.Telegram.RatePerSec,
		"telegram_timeout": c.Telegram.Timeout.String(),
		"telegram_api":     c.Telegram.APIURL != "",
		"log_level":        c.Logging.Level,
		"log_file":         fileSummary(c.Logging.File),
		"fluent":           c.Logging.Fluent.Enabled,
	}
}

func fileSummary(f LoggingFile) string {
	if !f.Enabled {
		return "off"
	}
	return fmt.Sprintf("%s (%dMB x%d)", f.Path, f.MaxSizeMB, f.MaxBackups)
}
