package logx

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/rs/zerolog"
)

// FluentConfig controls the optional Fluent Bit / fluentd sink.
type FluentConfig struct {
	Enabled   bool
	Host      string
	Port      int
	TagPrefix string
	// MinLevel defaults to info.
	MinLevel string
}

type fluentPoster interface {
	Post(tag string, message interface{}) error
	Close() error
}

// newFluentClient is swapped in tests.
var newFluentClient = func(cfg FluentConfig) (fluentPoster, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("fluent host is empty")
	}
	port := cfg.Port
	if port <= 0 {
		port = 24224
	}
	// Async keeps a slow collector from stalling the caller.
	return fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: port,
		TagPrefix:  tagPrefix(cfg),
		Async:      true,
	})
}

func tagPrefix(cfg FluentConfig) string {
	if p := strings.TrimSpace(cfg.TagPrefix); p != "" {
		return p
	}
	return "homework-bot"
}

// fluentWriter re-posts each zerolog JSON line as a fluent record tagged by level.
type fluentWriter struct {
	client   fluentPoster
	minLevel zerolog.Level
}

func newFluentWriter(client fluentPoster, cfg FluentConfig) *fluentWriter {
	return &fluentWriter{client: client, minLevel: parseLevel(cfg.MinLevel, zerolog.InfoLevel)}
}

func (w *fluentWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.InfoLevel, p)
}

func (w *fluentWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if w.client == nil || level < w.minLevel {
		return len(p), nil
	}
	var m map[string]any
	if err := json.Unmarshal(p, &m); err != nil {
		m = map[string]any{"message": strings.TrimSpace(string(p))}
	}
	tag, _ := m[zerolog.LevelFieldName].(string)
	if tag == "" {
		tag = level.String()
	}
	// Delivery is best-effort; a broken collector must not break the other sinks.
	_ = w.client.Post(tag, m)
	return len(p), nil
}
