package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWriterLoggerIncludesCallerAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "debug").With(String("comp", "test"))

	log.Info("hello", Int("n", 3), Err(errors.New("boom")))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if m["message"] != "hello" {
		t.Fatalf("message = %v, want hello", m["message"])
	}
	if m["comp"] != "test" {
		t.Fatalf("comp = %v, want test", m["comp"])
	}
	if m["err"] != "boom" {
		t.Fatalf("err = %v, want boom", m["err"])
	}
	caller, _ := m["caller"].(string)
	if !strings.HasPrefix(caller, "logging_test.go:") {
		t.Fatalf("caller = %q, want logging_test.go:<line>", caller)
	}
	if _, ok := m["time"]; !ok {
		t.Fatal("expected time field")
	}
}

func TestCriticalDoesNotExit(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "info")

	log.Critical("config missing")

	if !strings.Contains(buf.String(), `"level":"critical"`) {
		t.Fatalf("expected critical level in %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info leaked through warn logger: %q", buf.String())
	}
	if log.Enabled(LevelInfo) {
		t.Fatal("info should be disabled")
	}
	if !log.Enabled(LevelError) {
		t.Fatal("error should be enabled")
	}
}

func TestZeroLoggerIsNoop(t *testing.T) {
	var log Logger
	if !log.IsZero() {
		t.Fatal("zero logger should report IsZero")
	}
	log.Error("nothing happens")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{" WARNING ", zerolog.WarnLevel},
		{"critical", LevelCritical},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.raw, zerolog.InfoLevel); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestServiceWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "main.log")
	svc, log := New(Config{
		Level: "info",
		File:  FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 1},
	})

	log.Info("written to file", String("k", "v"))
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), `"message":"written to file"`) {
		t.Fatalf("log file missing message: %q", string(b))
	}
	if !strings.Contains(string(b), `"k":"v"`) {
		t.Fatalf("log file missing field: %q", string(b))
	}
}

type fakePoster struct {
	tags    []string
	records []map[string]any
	closed  bool
}

func (p *fakePoster) Post(tag string, message interface{}) error {
	p.tags = append(p.tags, tag)
	m, _ := message.(map[string]any)
	p.records = append(p.records, m)
	return nil
}

func (p *fakePoster) Close() error {
	p.closed = true
	return nil
}

func TestFluentWriterTagsByLevel(t *testing.T) {
	p := &fakePoster{}
	w := newFluentWriter(p, FluentConfig{MinLevel: "warn"})
	log := Logger{base: zerolog.New(zerolog.MultiLevelWriter(w)), hasBase: true}

	log.Info("below min level")
	log.Error("upstream down", String("endpoint", "x"))

	if len(p.tags) != 1 {
		t.Fatalf("posted %d records, want 1", len(p.tags))
	}
	if p.tags[0] != "error" {
		t.Fatalf("tag = %q, want error", p.tags[0])
	}
	if p.records[0]["message"] != "upstream down" || p.records[0]["endpoint"] != "x" {
		t.Fatalf("unexpected record: %#v", p.records[0])
	}
}

func TestServiceFluentSinkFromConfig(t *testing.T) {
	p := &fakePoster{}
	prev := newFluentClient
	newFluentClient = func(FluentConfig) (fluentPoster, error) { return p, nil }
	t.Cleanup(func() { newFluentClient = prev })

	svc, log := New(Config{Level: "info", Fluent: FluentConfig{Enabled: true, Host: "127.0.0.1"}})
	log.Warn("to fluent")
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(p.tags) != 1 || p.tags[0] != "warn" {
		t.Fatalf("tags = %v, want [warn]", p.tags)
	}
	if !p.closed {
		t.Fatal("expected fluent client to be closed")
	}
}
