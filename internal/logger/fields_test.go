package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}
	if len(StringFields()) != 0 {
		t.Fatalf("expected no fields")
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	enriched := WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	enriched.Info("does not panic")
}

func TestAIFields(t *testing.T) {
	fields := AIFields("  gemini  ", "model-v1")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != FieldProvider || fields[0].String != "gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}
	if fields[1].Key != FieldModel || fields[1].String != "model-v1" {
		t.Fatalf("unexpected model field: %+v", fields[1])
	}
	if len(AIFields("", "")) != 0 {
		t.Fatalf("expected empty fields")
	}
}

func TestScopedLoggers(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ForSession(base, "s-1").Info("session log")
	ForProvider(base, "local").Info("provider log")
	ForSession(base, " ").Info("unscoped log")

	entries := observed.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if got := entries[0].ContextMap()[FieldSession]; got != "s-1" {
		t.Fatalf("expected session field, got %v", got)
	}
	if got := entries[1].ContextMap()[FieldProvider]; got != "local" {
		t.Fatalf("expected provider field, got %v", got)
	}
	if len(entries[2].Context) != 0 {
		t.Fatalf("expected no fields for blank session id, got %v", entries[2].Context)
	}
}

func TestConfigLevels(t *testing.T) {
	cfg := Config(true, true)
	if cfg.Encoding != "json" || cfg.Level.Level() != zapcore.DebugLevel {
		t.Fatalf("unexpected config: %s %s", cfg.Encoding, cfg.Level.Level())
	}
	cfg = Config(false, false)
	if cfg.Encoding != "console" || cfg.Level.Level() != zapcore.InfoLevel {
		t.Fatalf("unexpected config: %s %s", cfg.Encoding, cfg.Level.Level())
	}
}
