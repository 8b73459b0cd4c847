package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactSensitive_SensitiveKeyName(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"password", "hunter2", redactedValue},
		{"auth_secret", "abc", redactedValue},
		{"Token", "xyz", redactedValue},
		{"password", "", ""}, // empty stays empty
		{"key", "user:1", "user:1"},
		{"remote", "127.0.0.1:5555", "127.0.0.1:5555"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got := redactSensitive(slog.String(tt.key, tt.value))
			if got.Value.String() != tt.expected {
				t.Errorf("redactSensitive(%s=%q) = %q, want %q", tt.key, tt.value, got.Value.String(), tt.expected)
			}
		})
	}
}

func TestRedactSensitive_Payload(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := redactSensitive(slog.String("value", long))
	want := strings.Repeat("a", PayloadPreviewLen) + "...(100 bytes)"
	if got.Value.String() != want {
		t.Errorf("payload preview = %q, want %q", got.Value.String(), want)
	}

	short := redactSensitive(slog.String("value", "bar"))
	if short.Value.String() != "bar" {
		t.Errorf("short payload changed to %q", short.Value.String())
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	attr := slog.Group("cmd", slog.String("password", "p"), slog.String("name", "SET"))
	got := redactSensitive(attr)

	group := got.Value.Group()
	if len(group) != 2 {
		t.Fatalf("group len = %d, want 2", len(group))
	}
	if group[0].Value.String() != redactedValue {
		t.Errorf("nested password = %q, want redacted", group[0].Value.String())
	}
	if group[1].Value.String() != "SET" {
		t.Errorf("nested name = %q, want SET", group[1].Value.String())
	}
}

func TestRedaction_EndToEnd(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("command", "name", "SET", "value", strings.Repeat("x", 64), "secret", "s3cr3t")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse JSON log: %v", err)
	}
	if entry["secret"] != redactedValue {
		t.Errorf("secret = %v, want redacted", entry["secret"])
	}
	if v, _ := entry["value"].(string); !strings.HasSuffix(v, "...(64 bytes)") {
		t.Errorf("value = %q, want a preview", v)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, k := range []string{"password", "PASSWORD", "api_secret", "auth"} {
		if !IsSensitiveKey(k) {
			t.Errorf("IsSensitiveKey(%q) = false", k)
		}
	}
	for _, k := range []string{"key", "addr", "conn_id"} {
		if IsSensitiveKey(k) {
			t.Errorf("IsSensitiveKey(%q) = true", k)
		}
	}
}
