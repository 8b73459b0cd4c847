package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Key patterns whose values are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
}

// Keys that carry client data; their values are shortened to a preview.
var payloadKeys = map[string]bool{
	"value":   true,
	"payload": true,
	"message": true,
	"args":    true,
}

// PayloadPreviewLen is the number of leading bytes of a client payload
// kept in log output.
const PayloadPreviewLen = 32

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if payloadKeys[strings.ToLower(a.Key)] {
			return slog.String(a.Key, Preview(strVal))
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// Preview shortens s to PayloadPreviewLen bytes, noting the full length.
func Preview(s string) string {
	if len(s) <= PayloadPreviewLen {
		return s
	}
	return s[:PayloadPreviewLen] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
