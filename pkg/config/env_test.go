package config

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback string
		expected string
	}{
		{name: "unset_uses_default", value: "", fallback: "netflix-events", expected: "netflix-events"},
		{name: "set_wins", value: "netflix-events-dlq", fallback: "netflix-events", expected: "netflix-events-dlq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EVENTS_TOPIC", tt.value)
			if got := GetEnv("EVENTS_TOPIC", tt.fallback); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int
		expected int
	}{
		{name: "unset_uses_default", value: "", fallback: 100, expected: 100},
		{name: "parses_value", value: "250", fallback: 100, expected: 250},
		{name: "parse_error_uses_default", value: "fast", fallback: 100, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GENERATOR_EVENTS_PER_SECOND", tt.value)
			if got := GetEnvInt("GENERATOR_EVENTS_PER_SECOND", tt.fallback); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		expected bool
	}{
		{name: "unset_uses_default", value: "", fallback: false, expected: false},
		{name: "true", value: "true", fallback: false, expected: true},
		{name: "one_is_true", value: "1", fallback: false, expected: true},
		{name: "false_overrides_default", value: "false", fallback: true, expected: false},
		{name: "parse_error_uses_default", value: "maybe", fallback: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PROCESSOR_REDELIVER_ON_STORE_FAILURE", tt.value)
			got := GetEnvBool("PROCESSOR_REDELIVER_ON_STORE_FAILURE", tt.fallback)
			if got != tt.expected {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		value    string
		expected logrus.Level
	}{
		{value: "debug", expected: logrus.DebugLevel},
		{value: "warn", expected: logrus.WarnLevel},
		{value: "error", expected: logrus.ErrorLevel},
		{value: "", expected: logrus.InfoLevel},
		{value: "verbose", expected: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Setenv("LOG_LEVEL", tt.value)
		if got := GetLogLevel(); got != tt.expected {
			t.Fatalf("LOG_LEVEL=%q: expected %v, got %v", tt.value, tt.expected, got)
		}
	}
}

func TestRequireEnvReturnsTrimmedValue(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "  localhost:9092 ")
	if got := RequireEnv("KAFKA_BROKERS"); got != "localhost:9092" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestLoadEnvWithoutFiles(t *testing.T) {
	// No .env in the test working directory; must not panic or error.
	logger := logrus.New()
	LoadEnv(logger)
	LoadEnv(nil)
}
