package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamingEventOmitsAbsentOptionalFields(t *testing.T) {
	event := StreamingEvent{
		EventID:   "evt-1",
		EventType: EventVideoStart,
		UserID:    "U0000001",
		ContentID: "NF001",
		Timestamp: "2025-01-15T14:30:00Z",
	}

	b, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(b)
	if strings.Contains(s, "buffer_duration_ms") {
		t.Fatal("absent buffer_duration_ms must be omitted, not null")
	}
	if strings.Contains(s, "error_code") {
		t.Fatal("absent error_code must be omitted, not null")
	}
}

func TestStreamingEventCarriesBufferDuration(t *testing.T) {
	ms := 1234.5
	event := StreamingEvent{
		EventID:          "evt-1",
		EventType:        EventBuffer,
		BufferDurationMS: &ms,
	}

	b, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["buffer_duration_ms"] != 1234.5 {
		t.Fatalf("buffer_duration_ms = %v", decoded["buffer_duration_ms"])
	}
}

func TestParseEventType(t *testing.T) {
	for _, e := range EventTypes() {
		if got, ok := ParseEventType(string(e)); !ok || got != e {
			t.Fatalf("ParseEventType(%q) = %v, %v", e, got, ok)
		}
	}
	if _, ok := ParseEventType("video_explode"); ok {
		t.Fatal("expected video_explode to be rejected")
	}
}

func TestParseDeviceType(t *testing.T) {
	for _, d := range DeviceTypes() {
		if got, ok := ParseDeviceType(string(d)); !ok || got != d {
			t.Fatalf("ParseDeviceType(%q) = %v, %v", d, got, ok)
		}
	}
	if _, ok := ParseDeviceType("toaster"); ok {
		t.Fatal("expected toaster to be rejected")
	}
}
