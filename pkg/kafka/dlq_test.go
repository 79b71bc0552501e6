package kafka

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/models"
)

func TestEncodeDeadLetterCarriesErrorsAndTimestamp(t *testing.T) {
	rejectedAt := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	raw := []byte(`{"event_type":"video_explode"}`)
	verrs := []string{"invalid event_type: video_explode"}

	payload, err := EncodeDeadLetter(raw, verrs, rejectedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var envelope models.DeadLetterEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}

	if envelope.OriginalEvent != string(raw) {
		t.Fatalf("expected original event %q, got %q", raw, envelope.OriginalEvent)
	}
	if len(envelope.ValidationErrors) != 1 || envelope.ValidationErrors[0] != verrs[0] {
		t.Fatalf("expected validation errors %v, got %v", verrs, envelope.ValidationErrors)
	}
	if !envelope.RejectedAt.Equal(rejectedAt) {
		t.Fatalf("expected rejected_at %v, got %v", rejectedAt, envelope.RejectedAt)
	}
}

func TestEncodeDeadLetterTruncatesOversizedPayload(t *testing.T) {
	raw := bytes.Repeat([]byte("x"), 50_000)

	payload, err := EncodeDeadLetter(raw, []string{"invalid JSON"}, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var envelope models.DeadLetterEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}

	if len(envelope.OriginalEvent) != models.DeadLetterTruncateBytes {
		t.Fatalf("expected original event truncated to %d bytes, got %d",
			models.DeadLetterTruncateBytes, len(envelope.OriginalEvent))
	}
}
