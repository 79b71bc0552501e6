package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingVersion tags every enriched document with the pipeline version
// that produced it.
const ProcessingVersion = "1.0.0"

// Enrich copies the payload and adds derived fields. It never fails and never
// removes or mutates original fields; a malformed timestamp only degrades the
// hour_bucket field to null.
func Enrich(payload map[string]any) map[string]any {
	enriched := make(map[string]any, len(payload)+4)
	for k, v := range payload {
		enriched[k] = v
	}

	if id, ok := payload["event_id"].(string); ok && id != "" {
		enriched["id"] = id
	} else {
		enriched["id"] = uuid.New().String()
	}

	enriched["processed_at"] = time.Now().UTC().Format(time.RFC3339)
	enriched["processing_version"] = ProcessingVersion
	enriched["hour_bucket"] = hourBucket(payload["timestamp"])

	return enriched
}

// hourBucket floors an ISO-8601 timestamp to the hour. Offset-less
// timestamps are read as UTC. Returns nil when the timestamp is missing or
// unparseable.
func hourBucket(value any) any {
	raw, ok := value.(string)
	if !ok || raw == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", raw)
		if err != nil {
			return nil
		}
	}

	return t.UTC().Truncate(time.Hour).Format("2006-01-02T15:00:00Z")
}
