package pipeline

import (
	"fmt"

	"github.com/atreyee91/netflix-streaming-pipeline/pkg/models"
)

// requiredFields is checked in a fixed order so violation lists are
// deterministic across runs.
var requiredFields = []string{"event_id", "event_type", "user_id", "content_id", "timestamp"}

// Validate returns the list of schema violations for a decoded payload. An
// empty list means the payload is valid. Pure function, no side effects.
func Validate(payload map[string]any) []string {
	var violations []string

	for _, field := range requiredFields {
		if isAbsent(payload[field]) {
			violations = append(violations, fmt.Sprintf("missing required field: %s", field))
		}
	}

	// Enum fields must be member strings; any other present value, string or
	// not, is out of the closed set.
	if value := payload["event_type"]; !isAbsent(value) {
		if _, valid := models.ParseEventType(asString(value)); !valid {
			violations = append(violations, fmt.Sprintf("invalid event_type: %s", formatWireValue(value)))
		}
	}

	if value := payload["device_type"]; !isAbsent(value) {
		if _, valid := models.ParseDeviceType(asString(value)); !valid {
			violations = append(violations, fmt.Sprintf("invalid device_type: %s", formatWireValue(value)))
		}
	}

	return violations
}

func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	return false
}

// asString returns the value as a string, or "" for non-string values so the
// enum parse rejects them.
func asString(value any) string {
	s, _ := value.(string)
	return s
}

// formatWireValue renders a payload value the way it appeared on the wire.
func formatWireValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
