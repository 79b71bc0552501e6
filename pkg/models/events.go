package models

import "time"

// EventType identifies the kind of playback event. The set is closed;
// wire strings are converted exactly once via ParseEventType.
type EventType string

const (
	EventVideoStart    EventType = "video_start"
	EventVideoPause    EventType = "video_pause"
	EventVideoStop     EventType = "video_stop"
	EventVideoComplete EventType = "video_complete"
	EventBuffer        EventType = "buffer_event"
)

// EventTypes lists all valid event types.
func EventTypes() []EventType {
	return []EventType{
		EventVideoStart,
		EventVideoPause,
		EventVideoStop,
		EventVideoComplete,
		EventBuffer,
	}
}

// ParseEventType converts a wire string into an EventType.
// Returns false for values outside the closed set.
func ParseEventType(s string) (EventType, bool) {
	switch EventType(s) {
	case EventVideoStart, EventVideoPause, EventVideoStop, EventVideoComplete, EventBuffer:
		return EventType(s), true
	}
	return "", false
}

func (t EventType) String() string { return string(t) }

// DeviceType identifies the playback device class.
type DeviceType string

const (
	DeviceSmartTV        DeviceType = "smart_tv"
	DeviceMobile         DeviceType = "mobile"
	DeviceTablet         DeviceType = "tablet"
	DeviceDesktop        DeviceType = "desktop"
	DeviceGameConsole    DeviceType = "game_console"
	DeviceStreamingStick DeviceType = "streaming_stick"
)

// DeviceTypes lists all valid device types.
func DeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceSmartTV,
		DeviceMobile,
		DeviceTablet,
		DeviceDesktop,
		DeviceGameConsole,
		DeviceStreamingStick,
	}
}

// ParseDeviceType converts a wire string into a DeviceType.
// Returns false for values outside the closed set.
func ParseDeviceType(s string) (DeviceType, bool) {
	switch DeviceType(s) {
	case DeviceSmartTV, DeviceMobile, DeviceTablet, DeviceDesktop, DeviceGameConsole, DeviceStreamingStick:
		return DeviceType(s), true
	}
	return "", false
}

func (t DeviceType) String() string { return string(t) }

// SubscriptionTier identifies the account plan a user streams under.
type SubscriptionTier string

const (
	TierBasic    SubscriptionTier = "basic"
	TierStandard SubscriptionTier = "standard"
	TierPremium  SubscriptionTier = "premium"
)

// Location describes where a playback session originates.
type Location struct {
	Country string  `json:"country"`
	Region  string  `json:"region"`
	City    string  `json:"city"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// QualitySettings describes the negotiated stream quality.
type QualitySettings struct {
	Resolution  string `json:"resolution"`
	BitrateKbps int    `json:"bitrate_kbps"`
	AudioCodec  string `json:"audio_codec"`
	VideoCodec  string `json:"video_codec"`
	HDREnabled  bool   `json:"hdr_enabled"`
}

// StreamingEvent is the unit of data flowing through the system. Timestamps
// travel as ISO-8601 strings. Optional fields are pointers so that absent
// values are omitted from the serialized form rather than emitted as null.
type StreamingEvent struct {
	EventID                 string           `json:"event_id"`
	EventType               EventType        `json:"event_type"`
	UserID                  string           `json:"user_id"`
	SessionID               string           `json:"session_id"`
	ContentID               string           `json:"content_id"`
	ContentTitle            string           `json:"content_title"`
	ContentType             string           `json:"content_type"`
	Timestamp               string           `json:"timestamp"`
	DurationSeconds         float64          `json:"duration_seconds"`
	PlaybackPositionSeconds float64          `json:"playback_position_seconds"`
	DeviceType              DeviceType       `json:"device_type"`
	DeviceID                string           `json:"device_id"`
	Location                Location         `json:"location"`
	QualitySettings         QualitySettings  `json:"quality_settings"`
	BufferDurationMS        *float64         `json:"buffer_duration_ms,omitempty"`
	ErrorCode               *string          `json:"error_code,omitempty"`
	ProfileID               string           `json:"profile_id"`
	SubscriptionTier        SubscriptionTier `json:"subscription_tier"`
}

// DeadLetterEnvelope wraps a rejected payload for the forensic sink.
// The original payload is truncated before embedding so dead-letter
// message size stays bounded regardless of input size.
type DeadLetterEnvelope struct {
	OriginalEvent    string    `json:"original_event"`
	ValidationErrors []string  `json:"validation_errors"`
	RejectedAt       time.Time `json:"rejected_at"`
}

// DeadLetterTruncateBytes bounds the raw payload prefix embedded in a
// DeadLetterEnvelope.
const DeadLetterTruncateBytes = 8192
