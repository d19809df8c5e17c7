package schema

import "time"

// EventType enumerates the analytics events an engine may construct.
type EventType string

const (
	EventView     EventType = "view"
	EventStart    EventType = "start"
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventAbandon  EventType = "abandon"
	EventCustom   EventType = "custom"
)

// TrackingEvent is handed to the caller's tracking sink. The engine only
// constructs events; it never transmits them.
type TrackingEvent struct {
	ID        string         `json:"id"`
	EventType EventType      `json:"event_type"`
	ElementID string         `json:"element_id"`
	VisitorID string         `json:"visitor_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}
