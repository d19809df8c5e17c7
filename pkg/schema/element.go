package schema

import "time"

// ElementType discriminates the kinds of interactive elements. The set is
// closed: the factory in pkg/element matches exhaustively over it, and types
// without a shipped engine are rejected with ErrCodeUnsupportedType.
type ElementType string

const (
	ElementTypeQuiz         ElementType = "quiz"
	ElementTypeCalculator   ElementType = "calculator"
	ElementTypeSurvey       ElementType = "survey"
	ElementTypeComparison   ElementType = "comparison"
	ElementTypeConfigurator ElementType = "configurator"
	ElementTypeForm         ElementType = "form"
)

// ElementStatus represents the publication lifecycle of an element.
type ElementStatus string

const (
	ElementStatusDraft     ElementStatus = "draft"
	ElementStatusPublished ElementStatus = "published"
	ElementStatusArchived  ElementStatus = "archived"
)

// ElementConfig is the base configuration shared by every element type.
// It is immutable for the lifetime of an engine instance; engines replace
// it wholesale via UpdateConfig, which stamps UpdatedAt.
type ElementConfig struct {
	ID          string      `json:"id"`
	Type        ElementType `json:"type"`
	ComponentID string      `json:"component_id"`
	WebsiteID   string      `json:"website_id"`
	PageID      string      `json:"page_id,omitempty"`

	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Content     map[string]any `json:"content,omitempty"`

	Narrative *NarrativeMeta `json:"narrative,omitempty"`
	Styling   *StylingConfig `json:"styling,omitempty"`

	Tracking    TrackingConfig     `json:"tracking"`
	LeadCapture *LeadCaptureConfig `json:"lead_capture,omitempty"`
	FollowUp    *FollowUpAction    `json:"follow_up,omitempty"`
	Personas    []PersonaVariant   `json:"personas,omitempty"`

	Status    ElementStatus `json:"status,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NarrativeMeta carries the storytelling metadata the content pipeline
// attaches to an element. The engines treat it as opaque pass-through.
type NarrativeMeta struct {
	Hook    string `json:"hook,omitempty"`
	Story   string `json:"story,omitempty"`
	Emotion string `json:"emotion,omitempty"`
}

// StylingConfig holds presentation hints consumed by the rendering surface.
type StylingConfig struct {
	Theme       string `json:"theme,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
	Layout      string `json:"layout,omitempty"`
}

// TrackingConfig gates which analytics events an engine will construct.
type TrackingConfig struct {
	Enabled          bool `json:"enabled"`
	TrackViews       bool `json:"track_views,omitempty"`
	TrackStarts      bool `json:"track_starts,omitempty"`
	TrackProgress    bool `json:"track_progress,omitempty"`
	TrackCompletions bool `json:"track_completions,omitempty"`
	TrackAbandons    bool `json:"track_abandons,omitempty"`
}

// LeadFieldType enumerates the kinds of lead-capture fields.
type LeadFieldType string

const (
	LeadFieldText    LeadFieldType = "text"
	LeadFieldEmail   LeadFieldType = "email"
	LeadFieldPhone   LeadFieldType = "phone"
	LeadFieldCompany LeadFieldType = "company"
	LeadFieldCustom  LeadFieldType = "custom"
)

// LeadField describes a single contact field collected before results are shown.
type LeadField struct {
	ID       string        `json:"id"`
	Type     LeadFieldType `json:"type"`
	Label    string        `json:"label"`
	Required bool          `json:"required"`
	Pattern  string        `json:"pattern,omitempty"` // custom validation regex
}

// LeadCaptureConfig is the optional contact-collection step of an element.
// The engine validates submitted values; transport belongs to the caller.
type LeadCaptureConfig struct {
	Enabled     bool        `json:"enabled"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Fields      []LeadField `json:"fields"`
	SubmitLabel string      `json:"submit_label,omitempty"`
}

// FollowUpType enumerates post-completion actions.
type FollowUpType string

const (
	FollowUpRedirect FollowUpType = "redirect"
	FollowUpDownload FollowUpType = "download"
	FollowUpMessage  FollowUpType = "message"
	FollowUpSchedule FollowUpType = "schedule"
)

// FollowUpAction is what happens after the visitor completes the element.
type FollowUpAction struct {
	Type    FollowUpType `json:"type"`
	URL     string       `json:"url,omitempty"`     // redirect/download destination
	Message string       `json:"message,omitempty"` // message body or CTA copy
}

// PersonaVariant is an override bundle applied to the base config when a
// specific audience persona is detected. Only non-empty fields override.
type PersonaVariant struct {
	PersonaID   string         `json:"persona_id"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Tone        string         `json:"tone,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
}

// DeviceType classifies the visitor's device from their user agent.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceTablet  DeviceType = "tablet"
	DeviceMobile  DeviceType = "mobile"
)
