package element

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rendis/interact/internal/logging"
	"github.com/rendis/interact/pkg/schema"
)

// Permissive contact patterns. Email follows the usual single-@ shape;
// phone accepts digits with common separators, 7+ digit-ish characters.
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9()\-\s.]{7,}$`)
)

// base carries the helpers shared by every concrete engine. It holds a
// pointer into the engine's own ElementConfig, so UpdateConfig on the
// concrete engine is reflected here without re-wiring.
type base struct {
	elem   *schema.ElementConfig
	logger *slog.Logger
	rng    *rand.Rand
	now    func() time.Time
}

func newBase(elem *schema.ElementConfig, opts []Option) base {
	b := base{
		elem: elem,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return b
}

// logCtx builds the correlation context for records emitted while handling
// a submission. Loggers wrapped in logging.NewCorrelationHandler pick the
// IDs up from here.
func (b *base) logCtx(visitorID, sessionID string) context.Context {
	return logging.WithIDs(context.Background(), b.elem.ID, visitorID, sessionID)
}

// Track constructs a tracking event for the caller's sink, or nil when the
// event kind is gated off. Custom events pass whenever tracking is enabled;
// every other kind additionally requires its per-kind flag.
func (b *base) Track(kind schema.EventType, visitorID, sessionID string, data map[string]any) *schema.TrackingEvent {
	t := b.elem.Tracking
	if !t.Enabled {
		return nil
	}

	allowed := false
	switch kind {
	case schema.EventView:
		allowed = t.TrackViews
	case schema.EventStart:
		allowed = t.TrackStarts
	case schema.EventProgress:
		allowed = t.TrackProgress
	case schema.EventComplete:
		allowed = t.TrackCompletions
	case schema.EventAbandon:
		allowed = t.TrackAbandons
	case schema.EventCustom:
		allowed = true
	}
	if !allowed {
		return nil
	}

	return &schema.TrackingEvent{
		ID:        uuid.NewString(),
		EventType: kind,
		ElementID: b.elem.ID,
		VisitorID: visitorID,
		SessionID: sessionID,
		Timestamp: b.now(),
		Data:      data,
	}
}

// ValidateLeadFields checks submitted lead-capture values against the
// declared fields. Invalid custom patterns are skipped, not fatal.
func (b *base) ValidateLeadFields(values map[string]string) *schema.ValidationResult {
	result := &schema.ValidationResult{}
	lc := b.elem.LeadCapture
	if lc == nil || !lc.Enabled {
		return result
	}

	for _, f := range lc.Fields {
		value := strings.TrimSpace(values[f.ID])

		if value == "" {
			if f.Required {
				result.AddError(f.ID, schema.ErrCodeInput,
					fmt.Sprintf("%s is required", f.Label))
			}
			continue
		}

		switch f.Type {
		case schema.LeadFieldEmail:
			if !emailPattern.MatchString(value) {
				result.AddError(f.ID, schema.ErrCodeInput,
					fmt.Sprintf("%s is not a valid email address", f.Label))
			}
		case schema.LeadFieldPhone:
			if !phonePattern.MatchString(value) {
				result.AddError(f.ID, schema.ErrCodeInput,
					fmt.Sprintf("%s is not a valid phone number", f.Label))
			}
		}

		if f.Pattern != "" {
			re, err := regexp.Compile(f.Pattern)
			if err != nil {
				continue
			}
			if !re.MatchString(value) {
				result.AddError(f.ID, schema.ErrCodeInput,
					fmt.Sprintf("%s does not match the expected format", f.Label))
			}
		}
	}

	return result
}

// ResolvePersona shallow-merges a matching persona variant's overrides onto
// a copy of the base config. With no matching variant, the base config is
// returned unchanged.
func (b *base) ResolvePersona(personaID string) schema.ElementConfig {
	merged := *b.elem
	for _, v := range b.elem.Personas {
		if v.PersonaID != personaID {
			continue
		}
		if v.Title != "" {
			merged.Title = v.Title
		}
		if v.Description != "" {
			merged.Description = v.Description
		}
		if v.Tone != "" {
			n := schema.NarrativeMeta{}
			if merged.Narrative != nil {
				n = *merged.Narrative
			}
			n.Emotion = v.Tone
			merged.Narrative = &n
		}
		if len(v.Content) > 0 {
			content := make(map[string]any, len(merged.Content)+len(v.Content))
			for k, cv := range merged.Content {
				content[k] = cv
			}
			for k, cv := range v.Content {
				content[k] = cv
			}
			merged.Content = content
		}
		break
	}
	return merged
}

// Mobile keywords are checked before tablet keywords; anything matching
// neither set classifies as desktop.
var (
	mobileKeywords = []string{"iphone", "android", "mobile", "ipod", "blackberry", "windows phone"}
	tabletKeywords = []string{"ipad", "tablet", "kindle", "silk"}
)

// ClassifyDevice derives the device class from a user-agent string.
func ClassifyDevice(userAgent string) schema.DeviceType {
	ua := strings.ToLower(userAgent)
	for _, kw := range mobileKeywords {
		if strings.Contains(ua, kw) {
			return schema.DeviceMobile
		}
	}
	for _, kw := range tabletKeywords {
		if strings.Contains(ua, kw) {
			return schema.DeviceTablet
		}
	}
	return schema.DeviceDesktop
}

// touch stamps UpdatedAt after a config replacement.
func (b *base) touch() {
	b.elem.UpdatedAt = b.now()
}

// shuffle permutes items in place using the injected random source.
func shuffle[T any](rng *rand.Rand, items []T) {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// coerceFloat converts the numeric shapes a JSON submission can carry.
func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
