// Package message builds the multi-platform envelope SNS expects when a
// publish call uses MessageStructure "json".
//
// A Builder is created per outbound message, configured through chained calls
// and rendered. For a text message each selected platform that has a renderer
// gets its own JSON-encoded payload; the "default" entry always carries the
// raw message so protocols without a specific payload still receive text.
package message

import (
	"encoding/json"

	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

// DefaultKey is the envelope entry every SNS protocol falls back to.
const DefaultKey = "default"

// Builder accumulates rendering options for a single message.
type Builder struct {
	msg       any
	custom    map[string]any
	platforms []platform.Platform
	badge     int
}

// New starts a builder for msg. A string msg is alert text; any other value
// is treated as an already formatted per-platform payload. customFields are
// merged into the alert of renderers that support it.
func New(msg any, customFields map[string]any) *Builder {
	return &Builder{msg: msg, custom: customFields}
}

// SelectPlatforms replaces the platform selection. A nil list is ignored.
func (b *Builder) SelectPlatforms(list []platform.Platform) *Builder {
	if list == nil {
		return b
	}
	b.platforms = append([]platform.Platform(nil), list...)
	return b
}

// SelectPlatformValue is the permissive form of SelectPlatforms for decoded
// input. It accepts []platform.Platform, []string or []any holding strings;
// any other shape leaves the current selection untouched.
func (b *Builder) SelectPlatformValue(v any) *Builder {
	switch list := v.(type) {
	case []platform.Platform:
		return b.SelectPlatforms(list)
	case []string:
		if list == nil {
			return b
		}
		out := make([]platform.Platform, 0, len(list))
		for _, s := range list {
			out = append(out, platform.Platform(s))
		}
		b.platforms = out
	case []any:
		if list == nil {
			return b
		}
		out := make([]platform.Platform, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return b
			}
			out = append(out, platform.Platform(s))
		}
		b.platforms = out
	}
	return b
}

// SetBadge sets the app icon badge count. Negative values are passed through.
func (b *Builder) SetBadge(count int) *Builder {
	b.badge = count
	return b
}

// ClearBadge resets the badge count to zero.
func (b *Builder) ClearBadge() *Builder {
	return b.SetBadge(0)
}

// Platforms returns a copy of the current selection.
func (b *Builder) Platforms() []platform.Platform {
	return append([]platform.Platform(nil), b.platforms...)
}

// Badge returns the current badge count.
func (b *Builder) Badge() int {
	return b.badge
}

// Render produces the envelope. Structured messages skip every renderer and
// yield only the default entry. A platform whose payload cannot be encoded
// is left out.
func (b *Builder) Render() map[string]any {
	envelope := map[string]any{DefaultKey: b.msg}

	text, ok := b.msg.(string)
	if !ok {
		return envelope
	}

	for _, p := range b.platforms {
		render, found := renderers[p]
		if !found {
			continue
		}
		encoded, err := json.Marshal(render(text, b.custom, b.badge))
		if err != nil {
			continue
		}
		envelope[string(p)] = string(encoded)
	}
	return envelope
}

// Serialize JSON-encodes the rendered envelope.
func (b *Builder) Serialize() (string, error) {
	out, err := json.Marshal(b.Render())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Envelope returns the value for the SNS Message field. A structured message
// is the caller's own multi-platform envelope and is encoded as is.
func (b *Builder) Envelope() (string, error) {
	if _, ok := b.msg.(string); ok {
		return b.Serialize()
	}
	out, err := json.Marshal(b.msg)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
