package message_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-sns-notifier/pkg/message"
	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

type apnsPayload struct {
	Aps struct {
		Alert map[string]any `json:"alert"`
		Badge *int           `json:"badge"`
	} `json:"aps"`
}

func decodeAPNS(t *testing.T, envelope map[string]any, key platform.Platform) apnsPayload {
	t.Helper()
	raw, ok := envelope[string(key)]
	require.True(t, ok, "envelope is missing %s", key)
	encoded, ok := raw.(string)
	require.True(t, ok, "platform entries must be JSON strings")

	var out apnsPayload
	require.NoError(t, json.Unmarshal([]byte(encoded), &out))
	return out
}

func TestRender_DefaultEntry(t *testing.T) {
	t.Run("Unregistered platforms only", func(t *testing.T) {
		b := message.New("plain text", nil).
			SelectPlatforms([]platform.Platform{platform.GCM, platform.ADM})

		assert.Equal(t, map[string]any{"default": "plain text"}, b.Render())
	})

	t.Run("No selection", func(t *testing.T) {
		assert.Equal(t, map[string]any{"default": "x"}, message.New("x", nil).Render())
	})
}

func TestRender_APNS(t *testing.T) {
	for _, p := range []platform.Platform{platform.APNS, platform.APNSSandbox} {
		t.Run(string(p), func(t *testing.T) {
			env := message.New("Hello there", nil).
				SelectPlatforms([]platform.Platform{p, platform.GCM}).
				Render()

			assert.Len(t, env, 2)
			assert.Equal(t, "Hello there", env["default"])

			decoded := decodeAPNS(t, env, p)
			assert.Equal(t, "Hello there", decoded.Aps.Alert["body"])
			require.NotNil(t, decoded.Aps.Badge, "badge is always present")
			assert.Equal(t, 0, *decoded.Aps.Badge)
		})
	}
}

func TestRender_Example(t *testing.T) {
	env := message.New("Hello", map[string]any{"priority": "high"}).
		SelectPlatforms([]platform.Platform{platform.APNS}).
		Render()

	require.Len(t, env, 2)
	assert.Equal(t, "Hello", env["default"])
	assert.JSONEq(t, `{"aps":{"alert":{"body":"Hello","priority":"high"},"badge":0}}`, env["APNS"].(string))
}

func TestRender_Idempotent(t *testing.T) {
	b := message.New("again", map[string]any{"k": 1}).
		SelectPlatforms([]platform.Platform{platform.APNS, platform.APNSSandbox}).
		SetBadge(3)

	assert.Equal(t, b.Render(), b.Render())

	first, err := b.Serialize()
	require.NoError(t, err)
	second, err := b.Serialize()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBadge(t *testing.T) {
	b := message.New("badge me", nil).SelectPlatforms([]platform.Platform{platform.APNS})

	b.SetBadge(5)
	decoded := decodeAPNS(t, b.Render(), platform.APNS)
	require.NotNil(t, decoded.Aps.Badge)
	assert.Equal(t, 5, *decoded.Aps.Badge)

	b.ClearBadge()
	decoded = decodeAPNS(t, b.Render(), platform.APNS)
	require.NotNil(t, decoded.Aps.Badge)
	assert.Equal(t, 0, *decoded.Aps.Badge)

	b.SetBadge(-2)
	decoded = decodeAPNS(t, b.Render(), platform.APNS)
	assert.Equal(t, -2, *decoded.Aps.Badge)
	assert.Equal(t, -2, b.Badge())
}

func TestCustomFields(t *testing.T) {
	custom := map[string]any{"fieldOne": "A"}
	b := message.New("with fields", custom).SelectPlatforms([]platform.Platform{platform.APNS})

	decoded := decodeAPNS(t, b.Render(), platform.APNS)
	assert.Equal(t, "A", decoded.Aps.Alert["fieldOne"])
	assert.Equal(t, "with fields", decoded.Aps.Alert["body"])

	// the caller's map is copied, never written to
	assert.Equal(t, map[string]any{"fieldOne": "A"}, custom)
}

func TestSelectPlatforms(t *testing.T) {
	t.Run("Nil list is ignored", func(t *testing.T) {
		b := message.New("m", nil).
			SelectPlatforms([]platform.Platform{platform.APNS}).
			SelectPlatforms(nil)
		assert.Equal(t, []platform.Platform{platform.APNS}, b.Platforms())
	})

	t.Run("Empty list replaces", func(t *testing.T) {
		b := message.New("m", nil).
			SelectPlatforms([]platform.Platform{platform.APNS}).
			SelectPlatforms([]platform.Platform{})
		assert.Empty(t, b.Platforms())
		assert.Equal(t, map[string]any{"default": "m"}, b.Render())
	})

	t.Run("Selection is copied", func(t *testing.T) {
		list := []platform.Platform{platform.APNS}
		b := message.New("m", nil).SelectPlatforms(list)
		list[0] = platform.GCM
		assert.Equal(t, []platform.Platform{platform.APNS}, b.Platforms())
	})
}

func TestSelectPlatformValue(t *testing.T) {
	start := func() *message.Builder {
		return message.New("m", nil).SelectPlatforms([]platform.Platform{platform.APNS})
	}

	ignored := map[string]any{
		"single string": "APNS_SANDBOX",
		"number":        42,
		"map":           map[string]any{"APNS": true},
		"nil":           nil,
		"mixed slice":   []any{"APNS_SANDBOX", 7},
	}
	for name, v := range ignored {
		t.Run("Ignores "+name, func(t *testing.T) {
			b := start().SelectPlatformValue(v)
			assert.Equal(t, []platform.Platform{platform.APNS}, b.Platforms())
		})
	}

	t.Run("Accepts decoded JSON array", func(t *testing.T) {
		var decoded any
		require.NoError(t, json.Unmarshal([]byte(`["APNS_SANDBOX","GCM"]`), &decoded))

		b := start().SelectPlatformValue(decoded)
		assert.Equal(t, []platform.Platform{platform.APNSSandbox, platform.GCM}, b.Platforms())

		env := b.Render()
		assert.Contains(t, env, "APNS_SANDBOX")
		assert.NotContains(t, env, "APNS")
	})

	t.Run("Accepts string slice", func(t *testing.T) {
		b := start().SelectPlatformValue([]string{"ADM"})
		assert.Equal(t, []platform.Platform{platform.ADM}, b.Platforms())
	})
}

func TestStructuredMessage(t *testing.T) {
	structured := map[string]any{
		"default": "fallback",
		"APNS":    `{"aps":{"alert":"custom"}}`,
	}
	b := message.New(structured, map[string]any{"ignored": true}).
		SelectPlatforms([]platform.Platform{platform.APNS, platform.APNSSandbox}).
		SetBadge(9)

	t.Run("Render bypasses renderers", func(t *testing.T) {
		assert.Equal(t, map[string]any{"default": structured}, b.Render())
	})

	t.Run("Envelope is the structured value itself", func(t *testing.T) {
		env, err := b.Envelope()
		require.NoError(t, err)
		assert.JSONEq(t, `{"default":"fallback","APNS":"{\"aps\":{\"alert\":\"custom\"}}"}`, env)
	})
}

func TestSerialize(t *testing.T) {
	b := message.New("wire", nil).SelectPlatforms([]platform.Platform{platform.APNS, platform.ADM})

	out, err := b.Serialize()
	require.NoError(t, err)

	var top map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &top))
	assert.Equal(t, "wire", top["default"])
	assert.JSONEq(t, `{"aps":{"alert":{"body":"wire"},"badge":0}}`, top["APNS"])
	assert.NotContains(t, top, "ADM")

	env, err := b.Envelope()
	require.NoError(t, err)
	assert.Equal(t, out, env)
}

func TestRender_UnencodableCustomFieldOmitsPlatform(t *testing.T) {
	b := message.New("m", map[string]any{"bad": make(chan int)}).
		SelectPlatforms([]platform.Platform{platform.APNS})

	assert.Equal(t, map[string]any{"default": "m"}, b.Render())
}

func TestHasRenderer(t *testing.T) {
	assert.True(t, message.HasRenderer(platform.APNS))
	assert.True(t, message.HasRenderer(platform.APNSSandbox))
	assert.False(t, message.HasRenderer(platform.GCM))
	assert.False(t, message.HasRenderer(platform.ADM))
}
