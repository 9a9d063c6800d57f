package message

import (
	"github.com/sideshow/apns2/payload"
	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

// Renderer maps alert text, custom fields and badge to a platform's native
// payload. The result must be JSON-encodable.
type Renderer func(body string, custom map[string]any, badge int) any

// ADM and GCM are selectable but have no renderer yet.
var renderers = map[platform.Platform]Renderer{
	platform.APNS:        renderAPNS,
	platform.APNSSandbox: renderAPNS,
}

// HasRenderer reports whether p gets its own envelope entry.
func HasRenderer(p platform.Platform) bool {
	_, ok := renderers[p]
	return ok
}

func renderAPNS(body string, custom map[string]any, badge int) any {
	alert := make(map[string]any, len(custom)+1)
	alert["body"] = body
	for k, v := range custom {
		alert[k] = v
	}
	return payload.NewPayload().Alert(alert).Badge(badge)
}
