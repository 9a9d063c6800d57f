package dispatch

import (
	urn "github.com/tinywideclouds/go-platform/pkg/net/v1"
)

// PushRequest is the wire format of a push job on the ingestion topic.
// Exactly one of RecipientID or TopicARN is expected.
type PushRequest struct {
	RecipientID  string         `json:"recipientId,omitempty"`
	TopicARN     string         `json:"topicArn,omitempty"`
	Message      any            `json:"message"`
	CustomFields map[string]any `json:"customFields,omitempty"`
	Badge        *int           `json:"badge,omitempty"`
	// Platforms optionally overrides the default platform selection. It is
	// kept as decoded JSON; shapes other than an array of names are ignored.
	Platforms any `json:"platforms,omitempty"`
}

// PushJob is a validated PushRequest.
type PushJob struct {
	// Recipient is nil for topic jobs.
	Recipient    *urn.URN
	TopicARN     string
	Message      any
	CustomFields map[string]any
	Badge        *int
	Platforms    any
}
