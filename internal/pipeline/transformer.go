// Package pipeline turns push jobs from the ingestion subscription into SNS publishes.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	urn "github.com/tinywideclouds/go-platform/pkg/net/v1"

	"github.com/tinywideclouds/go-sns-notifier/pkg/dispatch"
)

// PushJobTransformer decodes and validates a raw message into a dispatch.PushJob.
// Any failure sets skip=true so the StreamingService can Nack the message
// towards the dead-letter topic.
func PushJobTransformer(
	_ context.Context,
	msg *messagepipeline.Message,
) (*dispatch.PushJob, bool, error) {
	var req dispatch.PushRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return nil, true, fmt.Errorf("failed to unmarshal push request from message %s: %w", msg.ID, err)
	}

	job, err := validate(req)
	if err != nil {
		return nil, true, fmt.Errorf("invalid push request in message %s: %w", msg.ID, err)
	}
	return job, false, nil
}

func validate(req dispatch.PushRequest) (*dispatch.PushJob, error) {
	if req.Message == nil {
		return nil, errors.New("message is required")
	}
	if text, ok := req.Message.(string); ok && text == "" {
		return nil, errors.New("message is empty")
	}

	job := &dispatch.PushJob{
		TopicARN:     req.TopicARN,
		Message:      req.Message,
		CustomFields: req.CustomFields,
		Badge:        req.Badge,
		Platforms:    req.Platforms,
	}

	switch {
	case req.RecipientID != "" && req.TopicARN != "":
		return nil, errors.New("recipientId and topicArn are mutually exclusive")
	case req.TopicARN != "":
		return job, nil
	case req.RecipientID != "":
		recipient, err := urn.Parse(req.RecipientID)
		if err != nil {
			return nil, fmt.Errorf("invalid recipientId: %w", err)
		}
		job.Recipient = &recipient
		return job, nil
	default:
		return nil, errors.New("one of recipientId or topicArn is required")
	}
}
