// Package dispatch holds the contracts and request types shared by the push
// pipeline, the device API and the storage layers.
package dispatch

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	urn "github.com/tinywideclouds/go-platform/pkg/net/v1"

	"github.com/tinywideclouds/go-sns-notifier/pkg/message"
	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

// Publisher delivers a rendered message to one SNS target (an endpoint or a
// topic). snsq.EndpointService and snsq.TopicService both satisfy it.
type Publisher interface {
	Publish(ctx context.Context, arn string, b *message.Builder) (*sns.PublishOutput, error)
}

// EndpointManager is the subset of snsq.EndpointService used to create and
// remove device endpoints.
type EndpointManager interface {
	Create(ctx context.Context, applicationArn, deviceToken, customData string, attributes map[string]string) (*sns.CreatePlatformEndpointOutput, error)
	Delete(ctx context.Context, arn string) (*sns.DeleteEndpointOutput, error)
}

// Device is one registered SNS platform endpoint belonging to a user.
type Device struct {
	EndpointARN string            `json:"endpointArn"`
	Platform    platform.Platform `json:"platform"`
	Token       string            `json:"token"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// EndpointStore remembers which SNS endpoints belong to which user.
type EndpointStore interface {
	// Register adds or replaces a device for the user, keyed by endpoint ARN.
	Register(ctx context.Context, user urn.URN, device Device) error

	// Unregister removes the device with the given endpoint ARN. Removing an
	// unknown ARN is not an error.
	Unregister(ctx context.Context, user urn.URN, endpointArn string) error

	// Fetch returns every device registered for the user.
	Fetch(ctx context.Context, user urn.URN) ([]Device, error)
}
