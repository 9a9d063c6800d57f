package snsq

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/tinywideclouds/go-sns-notifier/pkg/message"
)

// MessageStructureJSON tells SNS the Message field is a per-protocol envelope.
const MessageStructureJSON = "json"

// EndpointService manages device endpoints inside a platform application.
type EndpointService struct {
	c *Client
}

// Create registers deviceToken under applicationArn. customData and
// attributes are optional.
func (s *EndpointService) Create(ctx context.Context, applicationArn, deviceToken, customData string, attributes map[string]string) (*sns.CreatePlatformEndpointOutput, error) {
	in := &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(applicationArn),
		Token:                  aws.String(deviceToken),
		CustomUserData:         optional(customData),
		Attributes:             attributes,
	}
	return invoke(ctx, s.c, "CreatePlatformEndpoint", s.c.api.CreatePlatformEndpoint, in)
}

func (s *EndpointService) Get(ctx context.Context, arn string) (*sns.GetEndpointAttributesOutput, error) {
	in := &sns.GetEndpointAttributesInput{EndpointArn: aws.String(arn)}
	return invoke(ctx, s.c, "GetEndpointAttributes", s.c.api.GetEndpointAttributes, in)
}

func (s *EndpointService) Update(ctx context.Context, arn string, attributes map[string]string) (*sns.SetEndpointAttributesOutput, error) {
	in := &sns.SetEndpointAttributesInput{
		EndpointArn: aws.String(arn),
		Attributes:  attributes,
	}
	return invoke(ctx, s.c, "SetEndpointAttributes", s.c.api.SetEndpointAttributes, in)
}

func (s *EndpointService) Delete(ctx context.Context, arn string) (*sns.DeleteEndpointOutput, error) {
	in := &sns.DeleteEndpointInput{EndpointArn: aws.String(arn)}
	return invoke(ctx, s.c, "DeleteEndpoint", s.c.api.DeleteEndpoint, in)
}

// Send publishes msg to a single endpoint. A string msg is rendered for the
// client's default platforms with customFields merged in; any other value is
// sent as the caller's own multi-platform envelope.
func (s *EndpointService) Send(ctx context.Context, arn string, msg any, customFields map[string]any) (*sns.PublishOutput, error) {
	return s.Publish(ctx, arn, s.c.newBuilder(msg, customFields))
}

// Publish sends a configured builder to a single endpoint.
func (s *EndpointService) Publish(ctx context.Context, arn string, b *message.Builder) (*sns.PublishOutput, error) {
	envelope, err := b.Envelope()
	if err != nil {
		return nil, fmt.Errorf("failed to encode message envelope: %w", err)
	}
	in := &sns.PublishInput{
		TargetArn:        aws.String(arn),
		Message:          aws.String(envelope),
		MessageStructure: aws.String(MessageStructureJSON),
	}
	return invoke(ctx, s.c, "Publish", s.c.api.Publish, in)
}

func (c *Client) newBuilder(msg any, customFields map[string]any) *message.Builder {
	return message.New(msg, customFields).SelectPlatforms(c.platforms)
}
