package snsq

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/tinywideclouds/go-sns-notifier/pkg/message"
)

// ProtocolApplication is the SNS delivery protocol for mobile endpoints.
const ProtocolApplication = "application"

// TopicService manages fan-out topics and their subscriptions.
type TopicService struct {
	c *Client
}

// Create makes a topic, or returns the existing one with the same name.
func (s *TopicService) Create(ctx context.Context, name string) (*sns.CreateTopicOutput, error) {
	in := &sns.CreateTopicInput{Name: aws.String(name)}
	return invoke(ctx, s.c, "CreateTopic", s.c.api.CreateTopic, in)
}

func (s *TopicService) Get(ctx context.Context, arn string) (*sns.GetTopicAttributesOutput, error) {
	in := &sns.GetTopicAttributesInput{TopicArn: aws.String(arn)}
	return invoke(ctx, s.c, "GetTopicAttributes", s.c.api.GetTopicAttributes, in)
}

// Update sets one topic attribute. SNS only allows Policy, DisplayName and
// DeliveryPolicy here.
func (s *TopicService) Update(ctx context.Context, arn, attributeName, attributeValue string) (*sns.SetTopicAttributesOutput, error) {
	in := &sns.SetTopicAttributesInput{
		TopicArn:       aws.String(arn),
		AttributeName:  aws.String(attributeName),
		AttributeValue: aws.String(attributeValue),
	}
	return invoke(ctx, s.c, "SetTopicAttributes", s.c.api.SetTopicAttributes, in)
}

func (s *TopicService) List(ctx context.Context, token string) (*sns.ListTopicsOutput, error) {
	in := &sns.ListTopicsInput{NextToken: optional(token)}
	return invoke(ctx, s.c, "ListTopics", s.c.api.ListTopics, in)
}

func (s *TopicService) Delete(ctx context.Context, arn string) (*sns.DeleteTopicOutput, error) {
	in := &sns.DeleteTopicInput{TopicArn: aws.String(arn)}
	return invoke(ctx, s.c, "DeleteTopic", s.c.api.DeleteTopic, in)
}

// Subscribe attaches endpoint (a URL, address or ARN, depending on protocol)
// to the topic.
func (s *TopicService) Subscribe(ctx context.Context, topicArn, endpoint, protocol string) (*sns.SubscribeOutput, error) {
	in := &sns.SubscribeInput{
		TopicArn: aws.String(topicArn),
		Protocol: aws.String(protocol),
		Endpoint: aws.String(endpoint),
	}
	return invoke(ctx, s.c, "Subscribe", s.c.api.Subscribe, in)
}

// SubscribeMobile subscribes a platform endpoint ARN using the application protocol.
func (s *TopicService) SubscribeMobile(ctx context.Context, topicArn, endpointArn string) (*sns.SubscribeOutput, error) {
	return s.Subscribe(ctx, topicArn, endpointArn, ProtocolApplication)
}

// Send publishes msg to every subscriber of the topic, rendered the same way
// as EndpointService.Send.
func (s *TopicService) Send(ctx context.Context, arn string, msg any, customFields map[string]any) (*sns.PublishOutput, error) {
	return s.Publish(ctx, arn, s.c.newBuilder(msg, customFields))
}

// Publish sends a configured builder to the topic.
func (s *TopicService) Publish(ctx context.Context, arn string, b *message.Builder) (*sns.PublishOutput, error) {
	envelope, err := b.Envelope()
	if err != nil {
		return nil, fmt.Errorf("failed to encode message envelope: %w", err)
	}
	in := &sns.PublishInput{
		TopicArn:         aws.String(arn),
		Message:          aws.String(envelope),
		MessageStructure: aws.String(MessageStructureJSON),
	}
	return invoke(ctx, s.c, "Publish", s.c.api.Publish, in)
}
