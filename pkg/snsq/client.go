// Package snsq is a thin facade over the Amazon SNS mobile push API.
//
// A Client exposes three namespaces, Application, Endpoint and Topic. Each
// operation builds the SNS input record from plain arguments, makes a single
// SNS call and returns the raw SNS output. Errors from SNS are returned
// unchanged so callers can match them with errors.As against
// github.com/aws/aws-sdk-go-v2/service/sns/types.
package snsq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

// API is the subset of *sns.Client the facade calls.
// *sns.Client satisfies it; tests substitute a mock.
type API interface {
	CreatePlatformApplication(ctx context.Context, in *sns.CreatePlatformApplicationInput, optFns ...func(*sns.Options)) (*sns.CreatePlatformApplicationOutput, error)
	GetPlatformApplicationAttributes(ctx context.Context, in *sns.GetPlatformApplicationAttributesInput, optFns ...func(*sns.Options)) (*sns.GetPlatformApplicationAttributesOutput, error)
	SetPlatformApplicationAttributes(ctx context.Context, in *sns.SetPlatformApplicationAttributesInput, optFns ...func(*sns.Options)) (*sns.SetPlatformApplicationAttributesOutput, error)
	ListPlatformApplications(ctx context.Context, in *sns.ListPlatformApplicationsInput, optFns ...func(*sns.Options)) (*sns.ListPlatformApplicationsOutput, error)
	ListEndpointsByPlatformApplication(ctx context.Context, in *sns.ListEndpointsByPlatformApplicationInput, optFns ...func(*sns.Options)) (*sns.ListEndpointsByPlatformApplicationOutput, error)
	DeletePlatformApplication(ctx context.Context, in *sns.DeletePlatformApplicationInput, optFns ...func(*sns.Options)) (*sns.DeletePlatformApplicationOutput, error)

	CreatePlatformEndpoint(ctx context.Context, in *sns.CreatePlatformEndpointInput, optFns ...func(*sns.Options)) (*sns.CreatePlatformEndpointOutput, error)
	GetEndpointAttributes(ctx context.Context, in *sns.GetEndpointAttributesInput, optFns ...func(*sns.Options)) (*sns.GetEndpointAttributesOutput, error)
	SetEndpointAttributes(ctx context.Context, in *sns.SetEndpointAttributesInput, optFns ...func(*sns.Options)) (*sns.SetEndpointAttributesOutput, error)
	DeleteEndpoint(ctx context.Context, in *sns.DeleteEndpointInput, optFns ...func(*sns.Options)) (*sns.DeleteEndpointOutput, error)

	CreateTopic(ctx context.Context, in *sns.CreateTopicInput, optFns ...func(*sns.Options)) (*sns.CreateTopicOutput, error)
	GetTopicAttributes(ctx context.Context, in *sns.GetTopicAttributesInput, optFns ...func(*sns.Options)) (*sns.GetTopicAttributesOutput, error)
	SetTopicAttributes(ctx context.Context, in *sns.SetTopicAttributesInput, optFns ...func(*sns.Options)) (*sns.SetTopicAttributesOutput, error)
	ListTopics(ctx context.Context, in *sns.ListTopicsInput, optFns ...func(*sns.Options)) (*sns.ListTopicsOutput, error)
	DeleteTopic(ctx context.Context, in *sns.DeleteTopicInput, optFns ...func(*sns.Options)) (*sns.DeleteTopicOutput, error)
	Subscribe(ctx context.Context, in *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)

	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Options configures a Client.
type Options struct {
	// Region is passed to the AWS config loader unchanged.
	Region string
	// AccessKeyID and SecretAccessKey select static credentials. When empty
	// the default AWS credential chain applies.
	AccessKeyID     string
	SecretAccessKey string
	// Sandbox marks a deployment that targets APNS_SANDBOX. It is advisory:
	// nothing in the facade changes behaviour based on it.
	Sandbox bool
	// Platforms is the default selection for Send. Nil means platform.Defaults().
	Platforms []platform.Platform
}

// Client is the facade entry point.
type Client struct {
	Application *ApplicationService
	Endpoint    *EndpointService
	Topic       *TopicService

	api       API
	sandbox   bool
	platforms []platform.Platform
	logger    *slog.Logger
}

// New loads AWS configuration for opts and builds a Client on a real SNS client.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewWithAPI(sns.NewFromConfig(awsCfg), opts, logger), nil
}

// NewWithAPI builds a Client around an existing API implementation.
func NewWithAPI(api API, opts Options, logger *slog.Logger) *Client {
	platforms := opts.Platforms
	if platforms == nil {
		platforms = platform.Defaults()
	}

	c := &Client{
		api:       api,
		sandbox:   opts.Sandbox,
		platforms: append([]platform.Platform(nil), platforms...),
		logger:    logger.With("component", "SNSClient"),
	}
	c.Application = &ApplicationService{c: c}
	c.Endpoint = &EndpointService{c: c}
	c.Topic = &TopicService{c: c}
	return c
}

// Sandbox reports the advisory sandbox flag.
func (c *Client) Sandbox() bool {
	return c.sandbox
}

// Platforms returns a copy of the default platform selection.
func (c *Client) Platforms() []platform.Platform {
	return append([]platform.Platform(nil), c.platforms...)
}

// invoke is the single adapter every operation goes through.
func invoke[In, Out any](
	ctx context.Context,
	c *Client,
	op string,
	call func(context.Context, *In, ...func(*sns.Options)) (*Out, error),
	in *In,
) (*Out, error) {
	out, err := call(ctx, in)
	if err != nil {
		c.logger.Debug("SNS call failed", "op", op, "err", err)
		return nil, err
	}
	c.logger.Debug("SNS call succeeded", "op", op)
	return out, nil
}

// optional maps "" to nil so omitted arguments are not sent as empty strings.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
