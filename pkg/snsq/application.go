package snsq

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

// ApplicationService manages platform applications, one per push credential
// set (for example one iOS app's signing key).
type ApplicationService struct {
	c *Client
}

// Create registers a platform application. See SetPlatformApplicationAttributes
// in the SNS API reference for the accepted attributes.
func (s *ApplicationService) Create(ctx context.Context, name string, p platform.Platform, attributes map[string]string) (*sns.CreatePlatformApplicationOutput, error) {
	in := &sns.CreatePlatformApplicationInput{
		Name:       aws.String(name),
		Platform:   aws.String(string(p)),
		Attributes: attributes,
	}
	return invoke(ctx, s.c, "CreatePlatformApplication", s.c.api.CreatePlatformApplication, in)
}

func (s *ApplicationService) Get(ctx context.Context, arn string) (*sns.GetPlatformApplicationAttributesOutput, error) {
	in := &sns.GetPlatformApplicationAttributesInput{PlatformApplicationArn: aws.String(arn)}
	return invoke(ctx, s.c, "GetPlatformApplicationAttributes", s.c.api.GetPlatformApplicationAttributes, in)
}

func (s *ApplicationService) Update(ctx context.Context, arn string, attributes map[string]string) (*sns.SetPlatformApplicationAttributesOutput, error) {
	in := &sns.SetPlatformApplicationAttributesInput{
		PlatformApplicationArn: aws.String(arn),
		Attributes:             attributes,
	}
	return invoke(ctx, s.c, "SetPlatformApplicationAttributes", s.c.api.SetPlatformApplicationAttributes, in)
}

// List returns one page of platform applications. Pass the previous page's
// NextToken to continue, or "" for the first page.
func (s *ApplicationService) List(ctx context.Context, token string) (*sns.ListPlatformApplicationsOutput, error) {
	in := &sns.ListPlatformApplicationsInput{NextToken: optional(token)}
	return invoke(ctx, s.c, "ListPlatformApplications", s.c.api.ListPlatformApplications, in)
}

// ListEndpoints returns one page of the endpoints registered under arn.
func (s *ApplicationService) ListEndpoints(ctx context.Context, arn, token string) (*sns.ListEndpointsByPlatformApplicationOutput, error) {
	in := &sns.ListEndpointsByPlatformApplicationInput{
		PlatformApplicationArn: aws.String(arn),
		NextToken:              optional(token),
	}
	return invoke(ctx, s.c, "ListEndpointsByPlatformApplication", s.c.api.ListEndpointsByPlatformApplication, in)
}

func (s *ApplicationService) Delete(ctx context.Context, arn string) (*sns.DeletePlatformApplicationOutput, error) {
	in := &sns.DeletePlatformApplicationInput{PlatformApplicationArn: aws.String(arn)}
	return invoke(ctx, s.c, "DeletePlatformApplication", s.c.api.DeletePlatformApplication, in)
}
