package snsq_test

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/mock"
)

type mockAPI struct {
	mock.Mock
}

func result[T any](args mock.Arguments) (*T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockAPI) CreatePlatformApplication(ctx context.Context, in *sns.CreatePlatformApplicationInput, _ ...func(*sns.Options)) (*sns.CreatePlatformApplicationOutput, error) {
	return result[sns.CreatePlatformApplicationOutput](m.Called(ctx, in))
}

func (m *mockAPI) GetPlatformApplicationAttributes(ctx context.Context, in *sns.GetPlatformApplicationAttributesInput, _ ...func(*sns.Options)) (*sns.GetPlatformApplicationAttributesOutput, error) {
	return result[sns.GetPlatformApplicationAttributesOutput](m.Called(ctx, in))
}

func (m *mockAPI) SetPlatformApplicationAttributes(ctx context.Context, in *sns.SetPlatformApplicationAttributesInput, _ ...func(*sns.Options)) (*sns.SetPlatformApplicationAttributesOutput, error) {
	return result[sns.SetPlatformApplicationAttributesOutput](m.Called(ctx, in))
}

func (m *mockAPI) ListPlatformApplications(ctx context.Context, in *sns.ListPlatformApplicationsInput, _ ...func(*sns.Options)) (*sns.ListPlatformApplicationsOutput, error) {
	return result[sns.ListPlatformApplicationsOutput](m.Called(ctx, in))
}

func (m *mockAPI) ListEndpointsByPlatformApplication(ctx context.Context, in *sns.ListEndpointsByPlatformApplicationInput, _ ...func(*sns.Options)) (*sns.ListEndpointsByPlatformApplicationOutput, error) {
	return result[sns.ListEndpointsByPlatformApplicationOutput](m.Called(ctx, in))
}

func (m *mockAPI) DeletePlatformApplication(ctx context.Context, in *sns.DeletePlatformApplicationInput, _ ...func(*sns.Options)) (*sns.DeletePlatformApplicationOutput, error) {
	return result[sns.DeletePlatformApplicationOutput](m.Called(ctx, in))
}

func (m *mockAPI) CreatePlatformEndpoint(ctx context.Context, in *sns.CreatePlatformEndpointInput, _ ...func(*sns.Options)) (*sns.CreatePlatformEndpointOutput, error) {
	return result[sns.CreatePlatformEndpointOutput](m.Called(ctx, in))
}

func (m *mockAPI) GetEndpointAttributes(ctx context.Context, in *sns.GetEndpointAttributesInput, _ ...func(*sns.Options)) (*sns.GetEndpointAttributesOutput, error) {
	return result[sns.GetEndpointAttributesOutput](m.Called(ctx, in))
}

func (m *mockAPI) SetEndpointAttributes(ctx context.Context, in *sns.SetEndpointAttributesInput, _ ...func(*sns.Options)) (*sns.SetEndpointAttributesOutput, error) {
	return result[sns.SetEndpointAttributesOutput](m.Called(ctx, in))
}

func (m *mockAPI) DeleteEndpoint(ctx context.Context, in *sns.DeleteEndpointInput, _ ...func(*sns.Options)) (*sns.DeleteEndpointOutput, error) {
	return result[sns.DeleteEndpointOutput](m.Called(ctx, in))
}

func (m *mockAPI) CreateTopic(ctx context.Context, in *sns.CreateTopicInput, _ ...func(*sns.Options)) (*sns.CreateTopicOutput, error) {
	return result[sns.CreateTopicOutput](m.Called(ctx, in))
}

func (m *mockAPI) GetTopicAttributes(ctx context.Context, in *sns.GetTopicAttributesInput, _ ...func(*sns.Options)) (*sns.GetTopicAttributesOutput, error) {
	return result[sns.GetTopicAttributesOutput](m.Called(ctx, in))
}

func (m *mockAPI) SetTopicAttributes(ctx context.Context, in *sns.SetTopicAttributesInput, _ ...func(*sns.Options)) (*sns.SetTopicAttributesOutput, error) {
	return result[sns.SetTopicAttributesOutput](m.Called(ctx, in))
}

func (m *mockAPI) ListTopics(ctx context.Context, in *sns.ListTopicsInput, _ ...func(*sns.Options)) (*sns.ListTopicsOutput, error) {
	return result[sns.ListTopicsOutput](m.Called(ctx, in))
}

func (m *mockAPI) DeleteTopic(ctx context.Context, in *sns.DeleteTopicInput, _ ...func(*sns.Options)) (*sns.DeleteTopicOutput, error) {
	return result[sns.DeleteTopicOutput](m.Called(ctx, in))
}

func (m *mockAPI) Subscribe(ctx context.Context, in *sns.SubscribeInput, _ ...func(*sns.Options)) (*sns.SubscribeOutput, error) {
	return result[sns.SubscribeOutput](m.Called(ctx, in))
}

func (m *mockAPI) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return result[sns.PublishOutput](m.Called(ctx, in))
}
