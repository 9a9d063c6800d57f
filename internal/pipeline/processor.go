package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	urn "github.com/tinywideclouds/go-platform/pkg/net/v1"

	"github.com/tinywideclouds/go-sns-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-sns-notifier/pkg/message"
	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

// NewProcessor builds the fan-out stage. Topic jobs are published once to the
// topic; recipient jobs are published to every endpoint the store knows for
// the user. Each publish gets its own builder.
func NewProcessor(
	endpoints dispatch.Publisher,
	topics dispatch.Publisher,
	endpointManager dispatch.EndpointManager,
	store dispatch.EndpointStore,
	defaultPlatforms []platform.Platform,
	logger *slog.Logger,
) messagepipeline.StreamProcessor[dispatch.PushJob] {
	newBuilder := func(job *dispatch.PushJob) *message.Builder {
		b := message.New(job.Message, job.CustomFields).
			SelectPlatforms(defaultPlatforms).
			SelectPlatformValue(job.Platforms)
		if job.Badge != nil {
			b.SetBadge(*job.Badge)
		}
		return b
	}

	return func(ctx context.Context, original messagepipeline.Message, job *dispatch.PushJob) error {
		procLogger := logger.With("pubsub_msg_id", original.ID)

		if job.Recipient == nil {
			procLogger = procLogger.With("topic_arn", job.TopicARN)
			out, err := topics.Publish(ctx, job.TopicARN, newBuilder(job))
			if err != nil {
				procLogger.Error("Topic publish failed", "err", err)
				return fmt.Errorf("topic publish failed: %w", err)
			}
			procLogger.Info("Topic published", "sns_msg_id", aws.ToString(out.MessageId))
			return nil
		}

		user := *job.Recipient
		procLogger = procLogger.With("recipient_id", user.String())

		devices, err := store.Fetch(ctx, user)
		if err != nil {
			procLogger.Error("Failed to fetch endpoints", "err", err)
			return err
		}
		if len(devices) == 0 {
			procLogger.Info("No endpoints registered for user; dropping notification.")
			return nil
		}

		var errs []error
		sent, removed := 0, 0
		for _, device := range devices {
			out, err := endpoints.Publish(ctx, device.EndpointARN, newBuilder(job))
			if err == nil {
				sent++
				procLogger.Debug("Endpoint published", "endpoint_arn", device.EndpointARN, "sns_msg_id", aws.ToString(out.MessageId))
				continue
			}

			if isDeadEndpoint(err) {
				removed++
				removeEndpoint(ctx, procLogger, endpointManager, store, user, device.EndpointARN)
				continue
			}

			procLogger.Error("Endpoint publish failed", "endpoint_arn", device.EndpointARN, "err", err)
			errs = append(errs, fmt.Errorf("publish to %s: %w", device.EndpointARN, err))
		}

		procLogger.Info("Endpoints dispatched", "sent", sent, "removed", removed, "failed", len(errs))
		// Returning an error Nacks the whole job; endpoints that already
		// succeeded will see the message again on redelivery.
		return errors.Join(errs...)
	}
}

// isDeadEndpoint reports SNS errors that mean the endpoint will never accept
// a message again.
func isDeadEndpoint(err error) bool {
	var disabled *types.EndpointDisabledException
	var notFound *types.NotFoundException
	return errors.As(err, &disabled) || errors.As(err, &notFound)
}

func removeEndpoint(
	ctx context.Context,
	logger *slog.Logger,
	endpointManager dispatch.EndpointManager,
	store dispatch.EndpointStore,
	user urn.URN,
	endpointArn string,
) {
	logger.Info("Cleaning up dead endpoint", "endpoint_arn", endpointArn)
	if _, err := endpointManager.Delete(ctx, endpointArn); err != nil {
		logger.Warn("Failed to delete SNS endpoint", "endpoint_arn", endpointArn, "err", err)
	}
	if err := store.Unregister(ctx, user, endpointArn); err != nil {
		logger.Warn("Failed to unregister endpoint", "endpoint_arn", endpointArn, "err", err)
	}
}
