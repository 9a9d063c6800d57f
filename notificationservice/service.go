package notificationservice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-microservice-base/pkg/microservice"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"

	"github.com/tinywideclouds/go-sns-notifier/internal/api"
	"github.com/tinywideclouds/go-sns-notifier/internal/pipeline"
	"github.com/tinywideclouds/go-sns-notifier/notificationservice/config"
	"github.com/tinywideclouds/go-sns-notifier/pkg/dispatch"
	"github.com/tinywideclouds/go-sns-notifier/pkg/snsq"
)

type Wrapper struct {
	*microservice.BaseServer
	pipelineService *messagepipeline.StreamingService[dispatch.PushJob]
	logger          *slog.Logger
}

// New assembles the service: the push pipeline on consumer and the device
// API on the base server's mux.
func New(
	cfg *config.Config,
	consumer messagepipeline.MessageConsumer,
	snsClient *snsq.Client,
	endpointStore dispatch.EndpointStore,
	authMiddleware func(http.Handler) http.Handler,
	logger *slog.Logger,
) (*Wrapper, error) {

	// 1. Base Server
	baseServer := microservice.NewBaseServer(logger, cfg.ListenAddr)

	// 2. Processor
	processor := pipeline.NewProcessor(
		snsClient.Endpoint,
		snsClient.Topic,
		snsClient.Endpoint,
		endpointStore,
		snsClient.Platforms(),
		logger,
	)

	// 3. Pipeline
	streamingService, err := messagepipeline.NewStreamingService[dispatch.PushJob](
		messagepipeline.StreamingServiceConfig{NumWorkers: cfg.NumPipelineWorkers},
		consumer,
		pipeline.PushJobTransformer,
		processor,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create streaming service: %w", err)
	}

	// 4. API (Device Registration)
	deviceAPI := api.NewDeviceAPI(endpointStore, snsClient.Endpoint, snsClient.Topic, cfg.SNS.Applications, logger)

	mux := baseServer.Mux()
	corsMiddleware := middleware.NewCorsMiddleware(cfg.CorsConfig, logger)

	handle := func(pattern string, handlerFunc http.HandlerFunc) {
		mux.Handle(pattern, corsMiddleware(authMiddleware(handlerFunc)))
	}

	handle("POST /api/v1/devices", deviceAPI.RegisterDevice)
	handle("POST /api/v1/devices/unregister", deviceAPI.UnregisterDevice)
	handle("POST /api/v1/topics/subscribe", deviceAPI.SubscribeTopic)

	// CORS preflight for the API namespace; headers are written by the middleware.
	mux.Handle("OPTIONS /api/v1/", corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	return &Wrapper{
		BaseServer:      baseServer,
		pipelineService: streamingService,
		logger:          logger,
	}, nil
}

func (w *Wrapper) Start(ctx context.Context) error {
	w.logger.Info("Core processing pipeline starting...")
	if err := w.pipelineService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start processing service: %w", err)
	}
	w.SetReady(true)
	w.logger.Info("Service is now ready.")
	return w.BaseServer.Start()
}

func (w *Wrapper) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down service components...")
	var finalErr error
	if err := w.pipelineService.Stop(ctx); err != nil {
		w.logger.Error("Processing pipeline shutdown failed.", "err", err)
		finalErr = err
	}
	if err := w.BaseServer.Shutdown(ctx); err != nil {
		w.logger.Error("HTTP server shutdown failed.", "err", err)
		finalErr = err
	}
	w.logger.Info("Service shutdown complete.")
	return finalErr
}
