package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"

	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// SNSConfig holds the AWS side of the service.
type SNSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Sandbox         bool
	// Platforms is the default envelope selection for every publish.
	Platforms []platform.Platform
	// Applications maps a platform to the ARN of the SNS platform application
	// devices on that platform are registered under.
	Applications map[platform.Platform]string
}

// Config defines the *single*, authoritative configuration.
type Config struct {
	ProjectID              string
	ListenAddr             string
	SubscriptionID         string
	SubscriptionDLQTopicID string
	NumPipelineWorkers     int

	CorsConfig middleware.CorsConfig
	Redis      RedisConfig
	SNS        SNSConfig

	TopicID              string
	PubsubConsumerConfig *messagepipeline.GooglePubsubConsumerConfig
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	// 1. Apply Environment Overrides
	if val := os.Getenv("PROJECT_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "PROJECT_ID", "source", "env")
		cfg.ProjectID = val
	}
	if val := os.Getenv("PORT"); val != "" {
		logger.Debug("Overriding config value", "key", "PORT", "source", "env")
		cfg.ListenAddr = ":" + val
	}
	if val := os.Getenv("TOPIC_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "TOPIC_ID", "source", "env")
		cfg.TopicID = val
	}
	if val := os.Getenv("SUBSCRIPTION_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "SUBSCRIPTION_ID", "source", "env")
		cfg.SubscriptionID = val
		cfg.PubsubConsumerConfig = messagepipeline.NewGooglePubsubConsumerDefaults(val)
	}
	if val := os.Getenv("SUBSCRIPTION_DLQ_TOPIC_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "SUBSCRIPTION_DLQ_TOPIC_ID", "source", "env")
		cfg.SubscriptionDLQTopicID = val
	}
	if val := os.Getenv("NUM_PIPELINE_WORKERS"); val != "" {
		if workers, err := strconv.Atoi(val); err == nil && workers > 0 {
			logger.Debug("Overriding config value", "key", "NUM_PIPELINE_WORKERS", "source", "env")
			cfg.NumPipelineWorkers = workers
		}
	}

	// Redis Overrides
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = db
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		enabled, _ := strconv.ParseBool(val)
		cfg.Redis.Enabled = enabled
	}

	// SNS Overrides
	if val := os.Getenv("AWS_REGION"); val != "" {
		logger.Debug("Overriding config value", "key", "AWS_REGION", "source", "env")
		cfg.SNS.Region = val
	}
	if val := os.Getenv("AWS_ACCESS_KEY_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "AWS_ACCESS_KEY_ID", "source", "env")
		cfg.SNS.AccessKeyID = val
	}
	if val := os.Getenv("AWS_SECRET_ACCESS_KEY"); val != "" {
		logger.Debug("Overriding config value", "key", "AWS_SECRET_ACCESS_KEY", "source", "env")
		cfg.SNS.SecretAccessKey = val
	}
	if val := os.Getenv("SNS_SANDBOX"); val != "" {
		sandbox, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid SNS_SANDBOX value %q: %w", val, err)
		}
		cfg.SNS.Sandbox = sandbox
	}
	if val := os.Getenv("SNS_PLATFORMS"); val != "" {
		logger.Debug("Overriding config value", "key", "SNS_PLATFORMS", "source", "env")
		platforms, err := platform.ParseList(splitList(val))
		if err != nil {
			return nil, fmt.Errorf("invalid SNS_PLATFORMS: %w", err)
		}
		cfg.SNS.Platforms = platforms
	}
	for _, p := range platform.All {
		key := "SNS_APPLICATION_" + p.String()
		if val := os.Getenv(key); val != "" {
			logger.Debug("Overriding config value", "key", key, "source", "env")
			if cfg.SNS.Applications == nil {
				cfg.SNS.Applications = make(map[platform.Platform]string)
			}
			cfg.SNS.Applications[p] = val
		}
	}

	// CORS Overrides
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		logger.Debug("Overriding config value", "key", "CORS_ALLOWED_ORIGINS", "source", "env")
		cfg.CorsConfig.AllowedOrigins = splitList(corsOrigins)
	}

	// 2. Final Validation
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required (set via YAML or PROJECT_ID env var)")
	}
	if cfg.SubscriptionID == "" {
		return nil, fmt.Errorf("subscription_id is required (set via YAML or SUBSCRIPTION_ID env var)")
	}
	if cfg.SNS.Region == "" {
		return nil, fmt.Errorf("sns.region is required (set via YAML or AWS_REGION env var)")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.NumPipelineWorkers <= 0 {
		cfg.NumPipelineWorkers = 1
	}
	if len(cfg.SNS.Platforms) == 0 {
		cfg.SNS.Platforms = platform.Defaults()
	}
	if len(cfg.SNS.Applications) == 0 {
		logger.Warn("No SNS platform applications configured; device registration will be rejected")
	}

	if cfg.PubsubConsumerConfig == nil && cfg.SubscriptionID != "" {
		cfg.PubsubConsumerConfig = messagepipeline.NewGooglePubsubConsumerDefaults(cfg.SubscriptionID)
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}

func splitList(raw string) []string {
	var clean []string
	for _, s := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	return clean
}
