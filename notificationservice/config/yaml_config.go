package config

import (
	"fmt"
	"log/slog"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"

	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

type YamlCorsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	Role           string   `yaml:"role"`
}

type YamlRedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

type YamlSNSConfig struct {
	Region          string   `yaml:"region"`
	AccessKeyID     string   `yaml:"access_key_id"`
	SecretAccessKey string   `yaml:"secret_access_key"`
	Sandbox         bool     `yaml:"sandbox"`
	Platforms       []string `yaml:"platforms"`
	// Applications is keyed by platform name, e.g. "GCM" or "APNS".
	Applications map[string]string `yaml:"applications"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	ProjectID              string          `yaml:"project_id"`
	ListenAddr             string          `yaml:"listen_addr"`
	TopicID                string          `yaml:"topic_id"`
	SubscriptionID         string          `yaml:"subscription_id"`
	SubscriptionDLQTopicID string          `yaml:"subscription_dlq_topic_id"`
	CorsConfig             YamlCorsConfig  `yaml:"cors"`
	RedisConfig            YamlRedisConfig `yaml:"redis"`
	SNSConfig              YamlSNSConfig   `yaml:"sns"`
	NumPipelineWorkers     int             `yaml:"num_pipeline_workers"`
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
// Platform names are validated here so a typo in the file fails at startup.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	platforms, err := platform.ParseList(baseCfg.SNSConfig.Platforms)
	if err != nil {
		return nil, fmt.Errorf("invalid sns.platforms: %w", err)
	}
	applications := make(map[platform.Platform]string, len(baseCfg.SNSConfig.Applications))
	for name, arn := range baseCfg.SNSConfig.Applications {
		p, err := platform.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid sns.applications key: %w", err)
		}
		applications[p] = arn
	}

	cfg := &Config{
		ProjectID:      baseCfg.ProjectID,
		ListenAddr:     baseCfg.ListenAddr,
		TopicID:        baseCfg.TopicID,
		SubscriptionID: baseCfg.SubscriptionID,
		CorsConfig: middleware.CorsConfig{
			AllowedOrigins: baseCfg.CorsConfig.AllowedOrigins,
			Role:           middleware.CorsRole(baseCfg.CorsConfig.Role),
		},
		Redis: RedisConfig{
			Addr:     baseCfg.RedisConfig.Addr,
			Password: baseCfg.RedisConfig.Password,
			DB:       baseCfg.RedisConfig.DB,
			Enabled:  baseCfg.RedisConfig.Enabled,
		},
		SNS: SNSConfig{
			Region:          baseCfg.SNSConfig.Region,
			AccessKeyID:     baseCfg.SNSConfig.AccessKeyID,
			SecretAccessKey: baseCfg.SNSConfig.SecretAccessKey,
			Sandbox:         baseCfg.SNSConfig.Sandbox,
			Platforms:       platforms,
			Applications:    applications,
		},
		SubscriptionDLQTopicID: baseCfg.SubscriptionDLQTopicID,
		NumPipelineWorkers:     baseCfg.NumPipelineWorkers,
	}

	if cfg.SubscriptionID != "" {
		cfg.PubsubConsumerConfig = messagepipeline.NewGooglePubsubConsumerDefaults(cfg.SubscriptionID)
	}

	logger.Debug("YAML config mapping complete",
		"project_id", cfg.ProjectID,
		"listen_addr", cfg.ListenAddr,
		"subscription_id", cfg.SubscriptionID,
		"sns_region", cfg.SNS.Region,
		"sns_platforms", len(cfg.SNS.Platforms),
	)

	return cfg, nil
}
