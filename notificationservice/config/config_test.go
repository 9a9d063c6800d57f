package config_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-sns-notifier/notificationservice/config"
	"github.com/tinywideclouds/go-sns-notifier/pkg/platform"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PROJECT_ID", "PORT", "TOPIC_ID", "SUBSCRIPTION_ID", "SUBSCRIPTION_DLQ_TOPIC_ID",
		"NUM_PIPELINE_WORKERS", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_ENABLED",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"SNS_SANDBOX", "SNS_PLATFORMS", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	for _, p := range platform.All {
		t.Setenv("SNS_APPLICATION_"+p.String(), "")
	}
}

func TestUpdateConfigWithEnvOverrides(t *testing.T) {
	logger := newTestLogger()

	baseConfig := func() *config.Config {
		return &config.Config{
			ProjectID:          "base-project",
			ListenAddr:         ":8080",
			SubscriptionID:     "base-sub",
			NumPipelineWorkers: 2,
			SNS: config.SNSConfig{
				Region: "eu-west-1",
				Applications: map[platform.Platform]string{
					platform.GCM: "arn:base:gcm",
				},
			},
		}
	}

	t.Run("Success - All overrides applied", func(t *testing.T) {
		clearEnv(t)
		cfg := baseConfig()

		t.Setenv("PROJECT_ID", "env-project")
		t.Setenv("PORT", "9090")
		t.Setenv("SUBSCRIPTION_ID", "env-sub")
		t.Setenv("AWS_REGION", "us-east-1")
		t.Setenv("AWS_ACCESS_KEY_ID", "env-key")
		t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret")
		t.Setenv("SNS_SANDBOX", "true")
		t.Setenv("SNS_PLATFORMS", "apns_sandbox, gcm")
		t.Setenv("SNS_APPLICATION_APNS_SANDBOX", "arn:env:apns")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.com, ,http://b.com")

		finalCfg, err := config.UpdateConfigWithEnvOverrides(cfg, logger)
		require.NoError(t, err)

		assert.Equal(t, "env-project", finalCfg.ProjectID)
		assert.Equal(t, ":9090", finalCfg.ListenAddr)
		assert.Equal(t, "env-sub", finalCfg.SubscriptionID)
		require.NotNil(t, finalCfg.PubsubConsumerConfig)
		assert.Equal(t, "env-sub", finalCfg.PubsubConsumerConfig.SubscriptionID)

		assert.Equal(t, "us-east-1", finalCfg.SNS.Region)
		assert.Equal(t, "env-key", finalCfg.SNS.AccessKeyID)
		assert.Equal(t, "env-secret", finalCfg.SNS.SecretAccessKey)
		assert.True(t, finalCfg.SNS.Sandbox)
		assert.Equal(t, []platform.Platform{platform.APNSSandbox, platform.GCM}, finalCfg.SNS.Platforms)
		assert.Equal(t, "arn:env:apns", finalCfg.SNS.Applications[platform.APNSSandbox])
		assert.Equal(t, "arn:base:gcm", finalCfg.SNS.Applications[platform.GCM])

		assert.Equal(t, []string{"http://a.com", "http://b.com"}, finalCfg.CorsConfig.AllowedOrigins)
	})

	t.Run("Success - Defaults preserved", func(t *testing.T) {
		clearEnv(t)
		cfg := baseConfig()
		finalCfg, err := config.UpdateConfigWithEnvOverrides(cfg, logger)
		require.NoError(t, err)

		assert.Equal(t, "base-project", finalCfg.ProjectID)
		assert.Equal(t, "eu-west-1", finalCfg.SNS.Region)
		assert.Equal(t, platform.Defaults(), finalCfg.SNS.Platforms)
		assert.False(t, finalCfg.SNS.Sandbox)
	})

	t.Run("Success - Redis enabled by address", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("REDIS_DB", "3")

		finalCfg, err := config.UpdateConfigWithEnvOverrides(baseConfig(), logger)
		require.NoError(t, err)

		assert.True(t, finalCfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", finalCfg.Redis.Addr)
		assert.Equal(t, 3, finalCfg.Redis.DB)
	})

	t.Run("Validation Failure - Missing ProjectID", func(t *testing.T) {
		clearEnv(t)
		cfg := &config.Config{SubscriptionID: "sub", SNS: config.SNSConfig{Region: "eu-west-1"}}
		_, err := config.UpdateConfigWithEnvOverrides(cfg, logger)
		assert.Error(t, err)
	})

	t.Run("Validation Failure - Missing Region", func(t *testing.T) {
		clearEnv(t)
		cfg := baseConfig()
		cfg.SNS.Region = ""
		_, err := config.UpdateConfigWithEnvOverrides(cfg, logger)
		assert.ErrorContains(t, err, "sns.region")
	})

	t.Run("Validation Failure - Unknown platform", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SNS_PLATFORMS", "GCM,WNS")
		_, err := config.UpdateConfigWithEnvOverrides(baseConfig(), logger)
		assert.ErrorContains(t, err, "SNS_PLATFORMS")
	})

	t.Run("Validation Failure - Bad sandbox flag", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SNS_SANDBOX", "maybe")
		_, err := config.UpdateConfigWithEnvOverrides(baseConfig(), logger)
		assert.Error(t, err)
	})
}
