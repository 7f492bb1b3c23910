package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ports"
)

// AWSSecretsManagerConfig contains configuration for the AWS Secrets Manager source
type AWSSecretsManagerConfig struct {
	// AWS Region (e.g., "eu-central-1")
	Region string

	// Optional: AWS profile name (for local development)
	Profile string

	// Optional: Custom endpoint (for LocalStack testing)
	Endpoint string
}

// secretsManagerAPI is the subset of the Secrets Manager client used here
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// awsSecretsManagerSource reads credentials from AWS Secrets Manager
type awsSecretsManagerSource struct {
	client secretsManagerAPI
	logger ports.Logger
}

// NewAWSSecretsManagerSource creates a SecretSource backed by AWS Secrets Manager
func NewAWSSecretsManagerSource(ctx context.Context, cfg *AWSSecretsManagerConfig, logger ports.Logger) (ports.SecretSource, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		// Use specific profile (local development)
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOptions := []func(*secretsmanager.Options){}
	if cfg.Endpoint != "" {
		clientOptions = append(clientOptions, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	source := newAWSSecretsManagerSource(secretsmanager.NewFromConfig(awsConfig, clientOptions...), logger)
	source.logger.Info("AWS Secrets Manager source initialized",
		ports.String("region", cfg.Region),
	)

	return source, nil
}

func newAWSSecretsManagerSource(client secretsManagerAPI, logger ports.Logger) *awsSecretsManagerSource {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &awsSecretsManagerSource{client: client, logger: logger}
}

// GetSecret retrieves the string value of the secret named name (name or ARN)
func (s *awsSecretsManagerSource) GetSecret(ctx context.Context, name string) (string, error) {
	startTime := time.Now()
	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		s.logger.Error("Failed to retrieve secret",
			ports.String("name", name),
			ports.Err(err),
		)
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}

	if result.SecretString == nil {
		return "", fmt.Errorf("%w: %s has no string value", ErrSecretNotFound, name)
	}

	s.logger.Debug("Secret retrieved",
		ports.String("name", name),
		ports.Duration("elapsed", time.Since(startTime)),
	)

	return aws.ToString(result.SecretString), nil
}
