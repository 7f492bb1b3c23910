package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ports"
	"github.com/kevin07696/ksiegowosc-client/internal/adapters/secrets"
	"github.com/kevin07696/ksiegowosc-client/internal/config"
)

const (
	envAPIIdName  = "api_id"
	envAPIKeyName = "api_key"
)

// initSecretSource selects where the API credentials come from:
//   - env (default): KSIEGOWOSC_API_ID / KSIEGOWOSC_API_KEY
//   - file: one file per secret under KSIEGOWOSC_SECRETS_DIR
//   - aws: AWS Secrets Manager in KSIEGOWOSC_AWS_REGION
//   - vault: HashiCorp Vault KV at KSIEGOWOSC_VAULT_ADDRESS
//
// It returns the source with the names of the id and key secrets in it.
func initSecretSource(ctx context.Context, cfg *config.Config, logger ports.Logger) (ports.SecretSource, string, string, error) {
	switch strings.ToLower(cfg.CredentialSource) {
	case config.SourceEnv:
		source := secrets.StaticSource{envAPIIdName: cfg.APIId, envAPIKeyName: cfg.APIKey}
		return source, envAPIIdName, envAPIKeyName, nil

	case config.SourceFile:
		logger.Warn("Reading API credentials from local files, not for production use",
			ports.String("secrets_dir", cfg.SecretsDir),
		)
		return secrets.NewLocalSource(cfg.SecretsDir, logger), cfg.APIIdSecret, cfg.APIKeySecret, nil

	case config.SourceAWS:
		source, err := secrets.NewAWSSecretsManagerSource(ctx, &secrets.AWSSecretsManagerConfig{
			Region:   cfg.AWS.Region,
			Profile:  cfg.AWS.Profile,
			Endpoint: cfg.AWS.Endpoint,
		}, logger)
		if err != nil {
			return nil, "", "", err
		}
		return source, cfg.APIIdSecret, cfg.APIKeySecret, nil

	case config.SourceVault:
		vaultCfg := secrets.DefaultVaultConfig(cfg.Vault.Address)
		vaultCfg.AuthMethod = cfg.Vault.AuthMethod
		vaultCfg.Token = cfg.Vault.Token
		vaultCfg.RoleID = cfg.Vault.RoleID
		vaultCfg.SecretID = cfg.Vault.SecretID
		vaultCfg.Namespace = cfg.Vault.Namespace
		if cfg.Vault.MountPath != "" {
			vaultCfg.MountPath = cfg.Vault.MountPath
		}
		if cfg.Vault.KVVersion != "" {
			vaultCfg.KVVersion = cfg.Vault.KVVersion
		}

		source, err := secrets.NewVaultSource(ctx, vaultCfg, logger)
		if err != nil {
			return nil, "", "", err
		}
		return source, cfg.APIIdSecret, cfg.APIKeySecret, nil

	default:
		return nil, "", "", fmt.Errorf("unknown credential source %q", cfg.CredentialSource)
	}
}
