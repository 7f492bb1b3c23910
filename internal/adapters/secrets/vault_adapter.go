package secrets

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ports"
)

// VaultConfig contains configuration for the HashiCorp Vault source
type VaultConfig struct {
	// Vault server address (e.g., "https://vault.example.com:8200")
	Address string

	// Authentication method: "token" or "approle"
	AuthMethod string

	Token string

	// AppRole credentials (if using AppRole auth)
	RoleID   string
	SecretID string

	// Vault namespace (Vault Enterprise)
	Namespace string

	// KV secrets engine mount path (default: "secret")
	MountPath string

	// KV version: "v1" or "v2" (default: "v2")
	KVVersion string

	TLSSkipVerify bool
}

// DefaultVaultConfig returns default configuration for the Vault source
func DefaultVaultConfig(address string) *VaultConfig {
	return &VaultConfig{
		Address:    address,
		AuthMethod: "token",
		MountPath:  "secret",
		KVVersion:  "v2",
	}
}

// logicalReader is the subset of the Vault logical API used here
type logicalReader interface {
	ReadWithContext(ctx context.Context, path string) (*vault.Secret, error)
}

// vaultSource reads credentials from a Vault KV engine
type vaultSource struct {
	logical   logicalReader
	mountPath string
	kvVersion string
	logger    ports.Logger
}

// NewVaultSource creates a SecretSource backed by HashiCorp Vault
func NewVaultSource(ctx context.Context, cfg *VaultConfig, logger ports.Logger) (ports.SecretSource, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSSkipVerify {
		if err := vaultConfig.ConfigureTLS(&vault.TLSConfig{Insecure: true}); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}

	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	if err := authenticateVault(ctx, client, cfg); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	if logger == nil {
		logger = ports.NopLogger{}
	}
	logger.Info("Vault source initialized",
		ports.String("address", cfg.Address),
		ports.String("auth_method", cfg.AuthMethod),
		ports.String("mount_path", cfg.MountPath),
		ports.String("kv_version", cfg.KVVersion),
	)

	return newVaultSource(client.Logical(), cfg, logger), nil
}

func newVaultSource(logical logicalReader, cfg *VaultConfig, logger ports.Logger) *vaultSource {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	mount := cfg.MountPath
	if mount == "" {
		mount = "secret"
	}
	return &vaultSource{
		logical:   logical,
		mountPath: mount,
		kvVersion: cfg.KVVersion,
		logger:    logger,
	}
}

func authenticateVault(ctx context.Context, client *vault.Client, cfg *VaultConfig) error {
	switch cfg.AuthMethod {
	case "", "token":
		if cfg.Token == "" {
			return fmt.Errorf("token is required for token auth")
		}
		client.SetToken(cfg.Token)
		return nil

	case "approle":
		if cfg.RoleID == "" || cfg.SecretID == "" {
			return fmt.Errorf("role_id and secret_id are required for AppRole auth")
		}
		resp, err := client.Logical().WriteWithContext(ctx, "auth/approle/login", map[string]interface{}{
			"role_id":   cfg.RoleID,
			"secret_id": cfg.SecretID,
		})
		if err != nil {
			return fmt.Errorf("AppRole login failed: %w", err)
		}
		if resp == nil || resp.Auth == nil {
			return fmt.Errorf("AppRole login returned no auth info")
		}
		client.SetToken(resp.Auth.ClientToken)
		return nil

	default:
		return fmt.Errorf("unsupported auth method: %s", cfg.AuthMethod)
	}
}

// fullPath builds the logical path for name based on the KV version
func (s *vaultSource) fullPath(name string) string {
	if s.kvVersion == "v1" {
		return fmt.Sprintf("%s/%s", s.mountPath, name)
	}
	return fmt.Sprintf("%s/data/%s", s.mountPath, name)
}

// GetSecret reads the "value" key of the secret at name
func (s *vaultSource) GetSecret(ctx context.Context, name string) (string, error) {
	secret, err := s.logical.ReadWithContext(ctx, s.fullPath(name))
	if err != nil {
		s.logger.Error("Failed to retrieve secret from Vault",
			ports.String("name", name),
			ports.Err(err),
		)
		return "", fmt.Errorf("failed to read secret from Vault: %w", err)
	}
	if secret == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}

	data := secret.Data
	if s.kvVersion != "v1" {
		// KV v2 wraps data in "data" field
		nested, ok := secret.Data["data"].(map[string]interface{})
		if !ok {
			return "", fmt.Errorf("invalid secret format from Vault for %s", name)
		}
		data = nested
	}

	value, ok := data["value"].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s has no string \"value\" key", ErrSecretNotFound, name)
	}
	return value, nil
}
