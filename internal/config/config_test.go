package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KSIEGOWOSC_API_ID", "api-id")
	t.Setenv("KSIEGOWOSC_API_KEY", "api-key")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "https://program.360ksiegowosc.pl/api", cfg.BaseURL)
	assert.Equal(t, "api-id", cfg.APIId)
	assert.Equal(t, "api-key", cfg.APIKey)
	assert.Equal(t, SourceEnv, cfg.CredentialSource)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "accounting", cfg.HTTPPreset)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Equal(t, "secret", cfg.Vault.MountPath)
	assert.Equal(t, "v2", cfg.Vault.KVVersion)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KSIEGOWOSC_API_ID", "api-id")
	t.Setenv("KSIEGOWOSC_BASE_URL", "http://localhost:8080/api")
	t.Setenv("KSIEGOWOSC_LOG_LEVEL", "debug")
	t.Setenv("KSIEGOWOSC_LOG_DEVELOPMENT", "true")
	t.Setenv("KSIEGOWOSC_RATE_LIMIT_RPS", "2.5")
	t.Setenv("KSIEGOWOSC_RATE_LIMIT_BURST", "3")
	t.Setenv("KSIEGOWOSC_AWS_REGION", "eu-west-1")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogDevelopment)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ksiegowosc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
credential_source: vault
vault_address: http://127.0.0.1:8200
vault_token: root
api_id_secret: acct/id
api_key_secret: acct/key
metrics_addr: ":9090"
`), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, SourceVault, cfg.CredentialSource)
	assert.Equal(t, "http://127.0.0.1:8200", cfg.Vault.Address)
	assert.Equal(t, "root", cfg.Vault.Token)
	assert.Equal(t, "acct/id", cfg.APIIdSecret)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		BaseURL:          "https://program.360ksiegowosc.pl/api",
		APIId:            "api-id",
		CredentialSource: SourceEnv,
		APIIdSecret:      "ksiegowosc/api_id",
		APIKeySecret:     "ksiegowosc/api_key",
		SecretsDir:       "./secrets",
		AWS:              AWSConfig{Region: "eu-central-1"},
		Vault:            VaultConfig{Address: "http://127.0.0.1:8200"},
		RateLimitBurst:   1,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid env", func(c *Config) {}, ""},
		{"empty api key is allowed", func(c *Config) { c.APIKey = "" }, ""},
		{"env without api id", func(c *Config) { c.APIId = "" }, "KSIEGOWOSC_API_ID is required"},
		{"bad base url", func(c *Config) { c.BaseURL = "program.360ksiegowosc.pl" }, "invalid base_url"},
		{"unknown source", func(c *Config) { c.CredentialSource = "gcp" }, "unknown credential_source"},
		{"file without dir", func(c *Config) { c.CredentialSource = SourceFile; c.SecretsDir = "" }, "secrets_dir"},
		{"aws without region", func(c *Config) { c.CredentialSource = SourceAWS; c.AWS.Region = "" }, "aws_region"},
		{"vault without address", func(c *Config) { c.CredentialSource = SourceVault; c.Vault.Address = "" }, "vault_address"},
		{"vault without secret names", func(c *Config) { c.CredentialSource = SourceVault; c.APIKeySecret = "" }, "api_key_secret"},
		{"negative rps", func(c *Config) { c.RateLimitRPS = -1 }, "rate_limit_rps"},
		{"rps without burst", func(c *Config) { c.RateLimitRPS = 1; c.RateLimitBurst = 0 }, "rate_limit_burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
