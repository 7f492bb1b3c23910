package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "KSIEGOWOSC"

// Credential sources
const (
	SourceEnv   = "env"
	SourceFile  = "file"
	SourceAWS   = "aws"
	SourceVault = "vault"
)

// Config holds all application configuration
type Config struct {
	BaseURL string `mapstructure:"base_url"`

	// Credentials when CredentialSource is "env"
	APIId  string `mapstructure:"api_id"`
	APIKey string `mapstructure:"api_key"`

	// env, file, aws or vault
	CredentialSource string `mapstructure:"credential_source"`
	APIIdSecret      string `mapstructure:"api_id_secret"`
	APIKeySecret     string `mapstructure:"api_key_secret"`
	SecretsDir       string `mapstructure:"secrets_dir"`

	AWS   AWSConfig   `mapstructure:",squash"`
	Vault VaultConfig `mapstructure:",squash"`

	LogLevel       string `mapstructure:"log_level"` // debug, info, warn, error
	LogDevelopment bool   `mapstructure:"log_development"`

	// Outbound limiter, disabled when RateLimitRPS is 0
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	HTTPPreset  string `mapstructure:"http_preset"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// AWSConfig holds AWS Secrets Manager settings
type AWSConfig struct {
	Region   string `mapstructure:"aws_region"`
	Profile  string `mapstructure:"aws_profile"`
	Endpoint string `mapstructure:"aws_endpoint"`
}

// VaultConfig holds HashiCorp Vault settings
type VaultConfig struct {
	Address    string `mapstructure:"vault_address"`
	AuthMethod string `mapstructure:"vault_auth_method"`
	Token      string `mapstructure:"vault_token"`
	RoleID     string `mapstructure:"vault_role_id"`
	SecretID   string `mapstructure:"vault_secret_id"`
	Namespace  string `mapstructure:"vault_namespace"`
	MountPath  string `mapstructure:"vault_mount"`
	KVVersion  string `mapstructure:"vault_kv_version"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://program.360ksiegowosc.pl/api")
	v.SetDefault("api_id", "")
	v.SetDefault("api_key", "")
	v.SetDefault("credential_source", SourceEnv)
	v.SetDefault("api_id_secret", "ksiegowosc/api_id")
	v.SetDefault("api_key_secret", "ksiegowosc/api_key")
	v.SetDefault("secrets_dir", "./secrets")
	v.SetDefault("aws_region", "eu-central-1")
	v.SetDefault("aws_profile", "")
	v.SetDefault("aws_endpoint", "")
	v.SetDefault("vault_address", "")
	v.SetDefault("vault_auth_method", "token")
	v.SetDefault("vault_token", "")
	v.SetDefault("vault_role_id", "")
	v.SetDefault("vault_secret_id", "")
	v.SetDefault("vault_namespace", "")
	v.SetDefault("vault_mount", "secret")
	v.SetDefault("vault_kv_version", "v2")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 1)
	v.SetDefault("http_preset", "accounting")
	v.SetDefault("metrics_addr", "")
}

// Load reads configuration from an optional .env file, an optional config
// file and KSIEGOWOSC_* environment variables, in increasing precedence.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings needed by the selected credential
// source are present
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}

	switch strings.ToLower(c.CredentialSource) {
	case SourceEnv:
		if c.APIId == "" {
			return fmt.Errorf("%s_API_ID is required", EnvPrefix)
		}
	case SourceFile:
		if c.SecretsDir == "" {
			return fmt.Errorf("secrets_dir is required for the file credential source")
		}
	case SourceAWS:
		if c.AWS.Region == "" {
			return fmt.Errorf("aws_region is required for the aws credential source")
		}
	case SourceVault:
		if c.Vault.Address == "" {
			return fmt.Errorf("vault_address is required for the vault credential source")
		}
	default:
		return fmt.Errorf("unknown credential_source %q (want env, file, aws or vault)", c.CredentialSource)
	}

	if c.CredentialSource != SourceEnv && (c.APIIdSecret == "" || c.APIKeySecret == "") {
		return fmt.Errorf("api_id_secret and api_key_secret are required")
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("invalid rate_limit_rps (must not be negative)")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("invalid rate_limit_burst (must be at least 1)")
	}

	return nil
}
