package ports

import "context"

// SecretSource resolves a named secret to its plain value.
// Implementations exist for the environment, local files, AWS Secrets
// Manager and HashiCorp Vault. Values are read once at startup; nothing
// is cached or refreshed behind the caller's back.
type SecretSource interface {
	// GetSecret returns the value stored under name.
	// Returns error if the secret does not exist or the backend is unreachable.
	GetSecret(ctx context.Context, name string) (string, error)
}
