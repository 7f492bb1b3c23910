package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ksiegowosc"
	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ports"
)

// ErrSecretNotFound is returned when a source has no value for a name
var ErrSecretNotFound = errors.New("secret not found")

// StaticSource serves secrets from memory, typically values already read
// from the environment by the config layer
type StaticSource map[string]string

// GetSecret returns the value stored under name
func (s StaticSource) GetSecret(_ context.Context, name string) (string, error) {
	value, ok := s[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, nil
}

// LoadAuth reads the API id and key from source once, producing the
// immutable credentials the client is built with
func LoadAuth(ctx context.Context, source ports.SecretSource, idName, keyName string) (ksiegowosc.AuthConfig, error) {
	apiID, err := source.GetSecret(ctx, idName)
	if err != nil {
		return ksiegowosc.AuthConfig{}, fmt.Errorf("load api id: %w", err)
	}
	if apiID == "" {
		return ksiegowosc.AuthConfig{}, fmt.Errorf("load api id: %s is empty", idName)
	}

	apiKey, err := source.GetSecret(ctx, keyName)
	if err != nil {
		return ksiegowosc.AuthConfig{}, fmt.Errorf("load api key: %w", err)
	}

	return ksiegowosc.AuthConfig{APIId: apiID, APIKey: apiKey}, nil
}
