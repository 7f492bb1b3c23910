package mocks

import (
	"context"
	"fmt"
)

// MockSecretSource serves secrets from a map
type MockSecretSource struct {
	Secrets map[string]string
	Err     error
}

// NewMockSecretSource creates a secret source preloaded with secrets
func NewMockSecretSource(secrets map[string]string) *MockSecretSource {
	return &MockSecretSource{Secrets: secrets}
}

// GetSecret returns the stored value or an error when missing
func (m *MockSecretSource) GetSecret(ctx context.Context, name string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	value, ok := m.Secrets[name]
	if !ok {
		return "", fmt.Errorf("secret not found: %s", name)
	}
	return value, nil
}
