package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ports"
)

// localSource reads credentials from files under a base directory.
// WARNING: This is for development only. Use AWS Secrets Manager or Vault in production.
type localSource struct {
	basePath string
	logger   ports.Logger
}

// NewLocalSource creates a filesystem backed SecretSource
func NewLocalSource(basePath string, logger ports.Logger) ports.SecretSource {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &localSource{basePath: basePath, logger: logger}
}

// GetSecret reads basePath/name. The file may hold the bare value or a JSON
// object with a "value" key. Surrounding whitespace is dropped.
func (s *localSource) GetSecret(ctx context.Context, name string) (string, error) {
	filePath := filepath.Join(s.basePath, filepath.Clean("/"+name))

	s.logger.Debug("Reading secret from filesystem",
		ports.String("name", name),
	)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		}
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	var secretData struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &secretData); err == nil && secretData.Value != nil {
		return *secretData.Value, nil
	}

	return strings.TrimSpace(string(data)), nil
}
