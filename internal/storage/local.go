package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// localStore writes uploads to a directory served by the HTTP server.
type localStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewLocalStore creates a store that writes into dir and returns URLs under baseURL.
func NewLocalStore(dir, baseURL string, logger zerolog.Logger) Store {
	return &localStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "local-store").Logger(),
	}
}

// Put writes the object to the upload directory.
func (s *localStore) Put(_ context.Context, obj Object) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, obj.Name)
	if err := os.WriteFile(path, obj.Data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to write upload")
		return "", fmt.Errorf("failed to write upload %s: %w", path, err)
	}

	s.logger.Debug().Str("file", path).Int("bytes", len(obj.Data)).Msg("upload stored")
	return s.baseURL + "/" + obj.Name, nil
}
