package storage

import (
	"context"

	"github.com/rs/zerolog"
)

// fallbackStore tries a remote store first and falls back to a local one.
type fallbackStore struct {
	primary  Store
	fallback Store
	logger   zerolog.Logger
}

// NewFallbackStore creates a store that writes to primary and, when that
// fails, to fallback. A nil primary writes to fallback only.
func NewFallbackStore(primary, fallback Store, logger zerolog.Logger) Store {
	return &fallbackStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With().Str("component", "fallback-store").Logger(),
	}
}

// Put stores the object in the first store that accepts it.
func (s *fallbackStore) Put(ctx context.Context, obj Object) (string, error) {
	if s.primary != nil {
		url, err := s.primary.Put(ctx, obj)
		if err == nil {
			return url, nil
		}

		s.logger.Warn().
			Err(err).
			Str("object", obj.Name).
			Msg("failed to store upload remotely, falling back to local storage")
	}

	return s.fallback.Put(ctx, obj)
}
