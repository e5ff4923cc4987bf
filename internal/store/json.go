package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
)

// ErrCorrupt marks a stored document that no longer decodes.
var ErrCorrupt = errors.New("corrupt document")

// LoadJSON decodes the document under key into dst. It reports false when
// the key is absent. A document that fails to decode yields an error
// wrapping ErrCorrupt.
func LoadJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, errors.Join(ErrCorrupt, err))
	}
	return true, nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
