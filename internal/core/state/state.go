// Package state persists the cart and order collections as whole JSON values
// under fixed keys of a key-value store.
package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rl1809/shop-cart/internal/port"
)

const (
	KeyCart   = "cart"
	KeyOrders = "orders"
)

// Load reads and decodes the value under key. A missing key, a failed read,
// or a payload that does not decode all yield def; the returned error is
// advisory in those cases so callers can log the degradation and carry on.
func Load[T any](ctx context.Context, kv port.KeyValueStore, key string, def T) (T, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return def, fmt.Errorf("get %q: %w", key, err)
	}
	if !found {
		return def, nil
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return def, fmt.Errorf("decode %q: %w", key, err)
	}

	return value, nil
}

// Save encodes value and fully overwrites the entry under key.
func Save[T any](ctx context.Context, kv port.KeyValueStore, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	return nil
}
