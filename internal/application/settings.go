package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// loadJSON decodes the value at ns/key into dst. It reports false when the
// key is absent. Numbers inside documents stay json.Number.
func loadJSON(ctx context.Context, store driven.SettingsStore, ns model.Namespace, key string, dst any) (bool, error) {
	raw, err := store.Get(ctx, ns, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return false, fmt.Errorf("decoding %s/%s: %w", ns, key, err)
	}
	return true, nil
}

// storeJSON encodes v and writes it to ns/key.
func storeJSON(ctx context.Context, store driven.SettingsStore, ns model.Namespace, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", ns, key, err)
	}
	return store.Set(ctx, ns, key, raw)
}
