package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned when a stored value is encrypted but the
// store was opened without JOURNEYDEMO_SECRET_KEY.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set JOURNEYDEMO_SECRET_KEY")

// SettingsStore defines the driven port for the local key-value store.
// Values are opaque bytes (JSON encoded by the application layer) grouped in
// named partitions.
type SettingsStore interface {
	// Get returns the value stored under key, or (nil, nil) if absent.
	Get(ctx context.Context, ns model.Namespace, key string) ([]byte, error)

	// Set stores or replaces the value under key.
	Set(ctx context.Context, ns model.Namespace, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, ns model.Namespace, key string) error

	// Clear removes every key in the namespace and leaves others untouched.
	Clear(ctx context.Context, ns model.Namespace) error

	// Close releases the underlying resources.
	Close() error
}
