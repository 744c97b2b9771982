package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// ConfigResolver determines the active CredentialSet. The settings store is
// authoritative; the CredentialSource fills whatever the store lacks.
type ConfigResolver struct {
	store driven.SettingsStore
	env   driven.CredentialSource
}

// NewConfigResolver creates a new ConfigResolver with the required dependencies.
func NewConfigResolver(store driven.SettingsStore, env driven.CredentialSource) *ConfigResolver {
	return &ConfigResolver{store: store, env: env}
}

// Resolve returns the active CredentialSet with its theme defaulted. When the
// stored set is incomplete, empty fields are filled from the environment and
// a now-complete set is written back. ok is false when no complete set can
// be assembled. A failed store read is logged and treated as "nothing
// stored", and the merged set is then not written back so a transient error
// cannot overwrite an existing stored set.
func (r *ConfigResolver) Resolve(ctx context.Context) (model.CredentialSet, bool) {
	stored, readErr := r.stored(ctx)
	if stored.IsComplete() {
		return stored.WithDefaults(), true
	}

	merged := stored.Merge(r.env.Load())
	if !merged.IsComplete() {
		slog.Debug("configuration incomplete", "missing", merged.MissingFields())
		return model.CredentialSet{}, false
	}

	merged = merged.WithDefaults()
	if readErr != nil {
		return merged, true
	}
	if err := storeJSON(ctx, r.store, model.NamespaceConfig, model.KeyConfig, merged); err != nil {
		slog.Warn("failed to persist configuration from environment", "error", err)
	} else {
		slog.Info("configuration loaded from environment and persisted")
	}
	return merged, true
}

// IsConfigured reports whether Resolve finds a complete CredentialSet.
func (r *ConfigResolver) IsConfigured(ctx context.Context) bool {
	_, ok := r.Resolve(ctx)
	return ok
}

// Draft returns the values used to prefill the setup form: the stored set
// when one exists, otherwise whatever the environment provides. The result
// may be incomplete.
func (r *ConfigResolver) Draft(ctx context.Context) model.CredentialSet {
	var stored model.CredentialSet
	found, err := loadJSON(ctx, r.store, model.NamespaceConfig, model.KeyConfig, &stored)
	if err != nil {
		slog.Warn("failed to read stored configuration", "error", err)
	}
	if found {
		return stored.WithDefaults()
	}
	return r.env.Load().WithDefaults()
}

// Save validates and persists set, then mirrors it to the CredentialSource.
// Returns *model.MissingFieldsError when a mandatory field is empty.
func (r *ConfigResolver) Save(ctx context.Context, set model.CredentialSet) error {
	if missing := set.MissingFields(); len(missing) > 0 {
		return &model.MissingFieldsError{Fields: missing}
	}

	set = set.WithDefaults()
	if err := storeJSON(ctx, r.store, model.NamespaceConfig, model.KeyConfig, set); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	if err := r.env.Save(set); err != nil {
		slog.Warn("failed to mirror configuration to env file", "error", err)
	}

	slog.Info("configuration saved", "base_url", set.BaseURL, "theme", set.Theme)
	return nil
}

// Clear removes the stored CredentialSet. Environment fallback still applies
// on the next Resolve.
func (r *ConfigResolver) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, model.NamespaceConfig, model.KeyConfig); err != nil {
		return fmt.Errorf("clearing configuration: %w", err)
	}
	return nil
}

func (r *ConfigResolver) stored(ctx context.Context) (model.CredentialSet, error) {
	var set model.CredentialSet
	if _, err := loadJSON(ctx, r.store, model.NamespaceConfig, model.KeyConfig, &set); err != nil {
		slog.Warn("failed to read stored configuration", "error", err)
		return model.CredentialSet{}, err
	}
	return set, nil
}
