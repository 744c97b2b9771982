package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// EventBusinessBranch is published whenever the business branch flag is set.
const EventBusinessBranch = "business-branch"

// ErrInvalidProfiles is returned when saved profiles are not a JSON array.
var ErrInvalidProfiles = errors.New("custom profiles must be a JSON array")

// PreferencesService stores UI state: custom applicant profiles, the
// onboarding tour flag and the business branch flag.
type PreferencesService struct {
	store  driven.SettingsStore
	events driven.EventPublisher
}

// NewPreferencesService creates a new PreferencesService. events may be nil.
func NewPreferencesService(store driven.SettingsStore, events driven.EventPublisher) *PreferencesService {
	return &PreferencesService{store: store, events: events}
}

// Profiles returns the saved custom profiles as a raw JSON array, "[]" when
// none are stored.
func (s *PreferencesService) Profiles(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.store.Get(ctx, model.NamespaceProfiles, model.KeyProfiles)
	if err != nil {
		return nil, fmt.Errorf("loading custom profiles: %w", err)
	}
	if raw == nil {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(raw), nil
}

// SaveProfiles replaces the custom profiles. The content of each profile is
// opaque; only the outer array is checked.
func (s *PreferencesService) SaveProfiles(ctx context.Context, profiles json.RawMessage) error {
	var list []json.RawMessage
	if err := json.Unmarshal(profiles, &list); err != nil {
		return ErrInvalidProfiles
	}
	if list == nil {
		profiles = json.RawMessage("[]")
	}
	if err := s.store.Set(ctx, model.NamespaceProfiles, model.KeyProfiles, profiles); err != nil {
		return fmt.Errorf("saving custom profiles: %w", err)
	}
	return nil
}

// TourShown reports whether the onboarding tour has been shown.
func (s *PreferencesService) TourShown(ctx context.Context) (bool, error) {
	return s.flag(ctx, model.NamespaceTourFlags, model.KeyTourShown)
}

// SetTourShown records whether the onboarding tour has been shown.
func (s *PreferencesService) SetTourShown(ctx context.Context, value bool) error {
	return storeJSON(ctx, s.store, model.NamespaceTourFlags, model.KeyTourShown, value)
}

// BusinessBranch reports whether the configured journey has a businesses branch.
func (s *PreferencesService) BusinessBranch(ctx context.Context) (bool, error) {
	return s.flag(ctx, model.NamespaceBusinessBranch, model.KeyHasBusinessesBranch)
}

// SetBusinessBranch stores the flag and broadcasts it to open UI surfaces.
func (s *PreferencesService) SetBusinessBranch(ctx context.Context, value bool) error {
	if err := storeJSON(ctx, s.store, model.NamespaceBusinessBranch, model.KeyHasBusinessesBranch, value); err != nil {
		return fmt.Errorf("saving business branch flag: %w", err)
	}
	if s.events != nil {
		s.events.Publish(EventBusinessBranch, value)
	}
	return nil
}

// ClearAll removes the stored configuration and the application history.
func (s *PreferencesService) ClearAll(ctx context.Context) error {
	for _, ns := range []model.Namespace{model.NamespaceConfig, model.NamespaceHistory} {
		if err := s.store.Clear(ctx, ns); err != nil {
			return fmt.Errorf("clearing %s: %w", ns, err)
		}
	}
	slog.Info("local storage cleared")
	return nil
}

func (s *PreferencesService) flag(ctx context.Context, ns model.Namespace, key string) (bool, error) {
	var value bool
	if _, err := loadJSON(ctx, s.store, ns, key, &value); err != nil {
		return false, fmt.Errorf("loading %s flag: %w", key, err)
	}
	return value, nil
}
