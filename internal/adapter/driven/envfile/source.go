// Package envfile implements the CredentialSource port from process
// environment variables and an optional dotenv file.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialSource = (*Source)(nil)

// Variable names read from the environment and written to the dotenv file.
const (
	EnvSDKKey       = "ALLOY_SDK_KEY"
	EnvJourneyToken = "ALLOY_JOURNEY_TOKEN"
	EnvAPIToken     = "ALLOY_TOKEN"
	EnvAPISecret    = "ALLOY_SECRET"
	EnvBaseURL      = "ALLOY_BASE_URL"
	EnvTheme        = "THEME"
)

// Source reads credentials from the process environment, falling back to a
// dotenv file. Process variables win over the file.
type Source struct {
	path     string
	writable bool
}

// NewSource creates a Source backed by the dotenv file at path. An empty path
// disables the file. When writable is false, Save is a no-op.
func NewSource(path string, writable bool) *Source {
	return &Source{path: path, writable: writable}
}

// Load re-reads the environment and the dotenv file on every call.
func (s *Source) Load() model.CredentialSet {
	v := s.newViper()

	if s.path != "" {
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to read env file", "path", s.path, "error", err)
		}
	}

	return model.CredentialSet{
		SDKKey:       v.GetString(EnvSDKKey),
		JourneyToken: v.GetString(EnvJourneyToken),
		APIToken:     v.GetString(EnvAPIToken),
		APISecret:    v.GetString(EnvAPISecret),
		BaseURL:      v.GetString(EnvBaseURL),
		Theme:        v.GetString(EnvTheme),
	}
}

// Save writes set to the dotenv file, replacing its contents.
func (s *Source) Save(set model.CredentialSet) error {
	if !s.writable || s.path == "" {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create env file directory: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("env")
	v.Set(EnvSDKKey, set.SDKKey)
	v.Set(EnvJourneyToken, set.JourneyToken)
	v.Set(EnvAPIToken, set.APIToken)
	v.Set(EnvAPISecret, set.APISecret)
	v.Set(EnvBaseURL, set.BaseURL)
	v.Set(EnvTheme, set.WithDefaults().Theme)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write env file %s: %w", s.path, err)
	}

	slog.Info("configuration mirrored to env file", "path", s.path)
	return nil
}

func (s *Source) newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	if s.path != "" {
		v.SetConfigFile(s.path)
		v.SetConfigType("env")
	}
	return v
}
