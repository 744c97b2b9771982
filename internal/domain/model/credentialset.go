package model

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultTheme is applied to a CredentialSet that carries no theme.
const DefaultTheme = "default"

// CredentialSet holds the operator-supplied credentials for the remote
// verification API. JSON names match the keys the bundled UI reads.
type CredentialSet struct {
	SDKKey       string `json:"ALLOY_SDK_KEY"`
	JourneyToken string `json:"ALLOY_JOURNEY_TOKEN"`
	APIToken     string `json:"ALLOY_TOKEN"`
	APISecret    string `json:"ALLOY_SECRET"`
	BaseURL      string `json:"ALLOY_BASE_URL"`
	Theme        string `json:"THEME"`
}

// Validate reports every mandatory field that is empty. Theme is optional.
func (c CredentialSet) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SDKKey, validation.Required),
		validation.Field(&c.JourneyToken, validation.Required),
		validation.Field(&c.APIToken, validation.Required),
		validation.Field(&c.APISecret, validation.Required),
		validation.Field(&c.BaseURL, validation.Required),
	)
}

// MissingFields returns the sorted JSON names of the empty mandatory fields.
func (c CredentialSet) MissingFields() []string {
	return missingFields(c.Validate())
}

// IsComplete reports whether all five mandatory fields are present.
func (c CredentialSet) IsComplete() bool {
	return c.Validate() == nil
}

// WithDefaults returns a copy with Theme defaulted.
func (c CredentialSet) WithDefaults() CredentialSet {
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	return c
}

// Merge fills every empty field of c from fallback. Fields already set on c
// win.
func (c CredentialSet) Merge(fallback CredentialSet) CredentialSet {
	pick := func(primary, secondary string) string {
		if primary != "" {
			return primary
		}
		return secondary
	}
	return CredentialSet{
		SDKKey:       pick(c.SDKKey, fallback.SDKKey),
		JourneyToken: pick(c.JourneyToken, fallback.JourneyToken),
		APIToken:     pick(c.APIToken, fallback.APIToken),
		APISecret:    pick(c.APISecret, fallback.APISecret),
		BaseURL:      pick(c.BaseURL, fallback.BaseURL),
		Theme:        pick(c.Theme, fallback.Theme),
	}
}

// APICredentials returns the subset used to authenticate outbound calls.
func (c CredentialSet) APICredentials() APICredentials {
	return APICredentials{
		BaseURL:      c.BaseURL,
		JourneyToken: c.JourneyToken,
		APIToken:     c.APIToken,
		APISecret:    c.APISecret,
	}
}

// APICredentials identifies a journey on the remote API and the Basic-auth
// pair used to reach it.
type APICredentials struct {
	BaseURL      string `json:"baseUrl"`
	JourneyToken string `json:"journeyToken"`
	APIToken     string `json:"apiToken"`
	APISecret    string `json:"apiSecret"`
}

// Validate reports every empty field.
func (c APICredentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.JourneyToken, validation.Required),
		validation.Field(&c.APIToken, validation.Required),
		validation.Field(&c.APISecret, validation.Required),
	)
}

// MissingFields returns the sorted JSON names of the empty fields.
func (c APICredentials) MissingFields() []string {
	return missingFields(c.Validate())
}

// missingFields flattens an ozzo validation.Errors map into sorted keys.
// Non-field errors yield nil.
func missingFields(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for name := range verrs {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}
