package driven

import "github.com/ericfisherdev/journeydemo/internal/domain/model"

// CredentialSource supplies a fallback CredentialSet from outside the
// settings store (process environment, .env file).
type CredentialSource interface {
	// Load returns whatever fields are available; the set may be incomplete.
	Load() model.CredentialSet

	// Save mirrors a set back to the source. Sources that cannot be written
	// return nil.
	Save(set model.CredentialSet) error
}
