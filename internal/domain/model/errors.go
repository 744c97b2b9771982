package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when no complete CredentialSet can be resolved.
var ErrNotConfigured = errors.New("configuration not found: please set up your Alloy credentials first")

// MissingFieldsError reports mandatory input fields that were empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// UnsupportedBranchesError reports journey schema branches outside
// SupportedBranches.
type UnsupportedBranchesError struct {
	Branches []string
}

func (e *UnsupportedBranchesError) Error() string {
	return fmt.Sprintf("unsupported branch(es) found in journey schema: %s", strings.Join(e.Branches, ", "))
}

// SchemaRejectedError is returned when the remote API answers a schema
// request successfully but the body carries an error or message field.
type SchemaRejectedError struct {
	Message string
}

func (e *SchemaRejectedError) Error() string {
	return "journey schema rejected: " + e.Message
}
