package model

// Namespace names a partition of the local settings store.
type Namespace string

const (
	NamespaceConfig           Namespace = "config"
	NamespaceHistory          Namespace = "history"
	NamespaceProfiles         Namespace = "customProfiles"
	NamespaceTourFlags        Namespace = "tourFlags"
	NamespaceBusinessBranch   Namespace = "businessBranch"
	NamespaceBranchValidation Namespace = "branchValidation"
)

// Namespaces lists every partition, used by stores that pre-create them.
var Namespaces = []Namespace{
	NamespaceConfig,
	NamespaceHistory,
	NamespaceProfiles,
	NamespaceTourFlags,
	NamespaceBusinessBranch,
	NamespaceBranchValidation,
}

// Keys within namespaces.
const (
	KeyConfig              = "config"
	KeyApplicationLinks    = "applicationLinks"
	KeyProfiles            = "profiles"
	KeyTourShown           = "shepherdTourShown"
	KeyHasBusinessesBranch = "hasBusinessesBranch"
)
