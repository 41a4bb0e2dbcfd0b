package compliance

import "regexp"

const (
	// DeclaredStateFileName is the fixed path of the declared-state document at a repository root.
	DeclaredStateFileName = ".fleetci.yml"

	abbreviatedShaLength        = 12
	unknownShaPlaceholder       = "?"
	missingDeclaredStateMessage = "missing " + DeclaredStateFileName
)

var canonicalShaPattern = regexp.MustCompile("^[0-9a-f]{40}$")

// VersionPin is the immutable identity of one release of the shared template set.
// SHA is the authoritative identity; Tag is a display label only.
type VersionPin struct {
	Tag string
	SHA string
}

// Equals reports whether two pins identify the same release. Only the SHA
// participates in the comparison; tags are never compared.
func (pin VersionPin) Equals(other VersionPin) bool {
	return pin.SHA == other.SHA
}

// IsCanonicalSHA reports whether the value is a full 40-character lowercase hex digest.
func IsCanonicalSHA(value string) bool {
	return canonicalShaPattern.MatchString(value)
}

// AbbreviateSHA shortens a digest for human-readable summaries, returning a
// placeholder when the digest is unknown.
func AbbreviateSHA(value string) string {
	if len(value) == 0 {
		return unknownShaPlaceholder
	}
	if len(value) <= abbreviatedShaLength {
		return value
	}
	return value[:abbreviatedShaLength]
}

// DeclaredState captures a repository's self-reported template configuration.
type DeclaredState struct {
	Pin       VersionPin
	Preset    string
	Workflows []string
	Overrides map[string]map[string]any
}

// OverridesFor returns the override values declared for one artifact name.
func (state *DeclaredState) OverridesFor(artifactName string) map[string]any {
	if state == nil || state.Overrides == nil {
		return nil
	}
	return state.Overrides[artifactName]
}

// ComplianceResult is the classification of one fleet member against the canonical pin.
type ComplianceResult struct {
	Repository       string   `json:"repo"`
	HasDeclaredState bool     `json:"has_config"`
	DeclaredTag      string   `json:"current_tag"`
	DeclaredSHA      string   `json:"current_sha"`
	IsCurrent        bool     `json:"up_to_date"`
	Workflows        []string `json:"workflows"`
	Issues           []string `json:"issues"`
}

// RequiresRemediation reports whether the repository is a remediation candidate:
// it declares a pin and that pin is no longer current. Unconfigured repositories
// are never candidates.
func (result ComplianceResult) RequiresRemediation() bool {
	return result.HasDeclaredState && !result.IsCurrent
}
