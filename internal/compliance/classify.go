package compliance

import "fmt"

const driftIssueTemplate = "SHA drift: %s -> %s"

// Classify derives the compliance result for one repository from its declared
// state and the canonical pin. A nil declared state marks the repository
// unconfigured; currency is decided by sha equality alone.
func Classify(repository string, declaredState *DeclaredState, canonicalPin VersionPin) ComplianceResult {
	result := ComplianceResult{
		Repository: repository,
		Workflows:  []string{},
		Issues:     []string{},
	}

	if declaredState == nil {
		result.Issues = append(result.Issues, missingDeclaredStateMessage)
		return result
	}

	result.HasDeclaredState = true
	result.DeclaredTag = declaredState.Pin.Tag
	result.DeclaredSHA = declaredState.Pin.SHA
	if len(declaredState.Workflows) > 0 {
		result.Workflows = append(result.Workflows, declaredState.Workflows...)
	}

	if declaredState.Pin.Equals(canonicalPin) {
		result.IsCurrent = true
		return result
	}

	result.Issues = append(result.Issues, fmt.Sprintf(driftIssueTemplate, declaredState.Pin.Tag, canonicalPin.Tag))
	return result
}

// UnreadableResult builds the isolated result for a repository whose declared
// state could not be fetched or parsed. The repository counts as unconfigured
// so remediation never acts on unknown state.
func UnreadableResult(repository string, fetchFailure error) ComplianceResult {
	return ComplianceResult{
		Repository: repository,
		Workflows:  []string{},
		Issues:     []string{fmt.Sprintf("declared state unreadable: %v", fetchFailure)},
	}
}
