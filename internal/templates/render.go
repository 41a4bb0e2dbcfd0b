package templates

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/temirov/fleetci/internal/compliance"
)

const (
	renderedNameLineTemplate      = "name: %s"
	renderedTriggerBlock          = "on:\n  pull_request:\n    branches: [main, master]\n  workflow_dispatch:"
	renderedJobsHeaderLine        = "jobs:"
	renderedJobKeyLineTemplate    = "  %s:"
	renderedUsesLineTemplate      = "    uses: %s  # %s"
	renderedWithHeaderLine        = "    with:"
	renderedInputLineTemplate     = "      %s: %s"
	renderedPlaceholderSuffix     = "  # TODO: set this value"
	renderedPermissionsHeaderLine = "    permissions:"
	renderedPermissionTemplate    = "      %s: %s"
	referenceTemplate             = "%s/%s@%s"
	jobKeySeparator               = "-"
	jobKeyReplacement             = "_"
	emptyScalarLiteral            = "''"
)

// ErrTemplatesRepositoryRequired reports a render request without a templates repository identity.
var ErrTemplatesRepositoryRequired = errors.New("templates repository is required")

// InvalidPinError reports a version pin whose sha is not a full digest.
type InvalidPinError struct {
	SHA string
}

// Error describes the malformed pin.
func (pinError *InvalidPinError) Error() string {
	return fmt.Sprintf("version pin sha %q is not a 40-character lowercase hex digest", pinError.SHA)
}

// RenderedInput is one emitted input line.
type RenderedInput struct {
	Name        string
	Value       string
	Placeholder bool
}

// PermissionGrant is one resolved permission line.
type PermissionGrant struct {
	Name  string
	Level string
}

// RenderedArtifact is the deterministic result of rendering one artifact.
type RenderedArtifact struct {
	Reference     string
	EmittedInputs []RenderedInput
	Permissions   []PermissionGrant
	Content       string
}

// Render materializes an artifact from its specification, the caller's input
// values, and a version pin. The reference binds to the pin's sha; the tag
// appears only as a trailing annotation. Identical arguments always produce
// byte-identical content.
func Render(specification ArtifactSpec, inputValues map[string]any, versionPin compliance.VersionPin, templatesRepository string) (RenderedArtifact, error) {
	if len(templatesRepository) == 0 {
		return RenderedArtifact{}, ErrTemplatesRepositoryRequired
	}
	if !compliance.IsCanonicalSHA(versionPin.SHA) {
		return RenderedArtifact{}, &InvalidPinError{SHA: versionPin.SHA}
	}

	renderedArtifact := RenderedArtifact{
		Reference:     fmt.Sprintf(referenceTemplate, templatesRepository, specification.ReferencePath, versionPin.SHA),
		EmittedInputs: collectEmittedInputs(specification, inputValues),
		Permissions:   resolvePermissions(specification, inputValues),
	}

	contentLines := []string{
		fmt.Sprintf(renderedNameLineTemplate, specification.DisplayName),
		"",
		renderedTriggerBlock,
		"",
		renderedJobsHeaderLine,
		fmt.Sprintf(renderedJobKeyLineTemplate, strings.ReplaceAll(specification.Name, jobKeySeparator, jobKeyReplacement)),
		fmt.Sprintf(renderedUsesLineTemplate, renderedArtifact.Reference, versionPin.Tag),
	}

	if len(renderedArtifact.EmittedInputs) > 0 {
		contentLines = append(contentLines, renderedWithHeaderLine)
		for _, emittedInput := range renderedArtifact.EmittedInputs {
			inputLine := fmt.Sprintf(renderedInputLineTemplate, emittedInput.Name, emittedInput.Value)
			if emittedInput.Placeholder {
				inputLine += renderedPlaceholderSuffix
			}
			contentLines = append(contentLines, inputLine)
		}
	}

	contentLines = append(contentLines, renderedPermissionsHeaderLine)
	for _, permissionGrant := range renderedArtifact.Permissions {
		contentLines = append(contentLines, fmt.Sprintf(renderedPermissionTemplate, permissionGrant.Name, permissionGrant.Level))
	}
	contentLines = append(contentLines, "")

	renderedArtifact.Content = strings.Join(contentLines, "\n")
	return renderedArtifact, nil
}

// collectEmittedInputs applies the emission rules: every required input is
// emitted (placeholder when no usable value was supplied); optional inputs are
// emitted only when they differ from the documented default.
func collectEmittedInputs(specification ArtifactSpec, inputValues map[string]any) []RenderedInput {
	emittedInputs := []RenderedInput{}

	for _, requiredInput := range specification.RequiredInputs {
		suppliedValue, valueSupplied := inputValues[requiredInput.Name]
		if valueSupplied && !isEmptyScalar(suppliedValue) {
			emittedInputs = append(emittedInputs, RenderedInput{Name: requiredInput.Name, Value: formatScalar(suppliedValue)})
			continue
		}
		emittedInputs = append(emittedInputs, RenderedInput{Name: requiredInput.Name, Value: emptyScalarLiteral, Placeholder: true})
	}

	for _, optionalInput := range specification.OptionalInputs {
		suppliedValue, valueSupplied := inputValues[optionalInput.Name]
		if !valueSupplied {
			continue
		}
		if scalarsEqual(suppliedValue, optionalInput.Default) {
			continue
		}
		emittedInputs = append(emittedInputs, RenderedInput{Name: optionalInput.Name, Value: formatScalar(suppliedValue)})
	}

	return emittedInputs
}

func resolvePermissions(specification ArtifactSpec, inputValues map[string]any) []PermissionGrant {
	resolvedLevels := make(map[string]string, len(specification.BasePermissions))
	for permissionName, permissionLevel := range specification.BasePermissions {
		resolvedLevels[permissionName] = permissionLevel
	}
	for _, conditionalGrant := range specification.ConditionalPermissions {
		if !isTruthy(inputValues[conditionalGrant.TriggerInput]) {
			continue
		}
		for permissionName, permissionLevel := range conditionalGrant.Permissions {
			resolvedLevels[permissionName] = permissionLevel
		}
	}

	permissionNames := make([]string, 0, len(resolvedLevels))
	for permissionName := range resolvedLevels {
		permissionNames = append(permissionNames, permissionName)
	}
	sort.Strings(permissionNames)

	permissionGrants := make([]PermissionGrant, 0, len(permissionNames))
	for _, permissionName := range permissionNames {
		permissionGrants = append(permissionGrants, PermissionGrant{Name: permissionName, Level: resolvedLevels[permissionName]})
	}
	return permissionGrants
}

// formatScalar renders a value as an inline YAML scalar. Ambiguous strings are
// single-quoted so the emitted document round-trips as a string.
func formatScalar(value any) string {
	switch typedValue := value.(type) {
	case bool:
		return strconv.FormatBool(typedValue)
	case string:
		if len(typedValue) == 0 {
			return emptyScalarLiteral
		}
		if isAmbiguousScalar(typedValue) {
			return "'" + typedValue + "'"
		}
		return typedValue
	default:
		return canonicalScalarText(value)
	}
}

func isAmbiguousScalar(value string) bool {
	switch value {
	case "true", "false", "yes", "no", "null":
		return true
	}
	return strings.Contains(value, ":")
}

func isEmptyScalar(value any) bool {
	stringValue, isString := value.(string)
	return isString && len(stringValue) == 0
}

// scalarsEqual compares a supplied value against a documented default at the
// value level, coercing booleans and numbers to their canonical text so
// "true" equals true and "1" equals 1.
func scalarsEqual(suppliedValue any, defaultValue any) bool {
	return canonicalScalarText(suppliedValue) == canonicalScalarText(defaultValue)
}

func canonicalScalarText(value any) string {
	switch typedValue := value.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(typedValue)
	case string:
		return typedValue
	case int:
		return strconv.Itoa(typedValue)
	case int64:
		return strconv.FormatInt(typedValue, 10)
	case float64:
		return strconv.FormatFloat(typedValue, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// isTruthy decides whether a conditional permission trigger fires: boolean
// true, a non-zero number, or a string reading "true", "yes", or "1".
func isTruthy(value any) bool {
	switch typedValue := value.(type) {
	case bool:
		return typedValue
	case string:
		switch strings.ToLower(typedValue) {
		case "true", "yes", "1":
			return true
		}
		return false
	case int:
		return typedValue != 0
	case int64:
		return typedValue != 0
	case float64:
		return typedValue != 0
	default:
		return false
	}
}
