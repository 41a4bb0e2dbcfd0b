package templates_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/templates"
)

const (
	renderSubtestNameTemplateConstant = "%d_%s"
	renderTemplatesRepositoryConstant = "example/ci-templates"
	renderPinTagConstant              = "v1.2.3"
	renderPinShaConstant              = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func renderPin() compliance.VersionPin {
	return compliance.VersionPin{Tag: renderPinTagConstant, SHA: renderPinShaConstant}
}

func lookupArtifact(testInstance *testing.T, artifactName string) templates.ArtifactSpec {
	testInstance.Helper()
	artifactSpecification, artifactKnown := templates.LookupArtifact(artifactName)
	require.True(testInstance, artifactKnown)
	return artifactSpecification
}

func TestRenderProducesExactDocument(testInstance *testing.T) {
	artifactSpecification := lookupArtifact(testInstance, "cpp-quality")
	inputValues := map[string]any{
		"docker_image":        "ghcr.io/example/toolchain:1",
		"enable_clang_format": true,
		"enable_sarif":        "true",
	}

	renderedArtifact, renderError := templates.Render(artifactSpecification, inputValues, renderPin(), renderTemplatesRepositoryConstant)
	require.NoError(testInstance, renderError)

	expectedContent := strings.Join([]string{
		"name: C++ Quality",
		"",
		"on:",
		"  pull_request:",
		"    branches: [main, master]",
		"  workflow_dispatch:",
		"",
		"jobs:",
		"  cpp_quality:",
		"    uses: example/ci-templates/.github/workflows/cpp-quality.yml@" + renderPinShaConstant + "  # " + renderPinTagConstant,
		"    with:",
		"      docker_image: 'ghcr.io/example/toolchain:1'",
		"      enable_clang_format: true",
		"      enable_sarif: 'true'",
		"    permissions:",
		"      actions: read",
		"      contents: read",
		"      packages: read",
		"      pull-requests: write",
		"      security-events: write",
		"",
	}, "\n")

	require.Equal(testInstance, expectedContent, renderedArtifact.Content)
	require.Equal(testInstance, "example/ci-templates/.github/workflows/cpp-quality.yml@"+renderPinShaConstant, renderedArtifact.Reference)
	require.NotContains(testInstance, renderedArtifact.Reference, renderPinTagConstant)
}

func TestRenderIsDeterministic(testInstance *testing.T) {
	artifactSpecification := lookupArtifact(testInstance, "cpp-quality")
	inputValues := map[string]any{
		"docker_image":      "ghcr.io/example/toolchain:1",
		"enable_flawfinder": true,
		"ban_cout":          true,
		"ban_new":           true,
		"source_setup":      "source /opt/ros/humble/setup.bash",
	}

	firstRender, firstError := templates.Render(artifactSpecification, inputValues, renderPin(), renderTemplatesRepositoryConstant)
	require.NoError(testInstance, firstError)

	for repetition := 0; repetition < 16; repetition++ {
		repeatedRender, repeatError := templates.Render(artifactSpecification, inputValues, renderPin(), renderTemplatesRepositoryConstant)
		require.NoError(testInstance, repeatError)
		require.Equal(testInstance, firstRender.Content, repeatedRender.Content)
	}
}

func TestRenderRequiredInputEmission(testInstance *testing.T) {
	testCases := []struct {
		name              string
		inputValues       map[string]any
		expectedLine      string
		expectPlaceholder bool
	}{
		{
			name:              "missing_required_input_emits_placeholder",
			inputValues:       map[string]any{},
			expectedLine:      "      docker_image: ''  # TODO: set this value",
			expectPlaceholder: true,
		},
		{
			name:              "empty_required_input_emits_placeholder",
			inputValues:       map[string]any{"docker_image": ""},
			expectedLine:      "      docker_image: ''  # TODO: set this value",
			expectPlaceholder: true,
		},
		{
			name:         "supplied_required_input_is_emitted",
			inputValues:  map[string]any{"docker_image": "ghcr.io/example/toolchain:1"},
			expectedLine: "      docker_image: 'ghcr.io/example/toolchain:1'",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(renderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			artifactSpecification := lookupArtifact(testInstance, "cpp-quality")

			renderedArtifact, renderError := templates.Render(artifactSpecification, testCase.inputValues, renderPin(), renderTemplatesRepositoryConstant)
			require.NoError(testInstance, renderError)

			require.Contains(testInstance, renderedArtifact.Content, testCase.expectedLine)
			require.Len(testInstance, renderedArtifact.EmittedInputs, 1)
			require.Equal(testInstance, "docker_image", renderedArtifact.EmittedInputs[0].Name)
			require.Equal(testInstance, testCase.expectPlaceholder, renderedArtifact.EmittedInputs[0].Placeholder)
		})
	}
}

func TestRenderElidesDefaultEqualOptionalInputs(testInstance *testing.T) {
	testCases := []struct {
		name          string
		artifactName  string
		inputValues   map[string]any
		elidedInput   string
		emittedInputs int
	}{
		{
			name:          "boolean_default_elided",
			artifactName:  "infra-lint",
			inputValues:   map[string]any{"enable_shellcheck": false},
			elidedInput:   "enable_shellcheck",
			emittedInputs: 0,
		},
		{
			name:          "string_default_elided",
			artifactName:  "python-quality",
			inputValues:   map[string]any{"source_dirs": "src"},
			elidedInput:   "source_dirs",
			emittedInputs: 0,
		},
		{
			name:          "string_coerced_boolean_default_elided",
			artifactName:  "python-quality",
			inputValues:   map[string]any{"enable_tests": "true"},
			elidedInput:   "enable_tests",
			emittedInputs: 0,
		},
		{
			name:          "non_default_value_is_emitted",
			artifactName:  "python-quality",
			inputValues:   map[string]any{"python_linter": "flake8"},
			elidedInput:   "",
			emittedInputs: 1,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(renderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			artifactSpecification := lookupArtifact(testInstance, testCase.artifactName)

			renderedArtifact, renderError := templates.Render(artifactSpecification, testCase.inputValues, renderPin(), renderTemplatesRepositoryConstant)
			require.NoError(testInstance, renderError)

			require.Len(testInstance, renderedArtifact.EmittedInputs, testCase.emittedInputs)
			if len(testCase.elidedInput) > 0 {
				require.NotContains(testInstance, renderedArtifact.Content, testCase.elidedInput)
				require.NotContains(testInstance, renderedArtifact.Content, "with:")
			}
		})
	}
}

func TestRenderConditionalPermissions(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		inputValues          map[string]any
		expectSecurityEvents bool
	}{
		{
			name:                 "trigger_absent_keeps_base_permissions",
			inputValues:          map[string]any{"docker_image": "ghcr.io/example/toolchain:1"},
			expectSecurityEvents: false,
		},
		{
			name:                 "boolean_trigger_adds_grant",
			inputValues:          map[string]any{"enable_flawfinder": true},
			expectSecurityEvents: true,
		},
		{
			name:                 "string_trigger_adds_grant",
			inputValues:          map[string]any{"enable_sarif": "yes"},
			expectSecurityEvents: true,
		},
		{
			name:                 "false_trigger_adds_nothing",
			inputValues:          map[string]any{"enable_flawfinder": false, "enable_sarif": "false"},
			expectSecurityEvents: false,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(renderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			artifactSpecification := lookupArtifact(testInstance, "cpp-quality")

			renderedArtifact, renderError := templates.Render(artifactSpecification, testCase.inputValues, renderPin(), renderTemplatesRepositoryConstant)
			require.NoError(testInstance, renderError)

			permissionNames := make([]string, 0, len(renderedArtifact.Permissions))
			for _, permissionGrant := range renderedArtifact.Permissions {
				permissionNames = append(permissionNames, permissionGrant.Name)
			}

			require.IsIncreasing(testInstance, permissionNames)
			if testCase.expectSecurityEvents {
				require.Contains(testInstance, permissionNames, "security-events")
			} else {
				require.NotContains(testInstance, permissionNames, "security-events")
			}
		})
	}
}

func TestRenderValidatesArguments(testInstance *testing.T) {
	artifactSpecification := lookupArtifact(testInstance, "infra-lint")

	_, missingRepositoryError := templates.Render(artifactSpecification, nil, renderPin(), "")
	require.ErrorIs(testInstance, missingRepositoryError, templates.ErrTemplatesRepositoryRequired)

	truncatedPin := compliance.VersionPin{Tag: renderPinTagConstant, SHA: "abc123"}
	_, invalidPinError := templates.Render(artifactSpecification, nil, truncatedPin, renderTemplatesRepositoryConstant)
	invalidPin := &templates.InvalidPinError{}
	require.ErrorAs(testInstance, invalidPinError, &invalidPin)
	require.Equal(testInstance, "abc123", invalidPin.SHA)
}
