package compliance_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/fleetci/internal/compliance"
)

const declaredStateSubtestNameTemplateConstant = "%d_%s"

func TestParseDeclaredState(testInstance *testing.T) {
	testCases := []struct {
		name          string
		document      string
		expectedState *compliance.DeclaredState
	}{
		{
			name: "full_document",
			document: "tag: v1.2.0\n" +
				"sha: " + canonicalShaConstant + "\n" +
				"preset: recommended\n" +
				"workflows:\n" +
				"  - cpp-quality\n" +
				"  - infra-lint\n" +
				"cpp-quality:\n" +
				"  docker_image: ghcr.io/example/toolchain:latest\n" +
				"  enable_clang_format: true\n",
			expectedState: &compliance.DeclaredState{
				Pin:       compliance.VersionPin{Tag: "v1.2.0", SHA: canonicalShaConstant},
				Preset:    "recommended",
				Workflows: []string{"cpp-quality", "infra-lint"},
				Overrides: map[string]map[string]any{
					"cpp-quality": {
						"docker_image":        "ghcr.io/example/toolchain:latest",
						"enable_clang_format": true,
					},
				},
			},
		},
		{
			name:     "minimal_document",
			document: "tag: v1.2.0\nsha: " + canonicalShaConstant + "\n",
			expectedState: &compliance.DeclaredState{
				Pin:       compliance.VersionPin{Tag: "v1.2.0", SHA: canonicalShaConstant},
				Overrides: map[string]map[string]any{},
			},
		},
		{
			name:     "empty_sha_allowed",
			document: "tag: v1.2.0\nsha: \"\"\nworkflows: []\n",
			expectedState: &compliance.DeclaredState{
				Pin:       compliance.VersionPin{Tag: "v1.2.0"},
				Workflows: []string{},
				Overrides: map[string]map[string]any{},
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(declaredStateSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedState, parseError := compliance.ParseDeclaredState([]byte(testCase.document))

			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedState, parsedState)
		})
	}
}

func TestParseDeclaredStateRejectsUnrecognizedShapes(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		document             string
		expectedErrorPortion string
	}{
		{
			name:                 "top_level_sequence",
			document:             "- tag: v1.0.0\n",
			expectedErrorPortion: "top level must be a mapping",
		},
		{
			name:                 "empty_document",
			document:             "",
			expectedErrorPortion: "document is empty",
		},
		{
			name:                 "scalar_unknown_key",
			document:             "tag: v1.0.0\nrelease_channel: stable\n",
			expectedErrorPortion: "release_channel",
		},
		{
			name:                 "workflows_not_sequence",
			document:             "workflows: cpp-quality\n",
			expectedErrorPortion: "must be a sequence",
		},
		{
			name:                 "workflows_nested_entries",
			document:             "workflows:\n  - name: cpp-quality\n",
			expectedErrorPortion: "entries must be scalar strings",
		},
		{
			name:                 "tag_not_scalar",
			document:             "tag:\n  value: v1.0.0\n",
			expectedErrorPortion: "must be a scalar string",
		},
		{
			name:                 "short_sha",
			document:             "sha: abc123\n",
			expectedErrorPortion: "40-character",
		},
		{
			name:                 "uppercase_sha",
			document:             "sha: " + "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA111" + "\n",
			expectedErrorPortion: "40-character",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(declaredStateSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedState, parseError := compliance.ParseDeclaredState([]byte(testCase.document))

			require.Nil(testInstance, parsedState)
			require.Error(testInstance, parseError)

			formatError := &compliance.DeclaredStateFormatError{}
			require.ErrorAs(testInstance, parseError, &formatError)
			require.Contains(testInstance, parseError.Error(), testCase.expectedErrorPortion)
		})
	}
}

func TestDeclaredStateOverridesFor(testInstance *testing.T) {
	declaredState := &compliance.DeclaredState{
		Overrides: map[string]map[string]any{
			"python-quality": {"python_linter": "flake8"},
		},
	}

	require.Equal(testInstance, map[string]any{"python_linter": "flake8"}, declaredState.OverridesFor("python-quality"))
	require.Nil(testInstance, declaredState.OverridesFor("cpp-quality"))

	var absentState *compliance.DeclaredState
	require.Nil(testInstance, absentState.OverridesFor("cpp-quality"))
}
