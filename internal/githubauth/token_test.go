package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/fleetci/internal/githubauth"
)

func TestResolveTokenPrefersCLITokenVariable(testInstance *testing.T) {
	environment := map[string]string{
		githubauth.EnvGitHubCLIToken: "cli-token",
		githubauth.EnvGitHubToken:    "generic-token",
	}

	token, found := githubauth.ResolveToken(environment)
	require.True(testInstance, found)
	require.Equal(testInstance, "cli-token", token)
}

func TestResolveTokenFallsBackThroughPreferenceOrder(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
	}{
		{
			name:          "generic_token",
			environment:   map[string]string{githubauth.EnvGitHubToken: "generic-token"},
			expectedToken: "generic-token",
		},
		{
			name:          "api_token",
			environment:   map[string]string{githubauth.EnvGitHubAPIToken: "api-token"},
			expectedToken: "api-token",
		},
		{
			name: "blank_values_skipped",
			environment: map[string]string{
				githubauth.EnvGitHubCLIToken: "   ",
				githubauth.EnvGitHubAPIToken: "api-token",
			},
			expectedToken: "api-token",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			for _, variableName := range []string{githubauth.EnvGitHubCLIToken, githubauth.EnvGitHubToken, githubauth.EnvGitHubAPIToken} {
				testInstance.Setenv(variableName, "")
			}

			token, found := githubauth.ResolveToken(testCase.environment)
			require.True(testInstance, found)
			require.Equal(testInstance, testCase.expectedToken, token)
		})
	}
}

func TestRequireTokenReportsMissingConfiguration(testInstance *testing.T) {
	for _, variableName := range []string{githubauth.EnvGitHubCLIToken, githubauth.EnvGitHubToken, githubauth.EnvGitHubAPIToken} {
		testInstance.Setenv(variableName, "")
	}

	token, requirementError := githubauth.RequireToken(nil)
	require.Empty(testInstance, token)
	require.ErrorIs(testInstance, requirementError, githubauth.ErrTokenNotConfigured)
}
