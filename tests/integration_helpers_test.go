package tests

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationSubtestNameTemplateConstant = "%d_%s"
	integrationCommandTimeoutConstant      = 90 * time.Second
	integrationGoExecutableNameConstant    = "go"
	integrationRunSubcommandConstant       = "run"
	integrationModulePathConstant          = "."
	integrationPathVariableNameConstant    = "PATH"
	integrationGHExecutableNameConstant    = "gh"
	integrationGitExecutableNameConstant   = "git"
	integrationUsagePrefixConstant         = "Usage:"
	integrationLogLevelFlagConstant        = "--log-level"
	integrationErrorLevelConstant          = "error"
	integrationScriptPermissionsConstant   = 0o755

	structuredLinePrefixConstant  = "{"
	toolchainNoisePrefixConstant  = "go: downloading"
	environmentAssignmentTemplate = "%s=%s"

	fakeGitHubScriptHeaderConstant  = "#!/bin/sh\n"
	fakeGitHubRouteOpenTemplateRaw  = "if [ \"$1\" = \"api\" ] && [ \"$2\" = \"%s\" ]; then\n"
	fakeGitHubNotFoundBlockConstant = "  echo \"gh: Not Found (HTTP 404)\" >&2\n  exit 1\nfi\n"
	fakeGitHubHeredocOpenConstant   = "  cat <<'RESPONSE'\n"
	fakeGitHubHeredocCloseConstant  = "RESPONSE\n  exit 0\nfi\n"
	fakeGitHubFallthroughConstant   = "echo \"fake gh: unhandled arguments: $*\" >&2\nexit 1\n"
)

// integrationCommandOptions adjusts the environment one CLI invocation runs in.
// PathVariable replaces PATH wholesale so stubbed executables shadow the real
// ones; EnvironmentOverrides append individual variables.
type integrationCommandOptions struct {
	PathVariable         string
	EnvironmentOverrides map[string]string
}

// fakeGitHubRoute describes one gh api endpoint the stub script answers. A
// non-empty headerBlock is emitted before a blank line so header-aware callers
// can read pagination links; notFound simulates GitHub's HTTP 404 reply.
type fakeGitHubRoute struct {
	endpoint    string
	headerBlock string
	body        string
	notFound    bool
}

func repositoryRootDirectory(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	return filepath.Dir(workingDirectory)
}

func integrationCLIArguments(cliArguments ...string) []string {
	return append([]string{integrationRunSubcommandConstant, integrationModulePathConstant}, cliArguments...)
}

func executeIntegrationCommand(testInstance *testing.T, repositoryRoot string, options integrationCommandOptions, timeout time.Duration, arguments []string) (string, error) {
	testInstance.Helper()

	executionContext, cancelFunction := context.WithTimeout(context.Background(), timeout)
	defer cancelFunction()

	command := exec.CommandContext(executionContext, integrationGoExecutableNameConstant, arguments...)
	command.Dir = repositoryRoot

	environment := append([]string{}, os.Environ()...)
	if len(options.PathVariable) > 0 {
		environment = append(environment, fmt.Sprintf(environmentAssignmentTemplate, integrationPathVariableNameConstant, options.PathVariable))
	}
	for overrideName, overrideValue := range options.EnvironmentOverrides {
		environment = append(environment, fmt.Sprintf(environmentAssignmentTemplate, overrideName, overrideValue))
	}
	command.Env = environment

	outputBytes, runError := command.CombinedOutput()
	return string(outputBytes), runError
}

func runIntegrationCommand(testInstance *testing.T, repositoryRoot string, options integrationCommandOptions, timeout time.Duration, arguments []string) string {
	testInstance.Helper()

	outputText, runError := executeIntegrationCommand(testInstance, repositoryRoot, options, timeout, arguments)
	require.NoError(testInstance, runError, outputText)
	return outputText
}

func runFailingIntegrationCommand(testInstance *testing.T, repositoryRoot string, options integrationCommandOptions, timeout time.Duration, arguments []string) string {
	testInstance.Helper()

	outputText, runError := executeIntegrationCommand(testInstance, repositoryRoot, options, timeout, arguments)
	require.Error(testInstance, runError, outputText)
	return outputText
}

// filterStructuredOutput strips structured log lines and toolchain download
// chatter so assertions see only the command's human-facing output.
func filterStructuredOutput(rawOutput string) string {
	var filteredLines []string
	for _, outputLine := range strings.Split(rawOutput, "\n") {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if strings.HasPrefix(trimmedLine, structuredLinePrefixConstant) {
			continue
		}
		if strings.HasPrefix(trimmedLine, toolchainNoisePrefixConstant) {
			continue
		}
		filteredLines = append(filteredLines, outputLine)
	}
	if len(filteredLines) == 0 {
		return ""
	}
	return strings.Join(filteredLines, "\n") + "\n"
}

func writeExecutableScript(testInstance *testing.T, scriptPath string, scriptContent string) {
	testInstance.Helper()

	require.NoError(testInstance, os.WriteFile(scriptPath, []byte(scriptContent), integrationScriptPermissionsConstant))
	require.NoError(testInstance, os.Chmod(scriptPath, integrationScriptPermissionsConstant))
}

// installFakeGitHubCLI places a gh stub in a fresh directory and returns a PATH
// value with that directory prepended.
func installFakeGitHubCLI(testInstance *testing.T, scriptContent string) string {
	testInstance.Helper()

	stubDirectory := testInstance.TempDir()
	writeExecutableScript(testInstance, filepath.Join(stubDirectory, integrationGHExecutableNameConstant), scriptContent)
	return stubDirectory + string(os.PathListSeparator) + os.Getenv(integrationPathVariableNameConstant)
}

// buildFakeGitHubScript assembles a shell stub answering the given gh api
// routes with literal payloads. Unhandled invocations fail loudly so a test
// never silently consumes an unexpected response.
func buildFakeGitHubScript(routes []fakeGitHubRoute) string {
	var scriptBuilder strings.Builder
	scriptBuilder.WriteString(fakeGitHubScriptHeaderConstant)
	for _, route := range routes {
		scriptBuilder.WriteString(fmt.Sprintf(fakeGitHubRouteOpenTemplateRaw, route.endpoint))
		if route.notFound {
			scriptBuilder.WriteString(fakeGitHubNotFoundBlockConstant)
			continue
		}
		scriptBuilder.WriteString(fakeGitHubHeredocOpenConstant)
		if len(route.headerBlock) > 0 {
			scriptBuilder.WriteString(route.headerBlock)
			scriptBuilder.WriteString("\n\n")
		}
		scriptBuilder.WriteString(route.body)
		scriptBuilder.WriteString("\n")
		scriptBuilder.WriteString(fakeGitHubHeredocCloseConstant)
	}
	scriptBuilder.WriteString(fakeGitHubFallthroughConstant)
	return scriptBuilder.String()
}
