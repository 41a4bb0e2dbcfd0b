package fleet_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/execshell"
	"github.com/temirov/fleetci/internal/fleet"
	"github.com/temirov/fleetci/internal/templates"
)

const (
	scanTemplatesRepositoryConstant   = "example/ci-templates"
	organizationListingEndpoint       = "orgs/example/repos?per_page=100&type=sources"
	userListingEndpoint               = "users/example/repos?per_page=100&type=sources"
	releaseTagsEndpoint               = "repos/example/ci-templates/tags?per_page=100"
	serviceContentsEndpoint           = "repos/example/service/contents/.fleetci.yml"
	legacyContentsEndpoint            = "repos/example/legacy/contents/.fleetci.yml"
	unexpectedEndpointTemplate        = "unexpected endpoint %q"
	unexpectedGitInvocationMessage    = "git fallback not expected"
	scanTagListingPayloadConstant     = `[{"name":"` + testLatestTagConstant + `","commit":{"sha":"` + testLatestShaConstant + `"}}]`
	twoRepositoryListingPayload       = `[{"name":"service","full_name":"example/service","default_branch":"main"},{"name":"legacy","full_name":"example/legacy","default_branch":"main"},{"name":"attic","full_name":"example/attic","default_branch":"main","archived":true}]`
	singleRepositoryListingPayload    = `[{"name":"service","full_name":"example/service","default_branch":"main"}]`
	notFoundStandardErrorTextConstant = "HTTP 404: Not Found"
)

type stubScanExecutor struct {
	responses         map[string]execshell.ExecutionResult
	failures          map[string]error
	requestedEndpoint []string
	gitCallCount      int
}

func (executor *stubScanExecutor) ExecuteGit(_ context.Context, _ execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.gitCallCount++
	return execshell.ExecutionResult{}, errors.New(unexpectedGitInvocationMessage)
}

func (executor *stubScanExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	endpoint := details.Arguments[1]
	executor.requestedEndpoint = append(executor.requestedEndpoint, endpoint)
	if failure, failureKnown := executor.failures[endpoint]; failureKnown {
		return execshell.ExecutionResult{}, failure
	}
	response, responseKnown := executor.responses[endpoint]
	if !responseKnown {
		return execshell.ExecutionResult{}, fmt.Errorf(unexpectedEndpointTemplate, endpoint)
	}
	return response, nil
}

func notFoundCommandFailure() error {
	return execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 1, StandardError: notFoundStandardErrorTextConstant}}
}

func plainResponse(payload string) execshell.ExecutionResult {
	return execshell.ExecutionResult{StandardOutput: payload}
}

func contentsResponse(fileContent string) execshell.ExecutionResult {
	encodedContent := base64.StdEncoding.EncodeToString([]byte(fileContent))
	return execshell.ExecutionResult{StandardOutput: fmt.Sprintf(`{"content":%q,"encoding":"base64"}`, encodedContent)}
}

func newScanExecutor() *stubScanExecutor {
	return &stubScanExecutor{
		responses: map[string]execshell.ExecutionResult{
			releaseTagsEndpoint:         plainResponse(scanTagListingPayloadConstant),
			organizationListingEndpoint: plainResponse(twoRepositoryListingPayload),
			serviceContentsEndpoint:     contentsResponse(testCurrentStateConstant),
		},
		failures: map[string]error{
			legacyContentsEndpoint: notFoundCommandFailure(),
		},
	}
}

func buildScanCommandForTest(testInstance *testing.T, executor fleet.CommandExecutor, arguments ...string) (*cobra.Command, *bytes.Buffer) {
	testInstance.Helper()

	builder := &fleet.CommandBuilder{
		Executor: executor,
		TemplatesRepositoryProvider: func() string {
			return scanTemplatesRepositoryConstant
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(append([]string{}, arguments...))

	return command, outputBuffer
}

func TestScanCommandPrintsTextReport(testInstance *testing.T) {
	executor := newScanExecutor()
	command, outputBuffer := buildScanCommandForTest(testInstance, executor, "--owner", testOwnerNameConstant)

	require.NoError(testInstance, command.Execute())

	expectedReport := "Latest release: v1.4.0 (aaaaaaaaaaaa)\n" +
		"Current example/service (v1.4.0)\n" +
		"Unconfigured example/legacy: missing .fleetci.yml\n" +
		"Scanned 2 repositories: 1 current, 0 drifted, 1 unconfigured\n"
	require.Equal(testInstance, expectedReport, outputBuffer.String())
	require.Zero(testInstance, executor.gitCallCount)
}

func TestScanCommandReportsDriftLines(testInstance *testing.T) {
	executor := newScanExecutor()
	executor.responses[serviceContentsEndpoint] = contentsResponse(testDriftedStateConstant)
	command, outputBuffer := buildScanCommandForTest(testInstance, executor, "--owner", testOwnerNameConstant)

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, outputBuffer.String(), "Drifted example/service: v1.3.0 -> v1.4.0")
	require.Contains(testInstance, outputBuffer.String(), "Scanned 2 repositories: 0 current, 1 drifted, 1 unconfigured")
}

func TestScanCommandEncodesJSONReport(testInstance *testing.T) {
	executor := newScanExecutor()
	command, outputBuffer := buildScanCommandForTest(testInstance, executor, "--owner", testOwnerNameConstant, "--format", "json")

	require.NoError(testInstance, command.Execute())

	report, decodeError := compliance.DecodeScanReport(outputBuffer.Bytes())
	require.NoError(testInstance, decodeError)
	require.Equal(testInstance, testOwnerNameConstant, report.Owner)
	require.Equal(testInstance, testLatestTagConstant, report.LatestTag)
	require.Equal(testInstance, testLatestShaConstant, report.LatestSHA)
	require.Len(testInstance, report.Repositories, 2)
	require.True(testInstance, report.Repositories[0].IsCurrent)
	require.False(testInstance, report.Repositories[1].HasDeclaredState)
}

func TestScanCommandWritesReportFile(testInstance *testing.T) {
	executor := newScanExecutor()
	outputPath := filepath.Join(testInstance.TempDir(), "scan.json")
	command, outputBuffer := buildScanCommandForTest(
		testInstance,
		executor,
		"--owner", testOwnerNameConstant,
		"--format", "json",
		"--output", outputPath,
	)

	require.NoError(testInstance, command.Execute())
	require.Empty(testInstance, outputBuffer.String())

	writtenPayload, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)

	report, decodeError := compliance.DecodeScanReport(writtenPayload)
	require.NoError(testInstance, decodeError)
	require.Equal(testInstance, testOwnerNameConstant, report.Owner)
	require.Len(testInstance, report.Repositories, 2)
}

func TestScanCommandStrictFailsWhenFleetNotCurrent(testInstance *testing.T) {
	executor := newScanExecutor()
	executor.responses[serviceContentsEndpoint] = contentsResponse(testDriftedStateConstant)
	command, outputBuffer := buildScanCommandForTest(testInstance, executor, "--owner", testOwnerNameConstant, "--strict")

	executionError := command.Execute()
	require.EqualError(testInstance, executionError, "2 of 2 repositories are not current")
	require.Contains(testInstance, outputBuffer.String(), "Drifted example/service: v1.3.0 -> v1.4.0")
}

func TestScanCommandStrictPassesWhenFleetCurrent(testInstance *testing.T) {
	executor := newScanExecutor()
	executor.responses[organizationListingEndpoint] = plainResponse(singleRepositoryListingPayload)
	command, _ := buildScanCommandForTest(testInstance, executor, "--owner", testOwnerNameConstant, "--strict")

	require.NoError(testInstance, command.Execute())
}

func TestScanCommandFallsBackToUserNamespace(testInstance *testing.T) {
	executor := newScanExecutor()
	delete(executor.responses, organizationListingEndpoint)
	executor.failures[organizationListingEndpoint] = notFoundCommandFailure()
	executor.responses[userListingEndpoint] = plainResponse(singleRepositoryListingPayload)
	command, outputBuffer := buildScanCommandForTest(testInstance, executor, "--owner", testOwnerNameConstant)

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, executor.requestedEndpoint, organizationListingEndpoint)
	require.Contains(testInstance, executor.requestedEndpoint, userListingEndpoint)
	require.Contains(testInstance, outputBuffer.String(), "Current example/service (v1.4.0)")
}

func TestScanCommandUsesConfiguredOwner(testInstance *testing.T) {
	executor := newScanExecutor()
	executor.responses[organizationListingEndpoint] = plainResponse(singleRepositoryListingPayload)

	builder := &fleet.CommandBuilder{
		Executor: executor,
		TemplatesRepositoryProvider: func() string {
			return scanTemplatesRepositoryConstant
		},
		ConfigurationProvider: func() fleet.Configuration {
			return fleet.Configuration{Owner: "  " + testOwnerNameConstant + "  "}
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{})

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, outputBuffer.String(), "Current example/service (v1.4.0)")
}

func TestScanCommandRequiresOwner(testInstance *testing.T) {
	executor := newScanExecutor()
	command, _ := buildScanCommandForTest(testInstance, executor)

	executionError := command.Execute()
	require.ErrorIs(testInstance, executionError, fleet.ErrOwnerRequired)
	require.Empty(testInstance, executor.requestedEndpoint)
}

func TestScanCommandRequiresTemplatesRepository(testInstance *testing.T) {
	builder := &fleet.CommandBuilder{Executor: newScanExecutor()}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"--owner", testOwnerNameConstant})

	executionError := command.Execute()
	require.ErrorIs(testInstance, executionError, templates.ErrTemplatesRepositoryRequired)
}

func TestScanCommandRejectsUnsupportedFormat(testInstance *testing.T) {
	executor := newScanExecutor()
	command, _ := buildScanCommandForTest(testInstance, executor, "--owner", testOwnerNameConstant, "--format", "yaml")

	executionError := command.Execute()
	require.EqualError(testInstance, executionError, `unsupported format "yaml"; expected text or json`)
}
