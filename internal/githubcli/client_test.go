package githubcli_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/fleetci/internal/execshell"
	"github.com/temirov/fleetci/internal/githubcli"
)

const (
	testRepositoryIdentifierConstant           = "example/ci-templates"
	testOwnerNameConstant                      = "example"
	testHeadBranchConstant                     = "fleetci/update-v1.4.0"
	testPullRequestTitleConstant               = "chore(deps): update ci templates to v1.4.0"
	testDeclaredStatePathConstant              = ".fleetci.yml"
	testTagsSuccessCaseNameConstant            = "tags_success"
	testTagsDecodeFailureCaseNameConstant      = "tags_decode_failure"
	testTagsCommandFailureCaseNameConstant     = "tags_command_failure"
	testTagsInputFailureCaseNameConstant       = "tags_input_failure"
	testReposSinglePageCaseNameConstant        = "repos_single_page"
	testReposNotFoundCaseNameConstant          = "repos_not_found"
	testReposDecodeFailureCaseNameConstant     = "repos_decode_failure"
	testReposScopeValidationCaseNameConstant   = "repos_scope_validation"
	testReposOwnerValidationCaseNameConstant   = "repos_owner_validation"
	testContentSuccessCaseNameConstant         = "content_success"
	testContentNotFoundCaseNameConstant        = "content_not_found"
	testContentEncodingFailureCaseNameConstant = "content_encoding_failure"
	testContentDecodeFailureCaseNameConstant   = "content_decode_failure"
	testContentPathValidationCaseNameConstant  = "content_path_validation"
	testListSuccessCaseNameConstant            = "list_success"
	testListCommandFailureCaseNameConstant     = "list_command_failure"
	testListHeadValidationCaseNameConstant     = "list_head_validation"
	testListStateValidationCaseNameConstant    = "list_state_validation"
	testCreateSuccessCaseNameConstant          = "create_success"
	testCreateCommandFailureCaseNameConstant   = "create_command_failure"
	testCreateTitleValidationCaseNameConstant  = "create_title_validation"
	testNotFoundStandardErrorConstant          = "gh: Not Found (HTTP 404)"
	testPullRequestAddressConstant             = "https://github.com/example/service/pull/7"
	testDeclaredStateDocumentConstant          = "templates:\n  repository: example/ci-templates\n"
	testEncodedContentResponseConstant         = `{"content":"dGVtcGxhdGVzOgogIHJl\ncG9zaXRvcnk6IGV4YW1w\nbGUvY2ktdGVtcGxhdGVz\nCg==","encoding":"base64"}`
)

type stubGitHubExecutor struct {
	executeFunc     func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error)
	recordedDetails []execshell.CommandDetails
}

func (executor *stubGitHubExecutor) ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if executor.executeFunc != nil {
		return executor.executeFunc(executionContext, details)
	}
	return execshell.ExecutionResult{}, nil
}

func notFoundFailure() error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGitHub},
		Result:  execshell.ExecutionResult{ExitCode: 1, StandardError: testNotFoundStandardErrorConstant},
	}
}

func TestNewClientValidation(testInstance *testing.T) {
	testInstance.Run("nil_executor", func(testInstance *testing.T) {
		client, creationError := githubcli.NewClient(nil)
		require.Error(testInstance, creationError)
		require.ErrorIs(testInstance, creationError, githubcli.ErrExecutorNotConfigured)
		require.Nil(testInstance, client)
	})
}

func TestListRepositoryTags(testInstance *testing.T) {
	testCases := []struct {
		name        string
		repository  string
		executor    *stubGitHubExecutor
		expectError bool
		errorType   any
		verify      func(testInstance *testing.T, repositoryTags []githubcli.RepositoryTag, executor *stubGitHubExecutor)
	}{
		{
			name:       testTagsSuccessCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: `[{"name":"v1.4.0","commit":{"sha":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}},{"name":"v1.3.0","commit":{"sha":"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"}}]`}, nil
			}},
			verify: func(testInstance *testing.T, repositoryTags []githubcli.RepositoryTag, executor *stubGitHubExecutor) {
				require.Len(testInstance, repositoryTags, 2)
				require.Equal(testInstance, "v1.4.0", repositoryTags[0].Name)
				require.Equal(testInstance, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", repositoryTags[0].CommitSHA)
				require.Equal(testInstance, "v1.3.0", repositoryTags[1].Name)
				require.Len(testInstance, executor.recordedDetails, 1)
				require.Contains(testInstance, executor.recordedDetails[0].Arguments, "repos/example/ci-templates/tags?per_page=100")
			},
		},
		{
			name:       testTagsDecodeFailureCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: "not-json"}, nil
			}},
			expectError: true,
			errorType:   githubcli.ResponseDecodingError{},
		},
		{
			name:       testTagsCommandFailureCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, execshell.CommandFailedError{Command: execshell.ShellCommand{Name: execshell.CommandGitHub}, Result: execshell.ExecutionResult{ExitCode: 1}}
			}},
			expectError: true,
			errorType:   githubcli.OperationError{},
		},
		{
			name:        testTagsInputFailureCaseNameConstant,
			repository:  "  ",
			executor:    &stubGitHubExecutor{},
			expectError: true,
			errorType:   githubcli.InvalidInputError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			client, creationError := githubcli.NewClient(testCase.executor)
			require.NoError(testInstance, creationError)

			repositoryTags, listError := client.ListRepositoryTags(context.Background(), testCase.repository)
			if testCase.expectError {
				require.Error(testInstance, listError)
				require.IsType(testInstance, testCase.errorType, listError)
			} else {
				require.NoError(testInstance, listError)
				require.NotNil(testInstance, testCase.verify)
				testCase.verify(testInstance, repositoryTags, testCase.executor)
			}
		})
	}
}

func TestListOwnerRepositories(testInstance *testing.T) {
	testCases := []struct {
		name        string
		owner       string
		scope       githubcli.OwnerScope
		executor    *stubGitHubExecutor
		expectError bool
		errorType   any
		verify      func(testInstance *testing.T, descriptors []githubcli.RepositoryDescriptor, executor *stubGitHubExecutor)
	}{
		{
			name:  testReposSinglePageCaseNameConstant,
			owner: testOwnerNameConstant,
			scope: githubcli.OwnerScopeOrganization,
			executor: &stubGitHubExecutor{executeFunc: func(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
				responseBody := `[{"name":"service","full_name":"example/service","default_branch":"main","archived":false,"fork":false},{"name":"retired","full_name":"example/retired","default_branch":"main","archived":true,"fork":false}]`
				return execshell.ExecutionResult{StandardOutput: "HTTP/2.0 200 OK\nContent-Type: application/json; charset=utf-8\n\n" + responseBody}, nil
			}},
			verify: func(testInstance *testing.T, descriptors []githubcli.RepositoryDescriptor, executor *stubGitHubExecutor) {
				require.Len(testInstance, descriptors, 2)
				require.Equal(testInstance, "example/service", descriptors[0].FullName)
				require.Equal(testInstance, "main", descriptors[0].DefaultBranch)
				require.False(testInstance, descriptors[0].IsArchived)
				require.True(testInstance, descriptors[1].IsArchived)
				require.Len(testInstance, executor.recordedDetails, 1)
				require.Contains(testInstance, executor.recordedDetails[0].Arguments, "orgs/example/repos?per_page=100&type=sources")
				require.Contains(testInstance, executor.recordedDetails[0].Arguments, "-i")
			},
		},
		{
			name:  testReposNotFoundCaseNameConstant,
			owner: testOwnerNameConstant,
			scope: githubcli.OwnerScopeOrganization,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, notFoundFailure()
			}},
			expectError: true,
			errorType:   githubcli.OperationError{},
		},
		{
			name:  testReposDecodeFailureCaseNameConstant,
			owner: testOwnerNameConstant,
			scope: githubcli.OwnerScopeUser,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: "HTTP/2.0 200 OK\n\nnot-json"}, nil
			}},
			expectError: true,
			errorType:   githubcli.ResponseDecodingError{},
		},
		{
			name:        testReposScopeValidationCaseNameConstant,
			owner:       testOwnerNameConstant,
			scope:       githubcli.OwnerScope("team"),
			executor:    &stubGitHubExecutor{},
			expectError: true,
			errorType:   githubcli.InvalidInputError{},
		},
		{
			name:        testReposOwnerValidationCaseNameConstant,
			owner:       "  ",
			scope:       githubcli.OwnerScopeOrganization,
			executor:    &stubGitHubExecutor{},
			expectError: true,
			errorType:   githubcli.InvalidInputError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			client, creationError := githubcli.NewClient(testCase.executor)
			require.NoError(testInstance, creationError)

			descriptors, listError := client.ListOwnerRepositories(context.Background(), testCase.owner, testCase.scope)
			if testCase.expectError {
				require.Error(testInstance, listError)
				require.IsType(testInstance, testCase.errorType, listError)
			} else {
				require.NoError(testInstance, listError)
				require.NotNil(testInstance, testCase.verify)
				testCase.verify(testInstance, descriptors, testCase.executor)
			}
		})
	}
}

func TestListOwnerRepositoriesFollowsPaginationLinks(testInstance *testing.T) {
	firstPageBody := `[{"name":"alpha","full_name":"example/alpha","default_branch":"main","archived":false,"fork":false}]`
	secondPageBody := `[{"name":"beta","full_name":"example/beta","default_branch":"trunk","archived":false,"fork":true}]`
	linkHeaderValue := `Link: <https://api.github.com/orgs/example/repos?per_page=100&type=sources&page=2>; rel="next", <https://api.github.com/orgs/example/repos?per_page=100&type=sources&page=2>; rel="last"`

	executor := &stubGitHubExecutor{}
	executor.executeFunc = func(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		if len(executor.recordedDetails) == 1 {
			return execshell.ExecutionResult{StandardOutput: fmt.Sprintf("HTTP/2.0 200 OK\n%s\n\n%s", linkHeaderValue, firstPageBody)}, nil
		}
		return execshell.ExecutionResult{StandardOutput: "HTTP/2.0 200 OK\n\n" + secondPageBody}, nil
	}

	client, creationError := githubcli.NewClient(executor)
	require.NoError(testInstance, creationError)

	descriptors, listError := client.ListOwnerRepositories(context.Background(), testOwnerNameConstant, githubcli.OwnerScopeOrganization)
	require.NoError(testInstance, listError)
	require.Len(testInstance, descriptors, 2)
	require.Equal(testInstance, "example/alpha", descriptors[0].FullName)
	require.Equal(testInstance, "example/beta", descriptors[1].FullName)
	require.True(testInstance, descriptors[1].IsFork)

	require.Len(testInstance, executor.recordedDetails, 2)
	require.Equal(testInstance, "orgs/example/repos?per_page=100&type=sources", executor.recordedDetails[0].Arguments[1])
	require.Equal(testInstance, "orgs/example/repos?per_page=100&type=sources&page=2", executor.recordedDetails[1].Arguments[1])
}

func TestListOwnerRepositoriesReportsNotFound(testInstance *testing.T) {
	executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
		return execshell.ExecutionResult{}, notFoundFailure()
	}}

	client, creationError := githubcli.NewClient(executor)
	require.NoError(testInstance, creationError)

	descriptors, listError := client.ListOwnerRepositories(context.Background(), testOwnerNameConstant, githubcli.OwnerScopeOrganization)
	require.Nil(testInstance, descriptors)
	require.Error(testInstance, listError)
	require.ErrorIs(testInstance, listError, githubcli.ErrNotFound)
}

func TestFetchFileContent(testInstance *testing.T) {
	testCases := []struct {
		name        string
		repository  string
		filePath    string
		executor    *stubGitHubExecutor
		expectError bool
		errorType   any
		verify      func(testInstance *testing.T, content []byte, executor *stubGitHubExecutor)
	}{
		{
			name:       testContentSuccessCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			filePath:   testDeclaredStatePathConstant,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: testEncodedContentResponseConstant}, nil
			}},
			verify: func(testInstance *testing.T, content []byte, executor *stubGitHubExecutor) {
				require.Equal(testInstance, testDeclaredStateDocumentConstant, string(content))
				require.Len(testInstance, executor.recordedDetails, 1)
				require.Contains(testInstance, executor.recordedDetails[0].Arguments, "repos/example/ci-templates/contents/.fleetci.yml")
			},
		},
		{
			name:       testContentNotFoundCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			filePath:   testDeclaredStatePathConstant,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, notFoundFailure()
			}},
			expectError: true,
			errorType:   githubcli.OperationError{},
		},
		{
			name:       testContentEncodingFailureCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			filePath:   testDeclaredStatePathConstant,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: `{"content":"plain text","encoding":"utf-8"}`}, nil
			}},
			expectError: true,
			errorType:   githubcli.ResponseDecodingError{},
		},
		{
			name:       testContentDecodeFailureCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			filePath:   testDeclaredStatePathConstant,
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: "not-json"}, nil
			}},
			expectError: true,
			errorType:   githubcli.ResponseDecodingError{},
		},
		{
			name:        testContentPathValidationCaseNameConstant,
			repository:  testRepositoryIdentifierConstant,
			filePath:    "  ",
			executor:    &stubGitHubExecutor{},
			expectError: true,
			errorType:   githubcli.InvalidInputError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			client, creationError := githubcli.NewClient(testCase.executor)
			require.NoError(testInstance, creationError)

			content, fetchError := client.FetchFileContent(context.Background(), testCase.repository, testCase.filePath)
			if testCase.expectError {
				require.Error(testInstance, fetchError)
				require.IsType(testInstance, testCase.errorType, fetchError)
			} else {
				require.NoError(testInstance, fetchError)
				require.NotNil(testInstance, testCase.verify)
				testCase.verify(testInstance, content, testCase.executor)
			}
		})
	}
}

func TestFetchFileContentReportsNotFound(testInstance *testing.T) {
	executor := &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
		return execshell.ExecutionResult{}, notFoundFailure()
	}}

	client, creationError := githubcli.NewClient(executor)
	require.NoError(testInstance, creationError)

	content, fetchError := client.FetchFileContent(context.Background(), testRepositoryIdentifierConstant, testDeclaredStatePathConstant)
	require.Nil(testInstance, content)
	require.ErrorIs(testInstance, fetchError, githubcli.ErrNotFound)
}

func TestListPullRequests(testInstance *testing.T) {
	testCases := []struct {
		name        string
		repository  string
		options     githubcli.PullRequestListOptions
		executor    *stubGitHubExecutor
		expectError bool
		errorType   any
		verify      func(testInstance *testing.T, pullRequests []githubcli.PullRequest, executor *stubGitHubExecutor)
	}{
		{
			name:       testListSuccessCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			options: githubcli.PullRequestListOptions{
				State:       githubcli.PullRequestStateOpen,
				HeadBranch:  testHeadBranchConstant,
				ResultLimit: 50,
			},
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: `[{"number":42,"title":"chore(deps): update ci templates to v1.4.0","headRefName":"fleetci/update-v1.4.0"}]`}, nil
			}},
			verify: func(testInstance *testing.T, pullRequests []githubcli.PullRequest, executor *stubGitHubExecutor) {
				require.Len(testInstance, pullRequests, 1)
				require.Equal(testInstance, 42, pullRequests[0].Number)
				require.Equal(testInstance, testHeadBranchConstant, pullRequests[0].HeadRefName)
				require.Len(testInstance, executor.recordedDetails, 1)
				recordedArguments := executor.recordedDetails[0].Arguments
				require.Contains(testInstance, recordedArguments, "--head")
				require.Contains(testInstance, recordedArguments, testHeadBranchConstant)
				require.Contains(testInstance, recordedArguments, "--state")
				require.Contains(testInstance, recordedArguments, "open")
				require.Contains(testInstance, recordedArguments, "--limit")
				require.Contains(testInstance, recordedArguments, "50")
			},
		},
		{
			name:       testListCommandFailureCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			options: githubcli.PullRequestListOptions{
				State:      githubcli.PullRequestStateOpen,
				HeadBranch: testHeadBranchConstant,
			},
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, execshell.CommandFailedError{Command: execshell.ShellCommand{Name: execshell.CommandGitHub}, Result: execshell.ExecutionResult{ExitCode: 1}}
			}},
			expectError: true,
			errorType:   githubcli.OperationError{},
		},
		{
			name:       testListHeadValidationCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			options: githubcli.PullRequestListOptions{
				State: githubcli.PullRequestStateOpen,
			},
			executor:    &stubGitHubExecutor{},
			expectError: true,
			errorType:   githubcli.InvalidInputError{},
		},
		{
			name:       testListStateValidationCaseNameConstant,
			repository: testRepositoryIdentifierConstant,
			options: githubcli.PullRequestListOptions{
				HeadBranch: testHeadBranchConstant,
			},
			executor:    &stubGitHubExecutor{},
			expectError: true,
			errorType:   githubcli.InvalidInputError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			client, creationError := githubcli.NewClient(testCase.executor)
			require.NoError(testInstance, creationError)

			pullRequests, listError := client.ListPullRequests(context.Background(), testCase.repository, testCase.options)
			if testCase.expectError {
				require.Error(testInstance, listError)
				require.IsType(testInstance, testCase.errorType, listError)
			} else {
				require.NoError(testInstance, listError)
				require.NotNil(testInstance, testCase.verify)
				testCase.verify(testInstance, pullRequests, testCase.executor)
			}
		})
	}
}

func TestCreatePullRequest(testInstance *testing.T) {
	testCases := []struct {
		name        string
		repository  string
		options     githubcli.PullRequestCreateOptions
		executor    *stubGitHubExecutor
		expectError bool
		errorType   any
		verify      func(testInstance *testing.T, pullRequestAddress string, executor *stubGitHubExecutor)
	}{
		{
			name:       testCreateSuccessCaseNameConstant,
			repository: "example/service",
			options: githubcli.PullRequestCreateOptions{
				HeadBranch: testHeadBranchConstant,
				Title:      testPullRequestTitleConstant,
				Body:       "Automated update.",
				Labels:     []string{"dependencies", "fleetci"},
			},
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: testPullRequestAddressConstant + "\n"}, nil
			}},
			verify: func(testInstance *testing.T, pullRequestAddress string, executor *stubGitHubExecutor) {
				require.Equal(testInstance, testPullRequestAddressConstant, pullRequestAddress)
				require.Len(testInstance, executor.recordedDetails, 1)
				recordedArguments := executor.recordedDetails[0].Arguments
				require.Contains(testInstance, recordedArguments, "--head")
				require.Contains(testInstance, recordedArguments, testHeadBranchConstant)
				require.Contains(testInstance, recordedArguments, "--title")
				require.Contains(testInstance, recordedArguments, testPullRequestTitleConstant)
				require.Contains(testInstance, recordedArguments, "--label")
				require.Contains(testInstance, recordedArguments, "dependencies")
				require.Contains(testInstance, recordedArguments, "fleetci")
			},
		},
		{
			name:       testCreateCommandFailureCaseNameConstant,
			repository: "example/service",
			options: githubcli.PullRequestCreateOptions{
				HeadBranch: testHeadBranchConstant,
				Title:      testPullRequestTitleConstant,
			},
			executor: &stubGitHubExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, execshell.CommandFailedError{Command: execshell.ShellCommand{Name: execshell.CommandGitHub}, Result: execshell.ExecutionResult{ExitCode: 1}}
			}},
			expectError: true,
			errorType:   githubcli.OperationError{},
		},
		{
			name:       testCreateTitleValidationCaseNameConstant,
			repository: "example/service",
			options: githubcli.PullRequestCreateOptions{
				HeadBranch: testHeadBranchConstant,
			},
			executor:    &stubGitHubExecutor{},
			expectError: true,
			errorType:   githubcli.InvalidInputError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			client, creationError := githubcli.NewClient(testCase.executor)
			require.NoError(testInstance, creationError)

			pullRequestAddress, creationFailure := client.CreatePullRequest(context.Background(), testCase.repository, testCase.options)
			if testCase.expectError {
				require.Error(testInstance, creationFailure)
				require.IsType(testInstance, testCase.errorType, creationFailure)
			} else {
				require.NoError(testInstance, creationFailure)
				require.NotNil(testInstance, testCase.verify)
				testCase.verify(testInstance, pullRequestAddress, testCase.executor)
			}
		})
	}
}
