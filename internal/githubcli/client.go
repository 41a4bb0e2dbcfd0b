package githubcli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/fleetci/internal/execshell"
)

const (
	apiSubcommandConstant                    = "api"
	pullRequestSubcommandConstant            = "pr"
	listSubcommandConstant                   = "list"
	createSubcommandConstant                 = "create"
	includeHeadersFlagConstant               = "-i"
	jsonFlagConstant                         = "--json"
	repoFlagConstant                         = "--repo"
	headFlagConstant                         = "--head"
	stateFlagConstant                        = "--state"
	limitFlagConstant                        = "--limit"
	titleFlagConstant                        = "--title"
	bodyFlagConstant                         = "--body"
	labelFlagConstant                        = "--label"
	acceptHeaderFlagConstant                 = "-H"
	acceptHeaderValueConstant                = "Accept: application/vnd.github+json"
	repositoryFieldNameConstant              = "repository"
	ownerFieldNameConstant                   = "owner"
	filePathFieldNameConstant                = "file_path"
	headBranchFieldNameConstant              = "head_branch"
	titleFieldNameConstant                   = "title"
	stateFieldNameConstant                   = "state"
	requiredValueMessageConstant             = "value required"
	executorNotConfiguredMessageConstant     = "github cli executor not configured"
	resourceNotFoundMessageConstant          = "resource not found"
	notFoundStandardErrorMarkerConstant      = "HTTP 404"
	pullRequestLimitDefaultValueConstant     = 100
	pullRequestJSONFieldsConstant            = "number,title,headRefName"
	operationErrorMessageTemplateConstant    = "%s operation failed"
	operationErrorWithCauseTemplateConstant  = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant    = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant        = "%s: %s"
	tagsEndpointTemplateConstant             = "repos/%s/tags?per_page=%d"
	contentsEndpointTemplateConstant         = "repos/%s/contents/%s"
	organizationReposEndpointTemplateRaw     = "orgs/%s/repos?per_page=%d&type=sources"
	userReposEndpointTemplateRaw             = "users/%s/repos?per_page=%d&type=sources"
	enumerationPageSizeConstant              = 100
	listRepositoryTagsOperationNameConstant  = OperationName("ListRepositoryTags")
	listRepositoriesOperationNameConstant    = OperationName("ListOwnerRepositories")
	fetchFileContentOperationNameConstant    = OperationName("FetchFileContent")
	listPullRequestsOperationNameConstant    = OperationName("ListPullRequests")
	createPullRequestOperationNameConstant   = OperationName("CreatePullRequest")
	base64ContentEncodingNameConstant        = "base64"
	unsupportedEncodingMessageTemplateRaw    = "unsupported content encoding %q"
	unsupportedOwnerScopeMessageTemplateRaw  = "unsupported owner scope %q"
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// PullRequestState describes acceptable GitHub pull request states.
type PullRequestState string

// Pull request state enumerations.
const (
	PullRequestStateOpen   PullRequestState = PullRequestState("open")
	PullRequestStateClosed PullRequestState = PullRequestState("closed")
	PullRequestStateMerged PullRequestState = PullRequestState("merged")
)

// OwnerScope selects the API namespace used when enumerating repositories.
type OwnerScope string

// Owner scope enumerations.
const (
	OwnerScopeOrganization OwnerScope = OwnerScope("organization")
	OwnerScopeUser         OwnerScope = OwnerScope("user")
)

// RepositoryTag pairs a release tag name with the commit it points at.
type RepositoryTag struct {
	Name      string
	CommitSHA string
}

// RepositoryDescriptor contains the listing fields fleetci consumes per repository.
type RepositoryDescriptor struct {
	Name          string
	FullName      string
	DefaultBranch string
	IsArchived    bool
	IsFork        bool
}

// PullRequest represents minimal PR details returned by GitHub CLI.
type PullRequest struct {
	Number      int
	Title       string
	HeadRefName string
}

// PullRequestListOptions configures ListPullRequests queries.
type PullRequestListOptions struct {
	State       PullRequestState
	HeadBranch  string
	ResultLimit int
}

// PullRequestCreateOptions describes the pull request to open.
type PullRequestCreateOptions struct {
	HeadBranch string
	Title      string
	Body       string
	Labels     []string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrNotFound indicates GitHub reported HTTP 404 for the requested resource.
	ErrNotFound = errors.New(resourceNotFoundMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// ListRepositoryTags retrieves release tags for a repository ordered most recent first.
func (client *Client) ListRepositoryTags(executionContext context.Context, repository string) ([]RepositoryTag, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(tagsEndpointTemplateConstant, repositoryIdentifier, enumerationPageSizeConstant),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listRepositoryTagsOperationNameConstant, Cause: classifyNotFound(executionError)}
	}

	var response []struct {
		Name   string `json:"name"`
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listRepositoryTagsOperationNameConstant, Cause: decodingError}
	}

	repositoryTags := make([]RepositoryTag, 0, len(response))
	for _, tagEntry := range response {
		repositoryTags = append(repositoryTags, RepositoryTag{Name: tagEntry.Name, CommitSHA: tagEntry.Commit.SHA})
	}

	return repositoryTags, nil
}

// ListOwnerRepositories enumerates repositories under the owner, following
// pagination links until every page has been consumed.
func (client *Client) ListOwnerRepositories(executionContext context.Context, ownerName string, scope OwnerScope) ([]RepositoryDescriptor, error) {
	trimmedOwner := strings.TrimSpace(ownerName)
	if len(trimmedOwner) == 0 {
		return nil, InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}

	endpoint, endpointError := ownerRepositoriesEndpoint(trimmedOwner, scope)
	if endpointError != nil {
		return nil, endpointError
	}

	descriptors := []RepositoryDescriptor{}
	for len(endpoint) > 0 {
		pageDescriptors, nextEndpoint, pageError := client.listRepositoriesPage(executionContext, endpoint)
		if pageError != nil {
			return nil, pageError
		}
		descriptors = append(descriptors, pageDescriptors...)
		endpoint = nextEndpoint
	}

	return descriptors, nil
}

func (client *Client) listRepositoriesPage(executionContext context.Context, endpoint string) ([]RepositoryDescriptor, string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			endpoint,
			includeHeadersFlagConstant,
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, "", OperationError{Operation: listRepositoriesOperationNameConstant, Cause: classifyNotFound(executionError)}
	}

	headerSection, bodySection := splitResponseSections(executionResult.StandardOutput)

	var response []struct {
		Name          string `json:"name"`
		FullName      string `json:"full_name"`
		DefaultBranch string `json:"default_branch"`
		Archived      bool   `json:"archived"`
		Fork          bool   `json:"fork"`
	}

	decodingError := json.Unmarshal([]byte(bodySection), &response)
	if decodingError != nil {
		return nil, "", ResponseDecodingError{Operation: listRepositoriesOperationNameConstant, Cause: decodingError}
	}

	pageDescriptors := make([]RepositoryDescriptor, 0, len(response))
	for _, repositoryEntry := range response {
		pageDescriptors = append(pageDescriptors, RepositoryDescriptor{
			Name:          repositoryEntry.Name,
			FullName:      repositoryEntry.FullName,
			DefaultBranch: repositoryEntry.DefaultBranch,
			IsArchived:    repositoryEntry.Archived,
			IsFork:        repositoryEntry.Fork,
		})
	}

	return pageDescriptors, nextPageEndpoint(headerSection), nil
}

// FetchFileContent retrieves a file through the contents API and decodes its payload.
// ErrNotFound is reported when the repository does not contain the file.
func (client *Client) FetchFileContent(executionContext context.Context, repository string, filePath string) ([]byte, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedFilePath := strings.TrimSpace(filePath)
	if len(trimmedFilePath) == 0 {
		return nil, InvalidInputError{FieldName: filePathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(contentsEndpointTemplateConstant, repositoryIdentifier, trimmedFilePath),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: fetchFileContentOperationNameConstant, Cause: classifyNotFound(executionError)}
	}

	var response struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: fetchFileContentOperationNameConstant, Cause: decodingError}
	}

	if response.Encoding != base64ContentEncodingNameConstant {
		return nil, ResponseDecodingError{Operation: fetchFileContentOperationNameConstant, Cause: fmt.Errorf(unsupportedEncodingMessageTemplateRaw, response.Encoding)}
	}

	compactedContent := strings.Join(strings.Fields(response.Content), "")
	decodedContent, contentError := base64.StdEncoding.DecodeString(compactedContent)
	if contentError != nil {
		return nil, ResponseDecodingError{Operation: fetchFileContentOperationNameConstant, Cause: contentError}
	}

	return decodedContent, nil
}

// ListPullRequests enumerates pull requests matching the head branch using gh pr list.
func (client *Client) ListPullRequests(executionContext context.Context, repository string, options PullRequestListOptions) ([]PullRequest, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if len(strings.TrimSpace(options.HeadBranch)) == 0 {
		return nil, InvalidInputError{FieldName: headBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if len(options.State) == 0 {
		return nil, InvalidInputError{FieldName: stateFieldNameConstant, Message: requiredValueMessageConstant}
	}

	resultLimit := options.ResultLimit
	if resultLimit <= 0 {
		resultLimit = pullRequestLimitDefaultValueConstant
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			listSubcommandConstant,
			repoFlagConstant,
			repositoryIdentifier,
			headFlagConstant,
			options.HeadBranch,
			stateFlagConstant,
			string(options.State),
			jsonFlagConstant,
			pullRequestJSONFieldsConstant,
			limitFlagConstant,
			strconv.Itoa(resultLimit),
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listPullRequestsOperationNameConstant, Cause: executionError}
	}

	var response []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		HeadRefName string `json:"headRefName"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listPullRequestsOperationNameConstant, Cause: decodingError}
	}

	pullRequests := make([]PullRequest, 0, len(response))
	for _, pullRequestEntry := range response {
		pullRequests = append(pullRequests, PullRequest{
			Number:      pullRequestEntry.Number,
			Title:       pullRequestEntry.Title,
			HeadRefName: pullRequestEntry.HeadRefName,
		})
	}

	return pullRequests, nil
}

// CreatePullRequest opens a pull request and returns the URL reported by gh.
func (client *Client) CreatePullRequest(executionContext context.Context, repository string, options PullRequestCreateOptions) (string, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(options.HeadBranch)) == 0 {
		return "", InvalidInputError{FieldName: headBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(options.Title)) == 0 {
		return "", InvalidInputError{FieldName: titleFieldNameConstant, Message: requiredValueMessageConstant}
	}

	arguments := []string{
		pullRequestSubcommandConstant,
		createSubcommandConstant,
		repoFlagConstant,
		repositoryIdentifier,
		headFlagConstant,
		options.HeadBranch,
		titleFlagConstant,
		options.Title,
		bodyFlagConstant,
		options.Body,
	}
	for _, labelName := range options.Labels {
		trimmedLabel := strings.TrimSpace(labelName)
		if len(trimmedLabel) == 0 {
			continue
		}
		arguments = append(arguments, labelFlagConstant, trimmedLabel)
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{Arguments: arguments})
	if executionError != nil {
		return "", OperationError{Operation: createPullRequestOperationNameConstant, Cause: executionError}
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func ownerRepositoriesEndpoint(ownerName string, scope OwnerScope) (string, error) {
	switch scope {
	case OwnerScopeOrganization:
		return fmt.Sprintf(organizationReposEndpointTemplateRaw, ownerName, enumerationPageSizeConstant), nil
	case OwnerScopeUser:
		return fmt.Sprintf(userReposEndpointTemplateRaw, ownerName, enumerationPageSizeConstant), nil
	default:
		return "", InvalidInputError{FieldName: ownerFieldNameConstant, Message: fmt.Sprintf(unsupportedOwnerScopeMessageTemplateRaw, scope)}
	}
}

// classifyNotFound substitutes ErrNotFound when the GitHub CLI reported HTTP 404
// so callers can branch on errors.Is without inspecting command output.
func classifyNotFound(executionError error) error {
	var failedError execshell.CommandFailedError
	if errors.As(executionError, &failedError) {
		if strings.Contains(failedError.Result.StandardError, notFoundStandardErrorMarkerConstant) {
			return fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(failedError.Result.StandardError))
		}
	}
	return executionError
}
