package remediate

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/fleetci/internal/execshell"
	"github.com/temirov/fleetci/internal/githubcli"
)

const (
	cloneSubcommandConstant     = "clone"
	checkoutSubcommandConstant  = "checkout"
	statusSubcommandConstant    = "status"
	addSubcommandConstant       = "add"
	commitSubcommandConstant    = "commit"
	pushSubcommandConstant      = "push"
	shallowDepthFlagConstant    = "--depth=1"
	createBranchFlagConstant    = "-b"
	porcelainFlagConstant       = "--porcelain"
	allPathsFlagConstant        = "-A"
	messageFlagConstant         = "-m"
	setUpstreamFlagConstant     = "-u"
	originRemoteNameConstant    = "origin"
	gatewayExecutorMissingError = "git executor not configured"
	gatewayPlatformMissingError = "pull request platform not configured"
)

// Gateway construction sentinels.
var (
	ErrGitExecutorNotConfigured         = errors.New(gatewayExecutorMissingError)
	ErrPullRequestPlatformNotConfigured = errors.New(gatewayPlatformMissingError)
)

// ReviewRequest describes the pull request a remediation opens.
type ReviewRequest struct {
	HeadBranch string
	Title      string
	Body       string
	Labels     []string
}

// RepositoryGateway abstracts the repository operations remediation performs.
type RepositoryGateway interface {
	CloneRepository(executionContext context.Context, cloneURL string, destinationPath string) error
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error
	HasChanges(executionContext context.Context, repositoryPath string) (bool, error)
	CommitChanges(executionContext context.Context, repositoryPath string, commitMessage string) error
	PushBranch(executionContext context.Context, repositoryPath string, branchName string) error
	FindOpenReviewRequest(executionContext context.Context, repository string, branchName string) (bool, error)
	OpenReviewRequest(executionContext context.Context, repository string, request ReviewRequest) (string, error)
}

// GitExecutor runs git commands for the gateway.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PullRequestPlatform probes and opens pull requests.
type PullRequestPlatform interface {
	ListPullRequests(executionContext context.Context, repository string, options githubcli.PullRequestListOptions) ([]githubcli.PullRequest, error)
	CreatePullRequest(executionContext context.Context, repository string, options githubcli.PullRequestCreateOptions) (string, error)
}

// CommandGateway implements RepositoryGateway over git and the GitHub CLI.
type CommandGateway struct {
	gitExecutor GitExecutor
	platform    PullRequestPlatform
}

// NewCommandGateway constructs a CommandGateway.
func NewCommandGateway(gitExecutor GitExecutor, platform PullRequestPlatform) (*CommandGateway, error) {
	if gitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if platform == nil {
		return nil, ErrPullRequestPlatformNotConfigured
	}
	return &CommandGateway{gitExecutor: gitExecutor, platform: platform}, nil
}

// CloneRepository creates a shallow disposable working copy.
func (gateway *CommandGateway) CloneRepository(executionContext context.Context, cloneURL string, destinationPath string) error {
	_, executionError := gateway.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{cloneSubcommandConstant, shallowDepthFlagConstant, cloneURL, destinationPath},
	})
	return executionError
}

// CreateBranch creates and switches to the remediation branch.
func (gateway *CommandGateway) CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := gateway.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, createBranchFlagConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// HasChanges reports whether the working copy differs from HEAD.
func (gateway *CommandGateway) HasChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := gateway.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{statusSubcommandConstant, porcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) > 0, nil
}

// CommitChanges stages every modification and records a commit.
func (gateway *CommandGateway) CommitChanges(executionContext context.Context, repositoryPath string, commitMessage string) error {
	_, stagingError := gateway.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{addSubcommandConstant, allPathsFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if stagingError != nil {
		return stagingError
	}

	_, commitError := gateway.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{commitSubcommandConstant, messageFlagConstant, commitMessage},
		WorkingDirectory: repositoryPath,
	})
	return commitError
}

// PushBranch publishes the remediation branch. The push is never forced; a
// rejected push surfaces as an error for the caller to report.
func (gateway *CommandGateway) PushBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	_, executionError := gateway.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant, setUpstreamFlagConstant, originRemoteNameConstant, branchName},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// FindOpenReviewRequest reports whether an open pull request already exists for
// the branch.
func (gateway *CommandGateway) FindOpenReviewRequest(executionContext context.Context, repository string, branchName string) (bool, error) {
	pullRequests, listError := gateway.platform.ListPullRequests(executionContext, repository, githubcli.PullRequestListOptions{
		State:       githubcli.PullRequestStateOpen,
		HeadBranch:  branchName,
		ResultLimit: 1,
	})
	if listError != nil {
		return false, listError
	}
	return len(pullRequests) > 0, nil
}

// OpenReviewRequest opens a pull request and returns its URL.
func (gateway *CommandGateway) OpenReviewRequest(executionContext context.Context, repository string, request ReviewRequest) (string, error) {
	return gateway.platform.CreatePullRequest(executionContext, repository, githubcli.PullRequestCreateOptions{
		HeadBranch: request.HeadBranch,
		Title:      request.Title,
		Body:       request.Body,
		Labels:     request.Labels,
	})
}
