package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	redactedCredentialsPlaceholderConstant  = "***"
	schemeSeparatorConstant                 = "://"
	userInfoDelimiterConstant               = "@"
)

const (
	gitCloneSubcommandNameConstant    = "clone"
	gitCheckoutSubcommandNameConstant = "checkout"
	gitCheckoutNewBranchFlagConstant  = "-b"
	gitStatusSubcommandNameConstant   = "status"
	gitAddSubcommandNameConstant      = "add"
	gitAddAllFlagConstant             = "-A"
	gitAddAllLongFlagConstant         = "--all"
	gitCommitSubcommandNameConstant   = "commit"
	gitMessageFlagConstant            = "-m"
	gitPushSubcommandNameConstant     = "push"
	gitLSRemoteSubcommandNameConstant = "ls-remote"
	gitTagsFlagConstant               = "--tags"
)

const (
	gitCloneStartTemplateConstant                     = "Cloning %s into %s"
	gitCloneSuccessTemplateConstant                   = "Cloned %s into %s"
	gitCloneFailureTemplateConstant                   = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant          = "Unable to clone %s into %s: %s"
	gitCheckoutCreateStartTemplateConstant            = "Creating branch %s in %s"
	gitCheckoutCreateSuccessTemplateConstant          = "Created branch %s in %s"
	gitCheckoutCreateFailureTemplateConstant          = "Failed to create branch %s in %s (exit code %d%s)"
	gitCheckoutCreateExecutionFailureTemplateConstant = "Unable to create branch %s in %s: %s"
	gitCheckoutSwitchStartTemplateConstant            = "Switching %s to branch %s"
	gitCheckoutSwitchSuccessTemplateConstant          = "%s now on branch %s"
	gitCheckoutSwitchFailureTemplateConstant          = "Failed to switch %s to branch %s (exit code %d%s)"
	gitCheckoutSwitchExecutionFailureTemplateConstant = "Unable to switch %s to branch %s: %s"
	gitStatusStartTemplateConstant                    = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                  = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                  = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant         = "Unable to review working tree status in %s: %s"
	gitAddStartTemplateConstant                       = "Staging %s in %s"
	gitAddSuccessTemplateConstant                     = "Staged %s in %s"
	gitAddFailureTemplateConstant                     = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant            = "Unable to stage %s in %s: %s"
	gitAddAllChangesLabelConstant                     = "all changes"
	gitCommitStartTemplateConstant                    = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant                  = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant                  = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant         = "Unable to create commit in %s with message %q: %s"
	gitPushStartTemplateConstant                      = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant                    = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant                    = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant           = "Unable to push %s to %s from %s: %s"
	gitLSRemoteTagsStartTemplateConstant              = "Listing tags on %s"
	gitLSRemoteTagsSuccessTemplateConstant            = "Listed tags on %s"
	gitLSRemoteTagsFailureTemplateConstant            = "Failed to list tags on %s (exit code %d%s)"
	gitLSRemoteTagsExecutionFailureTemplateConstant   = "Unable to list tags on %s: %s"
	gitLSRemoteStartTemplateConstant                  = "Querying remote references on %s"
	gitLSRemoteSuccessTemplateConstant                = "Queried remote references on %s"
	gitLSRemoteFailureTemplateConstant                = "Failed to query remote references on %s (exit code %d%s)"
	gitLSRemoteExecutionFailureTemplateConstant       = "Unable to query remote references on %s: %s"
)

const (
	githubAPISubcommandNameConstant               = "api"
	githubPullRequestSubcommandNameConstant       = "pr"
	githubPullRequestListSubcommandNameConstant   = "list"
	githubPullRequestCreateSubcommandNameConstant = "create"
	githubRepoFlagConstant                        = "--repo"
	githubHeadFlagConstant                        = "--head"
	githubStateFlagConstant                       = "--state"
	githubReposEndpointPrefixConstant             = "repos/"
	githubOrganizationEndpointPrefixConstant      = "orgs/"
	githubUserEndpointPrefixConstant              = "users/"
	githubTagsEndpointSuffixConstant              = "/tags"
	githubContentsEndpointSubstringConstant       = "/contents/"
	githubQueryStringDelimiterConstant            = "?"
	githubCurrentRepositoryLabelConstant          = "current repository"
	githubPullRequestProbeArgumentCountConstant   = 2
)

const (
	githubTagListingStartTemplateConstant                   = "Listing release tags for %s"
	githubTagListingSuccessTemplateConstant                 = "Listed release tags for %s"
	githubTagListingFailureTemplateConstant                 = "Failed to list release tags for %s (exit code %d%s)"
	githubTagListingExecutionFailureTemplateConstant        = "Unable to list release tags for %s: %s"
	githubRepositoryListingStartTemplateConstant            = "Enumerating repositories for %s"
	githubRepositoryListingSuccessTemplateConstant          = "Enumerated repositories for %s"
	githubRepositoryListingFailureTemplateConstant          = "Failed to enumerate repositories for %s (exit code %d%s)"
	githubRepositoryListingExecutionFailureTemplateConstant = "Unable to enumerate repositories for %s: %s"
	githubContentFetchStartTemplateConstant                 = "Fetching %s from %s"
	githubContentFetchSuccessTemplateConstant               = "Fetched %s from %s"
	githubContentFetchFailureTemplateConstant               = "Failed to fetch %s from %s (exit code %d%s)"
	githubContentFetchExecutionFailureTemplateConstant      = "Unable to fetch %s from %s: %s"
	githubPullRequestListStartTemplateConstant              = "Listing %s pull requests for %s with head %s"
	githubPullRequestListSuccessTemplateConstant            = "Listed %s pull requests for %s with head %s"
	githubPullRequestListFailureTemplateConstant            = "Failed to list %s pull requests for %s with head %s (exit code %d%s)"
	githubPullRequestListExecutionFailureTemplateConstant   = "Unable to list %s pull requests for %s with head %s: %s"
	githubPullRequestCreateStartTemplateConstant            = "Opening pull request for %s in %s"
	githubPullRequestCreateSuccessTemplateConstant          = "Opened pull request for %s in %s"
	githubPullRequestCreateFailureTemplateConstant          = "Failed to open pull request for %s in %s (exit code %d%s)"
	githubPullRequestCreateExecutionFailureTemplateConstant = "Unable to open pull request for %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) shouldLogStartMessage(command ShellCommand) bool {
	if command.Name != CommandGitHub {
		return true
	}
	if formatter.isGitHubPullRequestProbe(command.Details.Arguments) {
		return false
	}
	return true
}

func (formatter CommandMessageFormatter) isGitHubPullRequestProbe(arguments []string) bool {
	if len(arguments) < githubPullRequestProbeArgumentCountConstant {
		return false
	}
	primaryArgument := strings.TrimSpace(arguments[0])
	secondaryArgument := strings.TrimSpace(arguments[1])
	return primaryArgument == githubPullRequestSubcommandNameConstant && secondaryArgument == githubPullRequestListSubcommandNameConstant
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitHub:
		return formatter.describeGitHubMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCloneSubcommandNameConstant:
		return formatter.describeGitCloneMessage(command, result, failure, stage)
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeGitCheckoutMessage(command, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		return formatter.describeGitStatusMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.describeGitAddMessage(command, result, failure, stage)
	case gitCommitSubcommandNameConstant:
		return formatter.describeGitCommitMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	case gitLSRemoteSubcommandNameConstant:
		return formatter.describeGitLSRemoteMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCloneMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	positionalArguments := extractPositionalArguments(command.Details.Arguments[1:])
	remoteLocation := formatter.ensureValue(redactURLCredentials(formatter.argumentAtIndex(positionalArguments, 0)))
	targetDirectory := formatter.argumentAtIndex(positionalArguments, 1)
	if len(strings.TrimSpace(targetDirectory)) == 0 {
		targetDirectory = defaultWorkingDirectoryLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCloneStartTemplateConstant, remoteLocation, targetDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitCloneSuccessTemplateConstant, remoteLocation, targetDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitCloneFailureTemplateConstant, remoteLocation, targetDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, remoteLocation, targetDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := formatter.ensureValue(formatter.lastArgument(arguments))
	createsBranch := containsArgument(arguments, gitCheckoutNewBranchFlagConstant)

	if createsBranch {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCheckoutCreateStartTemplateConstant, branchName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCheckoutCreateSuccessTemplateConstant, branchName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitCheckoutCreateFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCheckoutCreateExecutionFailureTemplateConstant, branchName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutSwitchStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSwitchSuccessTemplateConstant, workingDirectory, branchName)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutSwitchFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCheckoutSwitchExecutionFailureTemplateConstant, workingDirectory, branchName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitStatusMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitStatusStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitStatusSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitStatusFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitStatusExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	stagingTarget := formatter.argumentAtIndex(extractPositionalArguments(arguments[1:]), 0)
	if len(strings.TrimSpace(stagingTarget)) == 0 {
		if containsArgument(arguments, gitAddAllFlagConstant) || containsArgument(arguments, gitAddAllLongFlagConstant) {
			stagingTarget = gitAddAllChangesLabelConstant
		} else {
			stagingTarget = fallbackUnknownValueLabelConstant
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAddStartTemplateConstant, stagingTarget, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, stagingTarget, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAddFailureTemplateConstant, stagingTarget, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitAddExecutionFailureTemplateConstant, stagingTarget, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitCommitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	commitMessage := formatter.extractCommitMessage(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
	case messageStageSuccess:
		return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
	case messageStageFailure:
		return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	positionalArguments := extractPositionalArguments(command.Details.Arguments[1:])
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(positionalArguments, 0))
	branchReference := formatter.ensureValue(formatter.argumentAtIndex(positionalArguments, 1))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushStartTemplateConstant, branchReference, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, branchReference, remoteName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, branchReference, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, branchReference, remoteName, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitLSRemoteMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	remoteLocation := formatter.ensureValue(redactURLCredentials(formatter.argumentAtIndex(extractPositionalArguments(arguments[1:]), 0)))
	listsTags := containsArgument(arguments, gitTagsFlagConstant)

	switch stage {
	case messageStageStart:
		if listsTags {
			return fmt.Sprintf(gitLSRemoteTagsStartTemplateConstant, remoteLocation)
		}
		return fmt.Sprintf(gitLSRemoteStartTemplateConstant, remoteLocation)
	case messageStageSuccess:
		if listsTags {
			return fmt.Sprintf(gitLSRemoteTagsSuccessTemplateConstant, remoteLocation)
		}
		return fmt.Sprintf(gitLSRemoteSuccessTemplateConstant, remoteLocation)
	case messageStageFailure:
		if listsTags {
			return fmt.Sprintf(gitLSRemoteTagsFailureTemplateConstant, remoteLocation, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
		return fmt.Sprintf(gitLSRemoteFailureTemplateConstant, remoteLocation, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		if listsTags {
			return fmt.Sprintf(gitLSRemoteTagsExecutionFailureTemplateConstant, remoteLocation, formatter.describeFailure(failure))
		}
		return fmt.Sprintf(gitLSRemoteExecutionFailureTemplateConstant, remoteLocation, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	primary := strings.TrimSpace(command.Details.Arguments[0])
	switch primary {
	case githubAPISubcommandNameConstant:
		return formatter.describeGitHubAPICommand(command, result, failure, stage)
	case githubPullRequestSubcommandNameConstant:
		return formatter.describeGitHubPullRequestCommand(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubAPICommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	endpoint := trimQueryString(strings.TrimSpace(arguments[1]))

	switch {
	case strings.HasSuffix(endpoint, githubTagsEndpointSuffixConstant):
		repository := formatter.repositoryFromEndpoint(endpoint, githubTagsEndpointSuffixConstant)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubTagListingStartTemplateConstant, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubTagListingSuccessTemplateConstant, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubTagListingFailureTemplateConstant, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubTagListingExecutionFailureTemplateConstant, repository, formatter.describeFailure(failure))
		}
	case strings.HasPrefix(endpoint, githubOrganizationEndpointPrefixConstant) || strings.HasPrefix(endpoint, githubUserEndpointPrefixConstant):
		ownerName := formatter.ownerFromEndpoint(endpoint)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubRepositoryListingStartTemplateConstant, ownerName)
		case messageStageSuccess:
			return fmt.Sprintf(githubRepositoryListingSuccessTemplateConstant, ownerName)
		case messageStageFailure:
			return fmt.Sprintf(githubRepositoryListingFailureTemplateConstant, ownerName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubRepositoryListingExecutionFailureTemplateConstant, ownerName, formatter.describeFailure(failure))
		}
	case strings.Contains(endpoint, githubContentsEndpointSubstringConstant):
		repository, contentPath := formatter.splitContentsEndpoint(endpoint)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubContentFetchStartTemplateConstant, contentPath, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubContentFetchSuccessTemplateConstant, contentPath, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubContentFetchFailureTemplateConstant, contentPath, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubContentFetchExecutionFailureTemplateConstant, contentPath, repository, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubPullRequestCommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	subcommand := strings.TrimSpace(arguments[1])

	switch subcommand {
	case githubPullRequestListSubcommandNameConstant:
		return formatter.describeGitHubPullRequestList(command, result, failure, stage)
	case githubPullRequestCreateSubcommandNameConstant:
		return formatter.describeGitHubPullRequestCreate(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubPullRequestList(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	state := formatter.ensureValue(findFlagValue(arguments, githubStateFlagConstant))
	headBranch := formatter.ensureValue(findFlagValue(arguments, githubHeadFlagConstant))
	repository := strings.TrimSpace(findFlagValue(arguments, githubRepoFlagConstant))
	if len(repository) == 0 {
		repository = githubCurrentRepositoryLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubPullRequestListStartTemplateConstant, state, repository, headBranch)
	case messageStageSuccess:
		return fmt.Sprintf(githubPullRequestListSuccessTemplateConstant, state, repository, headBranch)
	case messageStageFailure:
		return fmt.Sprintf(githubPullRequestListFailureTemplateConstant, state, repository, headBranch, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubPullRequestListExecutionFailureTemplateConstant, state, repository, headBranch, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubPullRequestCreate(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	headBranch := formatter.ensureValue(findFlagValue(arguments, githubHeadFlagConstant))
	repository := strings.TrimSpace(findFlagValue(arguments, githubRepoFlagConstant))
	if len(repository) == 0 {
		repository = githubCurrentRepositoryLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubPullRequestCreateStartTemplateConstant, headBranch, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubPullRequestCreateSuccessTemplateConstant, headBranch, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubPullRequestCreateFailureTemplateConstant, headBranch, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubPullRequestCreateExecutionFailureTemplateConstant, headBranch, repository, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		redactedArguments := make([]string, 0, len(command.Details.Arguments))
		for _, argument := range command.Details.Arguments {
			redactedArguments = append(redactedArguments, redactURLCredentials(argument))
		}
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(redactedArguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractCommitMessage(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitMessageFlagConstant && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) repositoryFromEndpoint(endpoint string, suffix string) string {
	trimmed := strings.TrimPrefix(endpoint, githubReposEndpointPrefixConstant)
	trimmed = strings.TrimSuffix(trimmed, suffix)
	if len(trimmed) == 0 {
		return githubCurrentRepositoryLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) ownerFromEndpoint(endpoint string) string {
	segments := strings.Split(endpoint, "/")
	if len(segments) < 2 || len(strings.TrimSpace(segments[1])) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return segments[1]
}

func (formatter CommandMessageFormatter) splitContentsEndpoint(endpoint string) (string, string) {
	trimmed := strings.TrimPrefix(endpoint, githubReposEndpointPrefixConstant)
	splitIndex := strings.Index(trimmed, githubContentsEndpointSubstringConstant)
	if splitIndex == -1 {
		return formatter.ensureValue(trimmed), fallbackUnknownValueLabelConstant
	}
	repository := formatter.ensureValue(trimmed[:splitIndex])
	contentPath := formatter.ensureValue(trimmed[splitIndex+len(githubContentsEndpointSubstringConstant):])
	return repository, contentPath
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}

func trimQueryString(endpoint string) string {
	queryIndex := strings.Index(endpoint, githubQueryStringDelimiterConstant)
	if queryIndex == -1 {
		return endpoint
	}
	return endpoint[:queryIndex]
}

func extractPositionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	skipNext := false
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if skipNext {
			skipNext = false
			continue
		}
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			if trimmed == gitCheckoutNewBranchFlagConstant || trimmed == gitMessageFlagConstant {
				skipNext = true
			}
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}

// redactURLCredentials removes embedded credentials from remote URLs so tokens
// never reach logs or error messages.
func redactURLCredentials(value string) string {
	schemeIndex := strings.Index(value, schemeSeparatorConstant)
	if schemeIndex == -1 {
		return value
	}
	remainder := value[schemeIndex+len(schemeSeparatorConstant):]
	userInfoIndex := strings.Index(remainder, userInfoDelimiterConstant)
	if userInfoIndex == -1 {
		return value
	}
	return value[:schemeIndex+len(schemeSeparatorConstant)] + redactedCredentialsPlaceholderConstant + remainder[userInfoIndex:]
}
