package remediate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/gitrepo"
)

const (
	defaultBranchPrefixConstant = "fleetci/update-"
	defaultTitlePrefixConstant  = "chore(deps): "
	unknownTagFallbackConstant  = "unknown"

	workingRootPatternConstant      = "fleetci-remediate-"
	workingCopyDirectoryName        = "repo"
	pullRequestTitleSuffixTemplate  = "update ci templates to %s"
	commitMessageTemplateConstant   = "chore(deps): update ci templates to %s\n\nAutomated update from %s to %s.\nSHA: %s -> %s"
	pullRequestBodyTemplateConstant = "## Automated template update\n\nUpdates ci template pins from **%s** to **%s**.\n\n- Old SHA: `%s`\n- New SHA: `%s`\n\nThis PR was created automatically by fleetci."

	wouldUpdateMessageTemplateConstant = "Would update %s: %s -> %s"
	skippedMessageTemplateConstant     = "Skipped %s: PR already open for %s"
	openedMessageTemplateConstant      = "Opened PR in %s: %s -> %s"
	failedMessageTemplateConstant      = "Failed %s: %v"
	noChangesMessageTemplateConstant   = "No changes needed in %s"
	allCurrentMessageConstant          = "All repositories are current; no pull requests needed"

	gatewayMissingMessageConstant      = "repository gateway not configured"
	canonicalPinRequiredMessage        = "canonical pin with tag and full sha required"
	workingRootErrorTemplateConstant   = "unable to create working directory: %w"
	probeFailureLogMessageConstant     = "pull request probe failed; proceeding with remediation"
	remediationStateLogMessageConstant = "remediation state changed"
	remediationDoneLogMessageConstant  = "remediation pass complete"
	repositoryLogFieldNameConstant     = "repository"
	stateLogFieldNameConstant          = "state"
	branchLogFieldNameConstant         = "branch"
	openedCountLogFieldNameConstant    = "opened"
	failedCountLogFieldNameConstant    = "failed"
	skippedCountLogFieldNameConstant   = "skipped"
)

// RemediationState identifies where a repository sits in the remediation flow.
type RemediationState string

// Remediation states. Drifted, PRExists, Current, Opened, and Failed are
// terminal for a pass; Remediating is the in-flight state.
const (
	StateCurrent     RemediationState = RemediationState("current")
	StateDrifted     RemediationState = RemediationState("drifted")
	StatePRExists    RemediationState = RemediationState("pr_exists")
	StateRemediating RemediationState = RemediationState("remediating")
	StateOpened      RemediationState = RemediationState("opened")
	StateFailed      RemediationState = RemediationState("failed")
)

// Engine construction and validation sentinels.
var (
	ErrGatewayNotConfigured = errors.New(gatewayMissingMessageConstant)
	ErrCanonicalPinRequired = errors.New(canonicalPinRequiredMessage)
)

// RepositoryOutcome records the terminal state of one repository's remediation.
type RepositoryOutcome struct {
	Repository     string
	State          RemediationState
	Message        string
	PullRequestURL string
}

// Result aggregates a remediation pass. Messages mirror Outcomes line by line
// and fall back to a single all-current notice when nothing needed attention.
type Result struct {
	Outcomes []RepositoryOutcome
	Messages []string
}

// WorkingCopyRewriter applies pin substitutions to a working copy.
type WorkingCopyRewriter interface {
	Rewrite(executionContext context.Context, config RewriteConfig) (RewriteOutcome, error)
}

// Dependencies configures the remediation service.
type Dependencies struct {
	Logger   *zap.Logger
	Gateway  RepositoryGateway
	Rewriter WorkingCopyRewriter
}

// Options configures one remediation pass over a scan report.
type Options struct {
	Report       compliance.ScanReport
	BranchPrefix string
	TitlePrefix  string
	Labels       []string
	DryRun       bool
	Token        string
}

// Service walks drifted repositories and opens update pull requests, isolating
// each repository's failures from the rest of the pass.
type Service struct {
	logger   *zap.Logger
	gateway  RepositoryGateway
	rewriter WorkingCopyRewriter
}

// NewService constructs a remediation Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Gateway == nil {
		return nil, ErrGatewayNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rewriter := dependencies.Rewriter
	if rewriter == nil {
		rewriter = NewPinRewriter(logger)
	}

	return &Service{logger: logger, gateway: dependencies.Gateway, rewriter: rewriter}, nil
}

// Execute runs one remediation pass. Only repositories that declare a pin and
// have drifted are touched; everything else is left alone.
func (service *Service) Execute(executionContext context.Context, options Options) (Result, error) {
	canonicalPin := options.Report.CanonicalPin()
	if len(canonicalPin.Tag) == 0 || !compliance.IsCanonicalSHA(canonicalPin.SHA) {
		return Result{}, ErrCanonicalPinRequired
	}

	branchPrefix := options.BranchPrefix
	if len(strings.TrimSpace(branchPrefix)) == 0 {
		branchPrefix = defaultBranchPrefixConstant
	}
	titlePrefix := options.TitlePrefix
	if len(titlePrefix) == 0 {
		titlePrefix = defaultTitlePrefixConstant
	}

	branchName := branchPrefix + canonicalPin.Tag
	pullRequestTitle := titlePrefix + fmt.Sprintf(pullRequestTitleSuffixTemplate, canonicalPin.Tag)

	result := Result{Outcomes: []RepositoryOutcome{}, Messages: []string{}}
	for _, repositoryResult := range options.Report.Repositories {
		if !repositoryResult.RequiresRemediation() {
			continue
		}

		outcome := service.remediateRepository(executionContext, repositoryResult, canonicalPin, branchName, pullRequestTitle, options)
		result.Outcomes = append(result.Outcomes, outcome)
		result.Messages = append(result.Messages, outcome.Message)
	}

	if len(result.Messages) == 0 {
		result.Messages = append(result.Messages, allCurrentMessageConstant)
	}

	service.logRemediationSummary(result)
	return result, nil
}

func (service *Service) remediateRepository(executionContext context.Context, repositoryResult compliance.ComplianceResult, canonicalPin compliance.VersionPin, branchName string, pullRequestTitle string, options Options) RepositoryOutcome {
	repository := repositoryResult.Repository
	previousPin := compliance.VersionPin{Tag: repositoryResult.DeclaredTag, SHA: repositoryResult.DeclaredSHA}
	previousTagLabel := previousPin.Tag
	if len(previousTagLabel) == 0 {
		previousTagLabel = unknownTagFallbackConstant
	}

	if options.DryRun {
		return RepositoryOutcome{
			Repository: repository,
			State:      StateDrifted,
			Message:    fmt.Sprintf(wouldUpdateMessageTemplateConstant, repository, previousTagLabel, canonicalPin.Tag),
		}
	}

	pullRequestExists, probeError := service.gateway.FindOpenReviewRequest(executionContext, repository, branchName)
	if probeError != nil {
		service.logger.Warn(
			probeFailureLogMessageConstant,
			zap.String(repositoryLogFieldNameConstant, repository),
			zap.String(branchLogFieldNameConstant, branchName),
			zap.Error(probeError),
		)
	}
	if probeError == nil && pullRequestExists {
		return RepositoryOutcome{
			Repository: repository,
			State:      StatePRExists,
			Message:    fmt.Sprintf(skippedMessageTemplateConstant, repository, branchName),
		}
	}

	service.logStateChange(repository, StateRemediating)

	pullRequestURL, changesFound, remediationError := service.openUpdatePullRequest(executionContext, repository, previousPin, previousTagLabel, canonicalPin, branchName, pullRequestTitle, options)
	switch {
	case remediationError != nil:
		service.logStateChange(repository, StateFailed)
		return RepositoryOutcome{
			Repository: repository,
			State:      StateFailed,
			Message:    fmt.Sprintf(failedMessageTemplateConstant, repository, remediationError),
		}
	case !changesFound:
		service.logStateChange(repository, StateCurrent)
		return RepositoryOutcome{
			Repository: repository,
			State:      StateCurrent,
			Message:    fmt.Sprintf(noChangesMessageTemplateConstant, repository),
		}
	default:
		service.logStateChange(repository, StateOpened)
		return RepositoryOutcome{
			Repository:     repository,
			State:          StateOpened,
			Message:        fmt.Sprintf(openedMessageTemplateConstant, repository, previousTagLabel, canonicalPin.Tag),
			PullRequestURL: pullRequestURL,
		}
	}
}

func (service *Service) openUpdatePullRequest(executionContext context.Context, repository string, previousPin compliance.VersionPin, previousTagLabel string, canonicalPin compliance.VersionPin, branchName string, pullRequestTitle string, options Options) (string, bool, error) {
	workingRoot, workingRootError := os.MkdirTemp("", workingRootPatternConstant)
	if workingRootError != nil {
		return "", false, fmt.Errorf(workingRootErrorTemplateConstant, workingRootError)
	}
	defer func() { _ = os.RemoveAll(workingRoot) }()

	cloneURL, cloneURLError := gitrepo.BuildAuthenticatedCloneURL(repository, options.Token)
	if cloneURLError != nil {
		return "", false, cloneURLError
	}

	workingCopyPath := filepath.Join(workingRoot, workingCopyDirectoryName)
	if cloneError := service.gateway.CloneRepository(executionContext, cloneURL, workingCopyPath); cloneError != nil {
		return "", false, cloneError
	}
	if branchError := service.gateway.CreateBranch(executionContext, workingCopyPath, branchName); branchError != nil {
		return "", false, branchError
	}

	rewriteConfig := RewriteConfig{WorkingCopyPath: workingCopyPath, PreviousPin: previousPin, CanonicalPin: canonicalPin}
	if _, rewriteError := service.rewriter.Rewrite(executionContext, rewriteConfig); rewriteError != nil {
		return "", false, rewriteError
	}

	changesFound, statusError := service.gateway.HasChanges(executionContext, workingCopyPath)
	if statusError != nil {
		return "", false, statusError
	}
	if !changesFound {
		return "", false, nil
	}

	commitMessage := fmt.Sprintf(
		commitMessageTemplateConstant,
		canonicalPin.Tag,
		previousTagLabel,
		canonicalPin.Tag,
		compliance.AbbreviateSHA(previousPin.SHA),
		compliance.AbbreviateSHA(canonicalPin.SHA),
	)
	if commitError := service.gateway.CommitChanges(executionContext, workingCopyPath, commitMessage); commitError != nil {
		return "", true, commitError
	}
	if pushError := service.gateway.PushBranch(executionContext, workingCopyPath, branchName); pushError != nil {
		return "", true, pushError
	}

	pullRequestBody := fmt.Sprintf(
		pullRequestBodyTemplateConstant,
		previousTagLabel,
		canonicalPin.Tag,
		compliance.AbbreviateSHA(previousPin.SHA),
		compliance.AbbreviateSHA(canonicalPin.SHA),
	)
	pullRequestURL, creationError := service.gateway.OpenReviewRequest(executionContext, repository, ReviewRequest{
		HeadBranch: branchName,
		Title:      pullRequestTitle,
		Body:       pullRequestBody,
		Labels:     options.Labels,
	})
	if creationError != nil {
		return "", true, creationError
	}

	return pullRequestURL, true, nil
}

func (service *Service) logStateChange(repository string, state RemediationState) {
	service.logger.Debug(
		remediationStateLogMessageConstant,
		zap.String(repositoryLogFieldNameConstant, repository),
		zap.String(stateLogFieldNameConstant, string(state)),
	)
}

func (service *Service) logRemediationSummary(result Result) {
	openedCount := 0
	failedCount := 0
	skippedCount := 0
	for _, outcome := range result.Outcomes {
		switch outcome.State {
		case StateOpened:
			openedCount++
		case StateFailed:
			failedCount++
		case StatePRExists:
			skippedCount++
		}
	}

	service.logger.Info(
		remediationDoneLogMessageConstant,
		zap.Int(openedCountLogFieldNameConstant, openedCount),
		zap.Int(failedCountLogFieldNameConstant, failedCount),
		zap.Int(skippedCountLogFieldNameConstant, skippedCount),
	)
}
