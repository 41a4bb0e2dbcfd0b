package versions

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/execshell"
	"github.com/temirov/fleetci/internal/githubcli"
)

const (
	latestTagAliasConstant          = "latest"
	structuredListingSourceConstant = "github api"
	remoteListingSourceConstant     = "git ls-remote"

	fallbackLogMessageConstant        = "structured tag listing failed, falling back to git"
	repositoryLogFieldNameConstant    = "repository"
	requestedTagLogFieldNameConstant  = "requested_tag"
	resolvedTagLogFieldNameConstant   = "resolved_tag"
	resolvedShaLogFieldNameConstant   = "resolved_sha"
	resolutionLogMessageConstant      = "resolved canonical pin"
	tagListerMissingMessageConstant   = "tag lister not configured"
	gitExecutorMissingMessageConstant = "git executor not configured"
	repositoryRequiredMessageConstant = "repository identifier required"
)

// Configuration sentinels for the resolver service.
var (
	ErrTagListerNotConfigured   = errors.New(tagListerMissingMessageConstant)
	ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)
	ErrRepositoryRequired       = errors.New(repositoryRequiredMessageConstant)
)

// TagLister enumerates release tags through the GitHub API.
type TagLister interface {
	ListRepositoryTags(executionContext context.Context, repository string) ([]githubcli.RepositoryTag, error)
}

// GitExecutor runs git commands for the fallback listing path.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Dependencies configures the resolver service.
type Dependencies struct {
	Logger      *zap.Logger
	TagLister   TagLister
	GitExecutor GitExecutor
}

// Service resolves template release tags to canonical pins. The structured
// GitHub listing is attempted first; any failure there silently falls back to
// anonymous git tag enumeration, and only the fallback's outcome is reported.
type Service struct {
	logger      *zap.Logger
	tagLister   TagLister
	gitExecutor GitExecutor
}

// NewService constructs a resolver Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.TagLister == nil {
		return nil, ErrTagListerNotConfigured
	}
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{logger: logger, tagLister: dependencies.TagLister, gitExecutor: dependencies.GitExecutor}, nil
}

// Resolve maps a target tag onto its canonical pin. An empty target or the
// literal "latest" selects the most recent release.
func (service *Service) Resolve(executionContext context.Context, repository string, targetTag string) (compliance.VersionPin, error) {
	trimmedRepository := strings.TrimSpace(repository)
	if len(trimmedRepository) == 0 {
		return compliance.VersionPin{}, ErrRepositoryRequired
	}

	requestedTag := strings.TrimSpace(targetTag)
	if strings.EqualFold(requestedTag, latestTagAliasConstant) {
		requestedTag = ""
	}

	resolvedPin, structuredError := service.resolveViaStructuredListing(executionContext, trimmedRepository, requestedTag)
	if structuredError == nil {
		service.logResolution(trimmedRepository, requestedTag, resolvedPin)
		return resolvedPin, nil
	}

	service.logger.Debug(
		fallbackLogMessageConstant,
		zap.String(repositoryLogFieldNameConstant, trimmedRepository),
		zap.String(requestedTagLogFieldNameConstant, requestedTag),
		zap.Error(structuredError),
	)

	resolvedPin, remoteError := service.resolveViaRemoteListing(executionContext, trimmedRepository, requestedTag)
	if remoteError != nil {
		return compliance.VersionPin{}, remoteError
	}

	service.logResolution(trimmedRepository, requestedTag, resolvedPin)
	return resolvedPin, nil
}

func (service *Service) resolveViaStructuredListing(executionContext context.Context, repository string, requestedTag string) (compliance.VersionPin, error) {
	repositoryTags, listingError := service.tagLister.ListRepositoryTags(executionContext, repository)
	if listingError != nil {
		return compliance.VersionPin{}, ResolutionError{
			Repository: repository,
			Tag:        requestedTag,
			Reason:     ResolutionFailureTransport,
			Source:     structuredListingSourceConstant,
			Cause:      listingError,
		}
	}

	if len(repositoryTags) == 0 {
		return compliance.VersionPin{}, ResolutionError{
			Repository: repository,
			Reason:     ResolutionFailureNoTags,
			Source:     structuredListingSourceConstant,
		}
	}

	if len(requestedTag) == 0 {
		latestEntry := repositoryTags[0]
		return compliance.VersionPin{Tag: latestEntry.Name, SHA: latestEntry.CommitSHA}, nil
	}

	for _, candidateTag := range repositoryTags {
		if candidateTag.Name == requestedTag {
			return compliance.VersionPin{Tag: candidateTag.Name, SHA: candidateTag.CommitSHA}, nil
		}
	}

	return compliance.VersionPin{}, ResolutionError{
		Repository: repository,
		Tag:        requestedTag,
		Reason:     ResolutionFailureTagNotFound,
		Source:     structuredListingSourceConstant,
	}
}

func (service *Service) logResolution(repository string, requestedTag string, resolvedPin compliance.VersionPin) {
	service.logger.Debug(
		resolutionLogMessageConstant,
		zap.String(repositoryLogFieldNameConstant, repository),
		zap.String(requestedTagLogFieldNameConstant, requestedTag),
		zap.String(resolvedTagLogFieldNameConstant, resolvedPin.Tag),
		zap.String(resolvedShaLogFieldNameConstant, resolvedPin.SHA),
	)
}
