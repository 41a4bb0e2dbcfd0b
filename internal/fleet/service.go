package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/githubcli"
)

const (
	enumerationFailureMessageTemplateConstant = "could not list repositories for %s: %v"
	ownerRequiredMessageConstant              = "fleet owner required"
	listerMissingMessageConstant              = "repository lister not configured"
	fetcherMissingMessageConstant             = "content fetcher not configured"

	scanStartLogMessageConstant       = "scanning fleet"
	scanCompleteLogMessageConstant    = "fleet scan complete"
	unreadableStateLogMessageConstant = "declared state unreadable"
	ownerLogFieldNameConstant         = "owner"
	repositoryLogFieldNameConstant    = "repository"
	repositoryCountLogFieldName       = "repositories"
	currentCountLogFieldName          = "current"
	driftedCountLogFieldName          = "drifted"
	unconfiguredCountLogFieldName     = "unconfigured"
)

// Configuration sentinels for the fleet service.
var (
	ErrRepositoryListerNotConfigured = errors.New(listerMissingMessageConstant)
	ErrContentFetcherNotConfigured   = errors.New(fetcherMissingMessageConstant)
	ErrOwnerRequired                 = errors.New(ownerRequiredMessageConstant)
)

// EnumerationError reports that a fleet owner's repositories could not be listed.
type EnumerationError struct {
	Owner string
	Cause error
}

// Error describes the enumeration failure.
func (enumerationError EnumerationError) Error() string {
	return fmt.Sprintf(enumerationFailureMessageTemplateConstant, enumerationError.Owner, enumerationError.Cause)
}

// Unwrap exposes the underlying listing failure.
func (enumerationError EnumerationError) Unwrap() error {
	return enumerationError.Cause
}

// RepositoryLister enumerates repositories for an owner through the GitHub API.
type RepositoryLister interface {
	ListOwnerRepositories(executionContext context.Context, ownerName string, scope githubcli.OwnerScope) ([]githubcli.RepositoryDescriptor, error)
}

// ContentFetcher retrieves file contents from repositories without cloning.
type ContentFetcher interface {
	FetchFileContent(executionContext context.Context, repository string, filePath string) ([]byte, error)
}

// Dependencies configures the fleet service.
type Dependencies struct {
	Logger           *zap.Logger
	RepositoryLister RepositoryLister
	ContentFetcher   ContentFetcher
}

// Service scans a fleet owner's repositories and classifies each against the
// canonical pin.
type Service struct {
	logger           *zap.Logger
	repositoryLister RepositoryLister
	contentFetcher   ContentFetcher
}

// NewService constructs a fleet Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryLister == nil {
		return nil, ErrRepositoryListerNotConfigured
	}
	if dependencies.ContentFetcher == nil {
		return nil, ErrContentFetcherNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:           logger,
		repositoryLister: dependencies.RepositoryLister,
		contentFetcher:   dependencies.ContentFetcher,
	}, nil
}

// EnumerateRepositories lists the owner's active source repositories. The
// organization namespace is consulted first; an owner unknown as an
// organization is retried as a user. Archived repositories and forks are
// excluded from the result.
func (service *Service) EnumerateRepositories(executionContext context.Context, ownerName string) ([]githubcli.RepositoryDescriptor, error) {
	trimmedOwner := strings.TrimSpace(ownerName)
	if len(trimmedOwner) == 0 {
		return nil, ErrOwnerRequired
	}

	descriptors, organizationError := service.repositoryLister.ListOwnerRepositories(executionContext, trimmedOwner, githubcli.OwnerScopeOrganization)
	if organizationError == nil {
		return filterActiveSources(descriptors), nil
	}
	if !errors.Is(organizationError, githubcli.ErrNotFound) {
		return nil, EnumerationError{Owner: trimmedOwner, Cause: organizationError}
	}

	descriptors, userError := service.repositoryLister.ListOwnerRepositories(executionContext, trimmedOwner, githubcli.OwnerScopeUser)
	if userError == nil {
		return filterActiveSources(descriptors), nil
	}
	return nil, EnumerationError{Owner: trimmedOwner, Cause: userError}
}

// FetchDeclaredState retrieves and parses a repository's declared-state file.
// A repository without the file yields a nil state and no error.
func (service *Service) FetchDeclaredState(executionContext context.Context, repository string) (*compliance.DeclaredState, error) {
	content, fetchError := service.contentFetcher.FetchFileContent(executionContext, repository, compliance.DeclaredStateFileName)
	if fetchError != nil {
		if errors.Is(fetchError, githubcli.ErrNotFound) {
			return nil, nil
		}
		return nil, fetchError
	}
	return compliance.ParseDeclaredState(content)
}

// Scan enumerates the fleet and classifies every repository against the
// canonical pin. Repositories whose declared state cannot be read are recorded
// as unreadable and never interrupt the rest of the scan.
func (service *Service) Scan(executionContext context.Context, ownerName string, canonicalPin compliance.VersionPin) (compliance.ScanReport, error) {
	descriptors, enumerationError := service.EnumerateRepositories(executionContext, ownerName)
	if enumerationError != nil {
		return compliance.ScanReport{}, enumerationError
	}

	service.logger.Info(
		scanStartLogMessageConstant,
		zap.String(ownerLogFieldNameConstant, strings.TrimSpace(ownerName)),
		zap.Int(repositoryCountLogFieldName, len(descriptors)),
	)

	report := compliance.ScanReport{
		Owner:        strings.TrimSpace(ownerName),
		LatestTag:    canonicalPin.Tag,
		LatestSHA:    canonicalPin.SHA,
		Repositories: []compliance.ComplianceResult{},
	}

	for _, descriptor := range descriptors {
		declaredState, stateError := service.FetchDeclaredState(executionContext, descriptor.FullName)
		if stateError != nil {
			service.logger.Warn(
				unreadableStateLogMessageConstant,
				zap.String(repositoryLogFieldNameConstant, descriptor.FullName),
				zap.Error(stateError),
			)
			report.Repositories = append(report.Repositories, compliance.UnreadableResult(descriptor.FullName, stateError))
			continue
		}
		report.Repositories = append(report.Repositories, compliance.Classify(descriptor.FullName, declaredState, canonicalPin))
	}

	tally := report.Tally()
	service.logger.Info(
		scanCompleteLogMessageConstant,
		zap.String(ownerLogFieldNameConstant, report.Owner),
		zap.Int(currentCountLogFieldName, tally.Current),
		zap.Int(driftedCountLogFieldName, tally.Drifted),
		zap.Int(unconfiguredCountLogFieldName, tally.Unconfigured),
	)

	return report, nil
}

func filterActiveSources(descriptors []githubcli.RepositoryDescriptor) []githubcli.RepositoryDescriptor {
	activeSources := make([]githubcli.RepositoryDescriptor, 0, len(descriptors))
	for _, descriptor := range descriptors {
		if descriptor.IsArchived || descriptor.IsFork {
			continue
		}
		activeSources = append(activeSources, descriptor)
	}
	return activeSources
}
