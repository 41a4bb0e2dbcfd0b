package versions

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/execshell"
	"github.com/temirov/fleetci/internal/gitrepo"
)

const (
	lsRemoteSubcommandConstant = "ls-remote"
	tagsFlagConstant           = "--tags"
	tagReferencePrefixConstant = "refs/tags/"
	peeledReferenceSuffix      = "^{}"
	listingFieldSeparator      = "\t"
)

// tagListing holds parsed ls-remote output. Names preserve listing order so a
// fleet pinned to non-semver tags still has a deterministic latest.
type tagListing struct {
	orderedNames []string
	shaByName    map[string]string
}

func (service *Service) resolveViaRemoteListing(executionContext context.Context, repository string, requestedTag string) (compliance.VersionPin, error) {
	repositoryURL, urlError := gitrepo.BuildRepositoryURL(repository)
	if urlError != nil {
		return compliance.VersionPin{}, ResolutionError{
			Repository: repository,
			Tag:        requestedTag,
			Reason:     ResolutionFailureTransport,
			Source:     remoteListingSourceConstant,
			Cause:      urlError,
		}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{lsRemoteSubcommandConstant, tagsFlagConstant, repositoryURL},
	}

	executionResult, executionError := service.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return compliance.VersionPin{}, ResolutionError{
			Repository: repository,
			Tag:        requestedTag,
			Reason:     ResolutionFailureTransport,
			Source:     remoteListingSourceConstant,
			Cause:      executionError,
		}
	}

	listing := parseTagListing(executionResult.StandardOutput)
	if len(listing.orderedNames) == 0 {
		return compliance.VersionPin{}, ResolutionError{
			Repository: repository,
			Reason:     ResolutionFailureNoTags,
			Source:     remoteListingSourceConstant,
		}
	}

	if len(requestedTag) == 0 {
		latestName := selectLatestTag(listing.orderedNames)
		return compliance.VersionPin{Tag: latestName, SHA: listing.shaByName[latestName]}, nil
	}

	resolvedSHA, tagKnown := listing.shaByName[requestedTag]
	if !tagKnown {
		return compliance.VersionPin{}, ResolutionError{
			Repository: repository,
			Tag:        requestedTag,
			Reason:     ResolutionFailureTagNotFound,
			Source:     remoteListingSourceConstant,
		}
	}

	return compliance.VersionPin{Tag: requestedTag, SHA: resolvedSHA}, nil
}

// parseTagListing interprets git ls-remote --tags output. Annotated tags
// surface twice, once for the tag object and once peeled to the commit; the
// peeled sha wins so both listing tiers agree on pin identity.
func parseTagListing(rawOutput string) tagListing {
	listing := tagListing{shaByName: map[string]string{}}

	for _, rawLine := range strings.Split(strings.TrimSpace(rawOutput), "\n") {
		line := strings.TrimSpace(rawLine)
		if len(line) == 0 {
			continue
		}

		fields := strings.SplitN(line, listingFieldSeparator, 2)
		if len(fields) != 2 {
			continue
		}

		commitSHA := strings.TrimSpace(fields[0])
		reference := strings.TrimPrefix(strings.TrimSpace(fields[1]), tagReferencePrefixConstant)

		if strings.HasSuffix(reference, peeledReferenceSuffix) {
			tagName := strings.TrimSuffix(reference, peeledReferenceSuffix)
			if _, known := listing.shaByName[tagName]; !known {
				listing.orderedNames = append(listing.orderedNames, tagName)
			}
			listing.shaByName[tagName] = commitSHA
			continue
		}

		if _, known := listing.shaByName[reference]; known {
			continue
		}
		listing.orderedNames = append(listing.orderedNames, reference)
		listing.shaByName[reference] = commitSHA
	}

	return listing
}

// selectLatestTag picks the highest semantic version among the tag names.
// Names that do not parse as versions are ignored unless none parse, in which
// case the final listing entry is used.
func selectLatestTag(tagNames []string) string {
	var latestName string
	var latestVersion *semver.Version

	for _, tagName := range tagNames {
		candidateVersion, parseError := semver.NewVersion(tagName)
		if parseError != nil {
			continue
		}
		if latestVersion == nil || candidateVersion.GreaterThan(latestVersion) {
			latestVersion = candidateVersion
			latestName = tagName
		}
	}

	if latestVersion == nil {
		return tagNames[len(tagNames)-1]
	}
	return latestName
}
