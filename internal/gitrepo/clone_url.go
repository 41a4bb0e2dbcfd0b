package gitrepo

import (
	"fmt"
	"strings"
)

const (
	githubHostNameConstant             = "github.com"
	tokenUserNameConstant              = "x-access-token"
	plainCloneURLTemplateConstant      = "https://%s/%s.git"
	credentialCloneURLTemplateConstant = "https://%s:%s@%s/%s.git"
	repositoryErrorTemplateConstant    = "%s: %s"
	invalidRepositoryMessageConstant   = "expected owner/name repository identifier"
	repositorySegmentCountConstant     = 2
	repositorySegmentSeparatorConstant = "/"
)

// InvalidRepositoryError indicates a repository identifier is not owner/name shaped.
type InvalidRepositoryError struct {
	Input string
}

// Error describes the malformed identifier.
func (repositoryError InvalidRepositoryError) Error() string {
	return fmt.Sprintf(repositoryErrorTemplateConstant, repositoryError.Input, invalidRepositoryMessageConstant)
}

// SplitFullName separates an owner/name identifier into its components.
func SplitFullName(fullName string) (string, string, error) {
	trimmedFullName := strings.TrimSpace(fullName)
	segments := strings.Split(trimmedFullName, repositorySegmentSeparatorConstant)
	if len(segments) != repositorySegmentCountConstant {
		return "", "", InvalidRepositoryError{Input: fullName}
	}
	ownerName := strings.TrimSpace(segments[0])
	repositoryName := strings.TrimSpace(segments[1])
	if len(ownerName) == 0 || len(repositoryName) == 0 {
		return "", "", InvalidRepositoryError{Input: fullName}
	}
	return ownerName, repositoryName, nil
}

// BuildRepositoryURL produces the anonymous HTTPS URL for a repository,
// suitable for read-only operations such as tag enumeration.
func BuildRepositoryURL(fullName string) (string, error) {
	ownerName, repositoryName, parseError := SplitFullName(fullName)
	if parseError != nil {
		return "", parseError
	}
	return fmt.Sprintf(plainCloneURLTemplateConstant, githubHostNameConstant, ownerName+repositorySegmentSeparatorConstant+repositoryName), nil
}

// BuildAuthenticatedCloneURL embeds the access token in an HTTPS clone URL so
// pushes succeed without interactive credential prompts. Callers must never log
// the returned value; execshell redacts it before arguments reach any output.
func BuildAuthenticatedCloneURL(fullName string, token string) (string, error) {
	ownerName, repositoryName, parseError := SplitFullName(fullName)
	if parseError != nil {
		return "", parseError
	}
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return BuildRepositoryURL(fullName)
	}
	return fmt.Sprintf(
		credentialCloneURLTemplateConstant,
		tokenUserNameConstant,
		trimmedToken,
		githubHostNameConstant,
		ownerName+repositorySegmentSeparatorConstant+repositoryName,
	), nil
}
