package githubcli

import (
	"strings"
)

const (
	linkHeaderNameConstant          = "link:"
	nextRelationMarkerConstant      = `rel="next"`
	apiBaseAddressPrefixConstant    = "https://api.github.com/"
	headerBodySeparatorConstant     = "\n\n"
	carriageReturnCharacterConstant = "\r"
)

// splitResponseSections separates the header block emitted by gh api -i from
// the response body. The body is returned unchanged when no header block is
// present.
func splitResponseSections(rawOutput string) (string, string) {
	normalizedOutput := strings.ReplaceAll(rawOutput, carriageReturnCharacterConstant, "")
	separatorIndex := strings.Index(normalizedOutput, headerBodySeparatorConstant)
	if separatorIndex < 0 {
		return "", normalizedOutput
	}
	headerSection := normalizedOutput[:separatorIndex]
	bodySection := normalizedOutput[separatorIndex+len(headerBodySeparatorConstant):]
	return headerSection, bodySection
}

// nextPageEndpoint extracts the rel="next" target from the Link header and
// rewrites it as an endpoint suitable for another gh api invocation. An empty
// string indicates the final page has been reached.
func nextPageEndpoint(headerSection string) string {
	for _, headerLine := range strings.Split(headerSection, "\n") {
		trimmedLine := strings.TrimSpace(headerLine)
		if !strings.HasPrefix(strings.ToLower(trimmedLine), linkHeaderNameConstant) {
			continue
		}
		headerValue := strings.TrimSpace(trimmedLine[len(linkHeaderNameConstant):])
		for _, linkEntry := range strings.Split(headerValue, ",") {
			trimmedEntry := strings.TrimSpace(linkEntry)
			if !strings.Contains(trimmedEntry, nextRelationMarkerConstant) {
				continue
			}
			openingIndex := strings.Index(trimmedEntry, "<")
			closingIndex := strings.Index(trimmedEntry, ">")
			if openingIndex < 0 || closingIndex <= openingIndex {
				continue
			}
			nextTarget := trimmedEntry[openingIndex+1 : closingIndex]
			return strings.TrimPrefix(nextTarget, apiBaseAddressPrefixConstant)
		}
	}
	return ""
}
