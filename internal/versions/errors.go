package versions

import "fmt"

const (
	noTagsFoundMessageTemplateConstant      = "no tags found for %s via %s"
	tagNotFoundMessageTemplateConstant      = "tag %s not found for %s via %s"
	transportFailureMessageTemplateConstant = "tag listing for %s via %s failed: %s"
	unknownReasonMessageTemplateConstant    = "tag resolution for %s via %s failed"
)

// ResolutionFailureReason classifies why a pin could not be resolved.
type ResolutionFailureReason string

// Resolution failure reasons.
const (
	ResolutionFailureNoTags      ResolutionFailureReason = ResolutionFailureReason("no_tags_found")
	ResolutionFailureTagNotFound ResolutionFailureReason = ResolutionFailureReason("tag_not_found")
	ResolutionFailureTransport   ResolutionFailureReason = ResolutionFailureReason("transport_unavailable")
)

// ResolutionError reports a failed pin resolution. The Source names the listing
// mechanism whose failure is being surfaced; when the structured listing falls
// back to git, only the git outcome is reported.
type ResolutionError struct {
	Repository string
	Tag        string
	Reason     ResolutionFailureReason
	Source     string
	Cause      error
}

// Error describes the resolution failure.
func (resolutionError ResolutionError) Error() string {
	switch resolutionError.Reason {
	case ResolutionFailureNoTags:
		return fmt.Sprintf(noTagsFoundMessageTemplateConstant, resolutionError.Repository, resolutionError.Source)
	case ResolutionFailureTagNotFound:
		return fmt.Sprintf(tagNotFoundMessageTemplateConstant, resolutionError.Tag, resolutionError.Repository, resolutionError.Source)
	case ResolutionFailureTransport:
		return fmt.Sprintf(transportFailureMessageTemplateConstant, resolutionError.Repository, resolutionError.Source, resolutionError.Cause)
	default:
		return fmt.Sprintf(unknownReasonMessageTemplateConstant, resolutionError.Repository, resolutionError.Source)
	}
}

// Unwrap exposes the underlying transport failure when one exists.
func (resolutionError ResolutionError) Unwrap() error {
	return resolutionError.Cause
}
