package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/templates"
)

const (
	declaredStateMissingMessageConstant     = compliance.DeclaredStateFileName + " not found"
	declaredStateInvalidTemplateConstant    = "invalid %s: %v"
	emptyWorkflowListMessageConstant        = "No workflows listed in " + compliance.DeclaredStateFileName
	unknownWorkflowTemplateConstant         = "Unknown workflow %q in " + compliance.DeclaredStateFileName
	missingWorkflowFileTemplateConstant     = "Missing workflow file: %s/%s"
	shaMismatchTemplateConstant             = "%s: SHA mismatch; file has %s, config has %s"
	unpinnedReferenceTemplateConstant       = "%s: not pinned to a full SHA"
	allWorkflowsMatchTemplateConstant       = "All %d workflows match %s%s"
	tagSuffixTemplateConstant               = " (%s)"
	declaredStateReadErrorTemplateConstant  = "unable to read %s: %w"
	workflowFileReadErrorTemplateConstant   = "unable to read %s: %w"
	pinnedShaCapturePatternConstant         = "([0-9a-f]{40})"
	referenceMarkerSeparatorConstant        = "@"
	inspectionCompleteLogMessageConstant    = "workflow inspection complete"
	projectDirectoryLogFieldNameConstant    = "project_directory"
	errorFindingCountLogFieldNameConstant   = "errors"
	warningFindingCountLogFieldNameConstant = "warnings"
)

// FindingLevel grades one inspection finding.
type FindingLevel string

// Finding levels, ordered by severity. Only error-level findings gate the
// process exit code.
const (
	LevelError   FindingLevel = FindingLevel("error")
	LevelWarning FindingLevel = FindingLevel("warning")
	LevelOK      FindingLevel = FindingLevel("ok")
)

// Finding is one leveled inspection result.
type Finding struct {
	Level   FindingLevel
	Message string
}

// HasBlockingFindings reports whether any finding is error-level.
func HasBlockingFindings(findings []Finding) bool {
	for _, finding := range findings {
		if finding.Level == LevelError {
			return true
		}
	}
	return false
}

// Inspector validates that a local working copy's workflow files agree with
// its declared-state document.
type Inspector struct {
	logger *zap.Logger
}

// NewInspector constructs an Inspector.
func NewInspector(logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{logger: logger}
}

// Inspect checks every workflow the declared-state document lists: the file
// must exist and, when the document pins a sha, any reference to the templates
// repository must be pinned to that exact sha. Findings never abort the
// inspection; an error is returned only for environmental failures.
func (inspector *Inspector) Inspect(_ context.Context, projectDirectory string, templatesRepository string) ([]Finding, error) {
	if len(strings.TrimSpace(templatesRepository)) == 0 {
		return nil, templates.ErrTemplatesRepositoryRequired
	}

	declaredStatePath := filepath.Join(projectDirectory, compliance.DeclaredStateFileName)
	declaredStateContent, readError := os.ReadFile(declaredStatePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return []Finding{{Level: LevelError, Message: declaredStateMissingMessageConstant}}, nil
		}
		return nil, fmt.Errorf(declaredStateReadErrorTemplateConstant, declaredStatePath, readError)
	}

	declaredState, parseError := compliance.ParseDeclaredState(declaredStateContent)
	if parseError != nil {
		return []Finding{{
			Level:   LevelError,
			Message: fmt.Sprintf(declaredStateInvalidTemplateConstant, compliance.DeclaredStateFileName, parseError),
		}}, nil
	}

	if len(declaredState.Workflows) == 0 {
		return []Finding{{Level: LevelError, Message: emptyWorkflowListMessageConstant}}, nil
	}

	findings := []Finding{}
	for _, workflowName := range declaredState.Workflows {
		artifactSpecification, artifactKnown := templates.LookupArtifact(workflowName)
		if !artifactKnown {
			findings = append(findings, Finding{
				Level:   LevelWarning,
				Message: fmt.Sprintf(unknownWorkflowTemplateConstant, workflowName),
			})
			continue
		}

		workflowFinding, inspectError := inspector.inspectWorkflowFile(projectDirectory, artifactSpecification, templatesRepository, declaredState.Pin.SHA)
		if inspectError != nil {
			return nil, inspectError
		}
		if workflowFinding != nil {
			findings = append(findings, *workflowFinding)
		}
	}

	if len(findings) == 0 {
		tagSuffix := ""
		if len(declaredState.Pin.Tag) > 0 {
			tagSuffix = fmt.Sprintf(tagSuffixTemplateConstant, declaredState.Pin.Tag)
		}
		findings = append(findings, Finding{
			Level:   LevelOK,
			Message: fmt.Sprintf(allWorkflowsMatchTemplateConstant, len(declaredState.Workflows), compliance.DeclaredStateFileName, tagSuffix),
		})
	}

	inspector.logInspectionSummary(projectDirectory, findings)
	return findings, nil
}

func (inspector *Inspector) inspectWorkflowFile(projectDirectory string, artifactSpecification templates.ArtifactSpec, templatesRepository string, pinnedSHA string) (*Finding, error) {
	workflowFilePath := filepath.Join(projectDirectory, filepath.FromSlash(templates.ArtifactDirectory), artifactSpecification.FileName)
	workflowContent, readError := os.ReadFile(workflowFilePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return &Finding{
				Level:   LevelError,
				Message: fmt.Sprintf(missingWorkflowFileTemplateConstant, templates.ArtifactDirectory, artifactSpecification.FileName),
			}, nil
		}
		return nil, fmt.Errorf(workflowFileReadErrorTemplateConstant, workflowFilePath, readError)
	}

	if len(pinnedSHA) == 0 {
		return nil, nil
	}

	referenceMarker := templatesRepository + "/" + artifactSpecification.ReferencePath + referenceMarkerSeparatorConstant
	content := string(workflowContent)
	if !strings.Contains(content, referenceMarker) {
		return nil, nil
	}

	pinnedReferencePattern := regexp.MustCompile(regexp.QuoteMeta(referenceMarker) + pinnedShaCapturePatternConstant)
	referenceMatch := pinnedReferencePattern.FindStringSubmatch(content)
	if referenceMatch == nil {
		return &Finding{
			Level:   LevelWarning,
			Message: fmt.Sprintf(unpinnedReferenceTemplateConstant, artifactSpecification.FileName),
		}, nil
	}

	referencedSHA := referenceMatch[1]
	if referencedSHA != pinnedSHA {
		return &Finding{
			Level: LevelWarning,
			Message: fmt.Sprintf(
				shaMismatchTemplateConstant,
				artifactSpecification.FileName,
				compliance.AbbreviateSHA(referencedSHA),
				compliance.AbbreviateSHA(pinnedSHA),
			),
		}, nil
	}

	return nil, nil
}

func (inspector *Inspector) logInspectionSummary(projectDirectory string, findings []Finding) {
	errorCount := 0
	warningCount := 0
	for _, finding := range findings {
		switch finding.Level {
		case LevelError:
			errorCount++
		case LevelWarning:
			warningCount++
		}
	}

	inspector.logger.Debug(
		inspectionCompleteLogMessageConstant,
		zap.String(projectDirectoryLogFieldNameConstant, projectDirectory),
		zap.Int(errorFindingCountLogFieldNameConstant, errorCount),
		zap.Int(warningFindingCountLogFieldNameConstant, warningCount),
	)
}
