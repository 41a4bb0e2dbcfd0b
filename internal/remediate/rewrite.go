package remediate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/compliance"
)

const (
	workflowsDirectoryRelativePathConstant = ".github/workflows"
	yamlExtensionConstant                  = ".yaml"
	ymlExtensionConstant                   = ".yml"
	tagAnnotationPrefixConstant            = "# "
	declaredTagLineTemplateConstant        = "tag: %s"

	declaredStateMissingLogConstant     = "declared state file not present; skipping rewrite"
	workflowsDirectoryMissingLog        = "workflows directory not found; skipping rewrite"
	rewriteLogMessageConstant           = "Rewriting pinned file"
	skipRewriteLogMessageConstant       = "No pin rewrites required"
	rewriteCompletionLogMessageConstant = "Pin rewrite completed"
	workingCopyFieldNameConstant        = "working_copy"
	rewrittenFileFieldNameConstant      = "file"
	updatedFilesFieldNameConstant       = "updated_files"

	inspectWorkflowsErrorTemplateConstant = "unable to inspect workflows directory: %w"
	workflowsNotDirectoryTemplateConstant = "workflows path is not a directory: %s"
	readPinnedFileErrorTemplateConstant   = "unable to read %s: %w"
	statPinnedFileErrorTemplateConstant   = "unable to stat %s: %w"
	writePinnedFileErrorTemplateConstant  = "unable to write %s: %w"
)

// RewriteConfig describes one working-copy substitution pass.
type RewriteConfig struct {
	WorkingCopyPath string
	PreviousPin     compliance.VersionPin
	CanonicalPin    compliance.VersionPin
}

// RewriteOutcome reports which files the substitution pass touched.
type RewriteOutcome struct {
	UpdatedFiles []string
}

// PinRewriter applies the canonical pin to a disposable working copy through
// textual substitution. Only the declared-state file and workflow files are
// touched; sha occurrences are replaced everywhere in those files, tags only
// where they appear as declared-state values or trailing annotations.
type PinRewriter struct {
	logger *zap.Logger
}

// NewPinRewriter constructs a PinRewriter.
func NewPinRewriter(logger *zap.Logger) *PinRewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PinRewriter{logger: logger}
}

// Rewrite applies pin substitutions across the working copy.
func (rewriter *PinRewriter) Rewrite(_ context.Context, config RewriteConfig) (RewriteOutcome, error) {
	rewriteOutcome := RewriteOutcome{UpdatedFiles: []string{}}

	declaredStateUpdated, declaredStateError := rewriter.rewriteDeclaredState(config)
	if declaredStateError != nil {
		return RewriteOutcome{}, declaredStateError
	}
	if declaredStateUpdated {
		rewriteOutcome.UpdatedFiles = append(rewriteOutcome.UpdatedFiles, compliance.DeclaredStateFileName)
	}

	workflowFiles, workflowsError := rewriter.rewriteWorkflows(config)
	if workflowsError != nil {
		return RewriteOutcome{}, workflowsError
	}
	rewriteOutcome.UpdatedFiles = append(rewriteOutcome.UpdatedFiles, workflowFiles...)

	rewriter.logger.Info(rewriteCompletionLogMessageConstant,
		zap.String(workingCopyFieldNameConstant, config.WorkingCopyPath),
		zap.Strings(updatedFilesFieldNameConstant, rewriteOutcome.UpdatedFiles),
	)

	return rewriteOutcome, nil
}

func (rewriter *PinRewriter) rewriteDeclaredState(config RewriteConfig) (bool, error) {
	declaredStatePath := filepath.Join(config.WorkingCopyPath, compliance.DeclaredStateFileName)
	fileContent, readError := os.ReadFile(declaredStatePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			rewriter.logger.Debug(declaredStateMissingLogConstant, zap.String(workingCopyFieldNameConstant, config.WorkingCopyPath))
			return false, nil
		}
		return false, fmt.Errorf(readPinnedFileErrorTemplateConstant, declaredStatePath, readError)
	}

	updatedContent := string(fileContent)
	if len(config.PreviousPin.SHA) > 0 {
		updatedContent = strings.ReplaceAll(updatedContent, config.PreviousPin.SHA, config.CanonicalPin.SHA)
	}
	if len(config.PreviousPin.Tag) > 0 {
		previousTagLine := fmt.Sprintf(declaredTagLineTemplateConstant, config.PreviousPin.Tag)
		canonicalTagLine := fmt.Sprintf(declaredTagLineTemplateConstant, config.CanonicalPin.Tag)
		updatedContent = strings.ReplaceAll(updatedContent, previousTagLine, canonicalTagLine)
	}

	return rewriter.writeIfChanged(declaredStatePath, string(fileContent), updatedContent)
}

func (rewriter *PinRewriter) rewriteWorkflows(config RewriteConfig) ([]string, error) {
	workflowsRoot := filepath.Join(config.WorkingCopyPath, workflowsDirectoryRelativePathConstant)
	directoryInfo, statError := os.Stat(workflowsRoot)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			rewriter.logger.Debug(workflowsDirectoryMissingLog, zap.String(workingCopyFieldNameConstant, config.WorkingCopyPath))
			return nil, nil
		}
		return nil, fmt.Errorf(inspectWorkflowsErrorTemplateConstant, statError)
	}
	if !directoryInfo.IsDir() {
		return nil, fmt.Errorf(workflowsNotDirectoryTemplateConstant, workflowsRoot)
	}

	updatedFiles := []string{}
	walkError := filepath.WalkDir(workflowsRoot, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if !isWorkflowFile(path) {
			return nil
		}

		updated, processingError := rewriter.processWorkflowFile(path, config)
		if processingError != nil {
			return processingError
		}
		if updated {
			relativePath, relativeError := filepath.Rel(config.WorkingCopyPath, path)
			if relativeError != nil {
				relativePath = path
			}
			updatedFiles = append(updatedFiles, relativePath)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	return updatedFiles, nil
}

func (rewriter *PinRewriter) processWorkflowFile(filePath string, config RewriteConfig) (bool, error) {
	fileContent, readError := os.ReadFile(filePath)
	if readError != nil {
		return false, fmt.Errorf(readPinnedFileErrorTemplateConstant, filePath, readError)
	}

	updatedContent := string(fileContent)
	if len(config.PreviousPin.SHA) > 0 {
		updatedContent = strings.ReplaceAll(updatedContent, config.PreviousPin.SHA, config.CanonicalPin.SHA)
	}
	if len(config.PreviousPin.Tag) > 0 {
		previousAnnotation := tagAnnotationPrefixConstant + config.PreviousPin.Tag
		canonicalAnnotation := tagAnnotationPrefixConstant + config.CanonicalPin.Tag
		updatedContent = strings.ReplaceAll(updatedContent, previousAnnotation, canonicalAnnotation)
	}

	return rewriter.writeIfChanged(filePath, string(fileContent), updatedContent)
}

func (rewriter *PinRewriter) writeIfChanged(filePath string, originalContent string, updatedContent string) (bool, error) {
	if updatedContent == originalContent {
		rewriter.logger.Debug(skipRewriteLogMessageConstant, zap.String(rewrittenFileFieldNameConstant, filePath))
		return false, nil
	}

	fileInfo, infoError := os.Stat(filePath)
	if infoError != nil {
		return false, fmt.Errorf(statPinnedFileErrorTemplateConstant, filePath, infoError)
	}

	writeError := os.WriteFile(filePath, []byte(updatedContent), fileInfo.Mode().Perm())
	if writeError != nil {
		return false, fmt.Errorf(writePinnedFileErrorTemplateConstant, filePath, writeError)
	}

	rewriter.logger.Info(rewriteLogMessageConstant, zap.String(rewrittenFileFieldNameConstant, filePath))
	return true, nil
}

func isWorkflowFile(path string) bool {
	lowerPath := strings.ToLower(path)
	return strings.HasSuffix(lowerPath, yamlExtensionConstant) || strings.HasSuffix(lowerPath, ymlExtensionConstant)
}
