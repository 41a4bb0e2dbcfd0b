package templates

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/execshell"
	"github.com/temirov/fleetci/internal/githubcli"
	"github.com/temirov/fleetci/internal/versions"
)

const (
	renderCommandUseConstant              = "render"
	renderCommandShortDescriptionConstant = "Render a caller workflow pinned to a template release"
	renderCommandLongDescriptionConstant  = "render resolves the requested template release, merges preset and per-invocation input values, and emits the caller workflow document for one artifact."
	workflowFlagNameConstant              = "workflow"
	workflowFlagUsageConstant             = "Workflow artifact name to render"
	presetFlagNameConstant                = "preset"
	presetFlagUsageConstant               = "Preset supplying baseline input values"
	setFlagNameConstant                   = "set"
	setFlagUsageConstant                  = "Input override as key=value; repeatable"
	tagFlagNameConstant                   = "tag"
	tagFlagUsageConstant                  = "Template release tag; the latest release is used when omitted"
	outputFlagNameConstant                = "output"
	outputFlagUsageConstant               = "Destination file; standard output when omitted"
	workflowRequiredTemplateConstant      = "workflow name required; available workflows: %s"
	unknownWorkflowNameTemplateConstant   = "unknown workflow %q; available workflows: %s"
	unknownPresetNameTemplateConstant     = "unknown preset %q; available presets: %s"
	invalidInputOverrideTemplateConstant  = "invalid input override %q; expected key=value"
	githubClientCreationErrorTemplate     = "unable to construct GitHub client: %w"
	versionResolutionErrorTemplate        = "unable to resolve template release: %w"
	artifactWriteErrorTemplateConstant    = "unable to write rendered workflow: %w"
	renderedWorkflowWrittenMessage        = "Rendered workflow written"
	artifactLogFieldNameConstant          = "artifact"
	outputPathLogFieldNameConstant        = "path"
	nameListSeparatorConstant             = ", "
	trueScalarLiteralConstant             = "true"
	falseScalarLiteralConstant            = "false"
	renderedFilePermissionsConstant       = 0o644
)

// CommandExecutor runs git and GitHub CLI commands for release resolution.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

type renderOptions struct {
	workflowName        string
	presetName          string
	inputOverrides      []string
	targetTag           string
	outputPath          string
	templatesRepository string
}

// CommandBuilder assembles the render Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     CommandExecutor
	HumanReadableLoggingProvider func() bool
	TemplatesRepositoryProvider  func() string
}

// Build constructs the render command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           renderCommandUseConstant,
		Short:         renderCommandShortDescriptionConstant,
		Long:          renderCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runRender,
	}

	command.Flags().String(workflowFlagNameConstant, "", workflowFlagUsageConstant)
	command.Flags().String(presetFlagNameConstant, "", presetFlagUsageConstant)
	command.Flags().StringArray(setFlagNameConstant, nil, setFlagUsageConstant)
	command.Flags().String(tagFlagNameConstant, "", tagFlagUsageConstant)
	command.Flags().String(outputFlagNameConstant, "", outputFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runRender(command *cobra.Command, _ []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	specification, artifactKnown := LookupArtifact(options.workflowName)
	if !artifactKnown {
		return fmt.Errorf(unknownWorkflowNameTemplateConstant, options.workflowName, strings.Join(ArtifactNames(), nameListSeparatorConstant))
	}

	inputValues, inputError := collectInputValues(options.workflowName, options.presetName, options.inputOverrides)
	if inputError != nil {
		return inputError
	}

	logger := builder.resolveLogger()

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	githubClient, clientError := githubcli.NewClient(executor)
	if clientError != nil {
		return fmt.Errorf(githubClientCreationErrorTemplate, clientError)
	}

	versionService, versionServiceError := versions.NewService(versions.Dependencies{
		Logger:      logger,
		TagLister:   githubClient,
		GitExecutor: executor,
	})
	if versionServiceError != nil {
		return versionServiceError
	}

	versionPin, resolveError := versionService.Resolve(command.Context(), options.templatesRepository, options.targetTag)
	if resolveError != nil {
		return fmt.Errorf(versionResolutionErrorTemplate, resolveError)
	}

	renderedArtifact, renderError := Render(specification, inputValues, versionPin, options.templatesRepository)
	if renderError != nil {
		return renderError
	}

	if len(options.outputPath) > 0 {
		writeError := os.WriteFile(options.outputPath, []byte(renderedArtifact.Content), renderedFilePermissionsConstant)
		if writeError != nil {
			return fmt.Errorf(artifactWriteErrorTemplateConstant, writeError)
		}
		logger.Info(
			renderedWorkflowWrittenMessage,
			zap.String(artifactLogFieldNameConstant, specification.Name),
			zap.String(outputPathLogFieldNameConstant, options.outputPath),
		)
		return nil
	}

	fmt.Fprint(command.OutOrStdout(), renderedArtifact.Content)
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (renderOptions, error) {
	workflowName, _ := command.Flags().GetString(workflowFlagNameConstant)
	trimmedWorkflowName := strings.TrimSpace(workflowName)
	if len(trimmedWorkflowName) == 0 {
		return renderOptions{}, fmt.Errorf(workflowRequiredTemplateConstant, strings.Join(ArtifactNames(), nameListSeparatorConstant))
	}

	templatesRepository := builder.resolveTemplatesRepository()
	if len(templatesRepository) == 0 {
		return renderOptions{}, ErrTemplatesRepositoryRequired
	}

	presetName, _ := command.Flags().GetString(presetFlagNameConstant)
	inputOverrides, _ := command.Flags().GetStringArray(setFlagNameConstant)
	targetTag, _ := command.Flags().GetString(tagFlagNameConstant)
	outputPath, _ := command.Flags().GetString(outputFlagNameConstant)

	return renderOptions{
		workflowName:        trimmedWorkflowName,
		presetName:          strings.TrimSpace(presetName),
		inputOverrides:      inputOverrides,
		targetTag:           strings.TrimSpace(targetTag),
		outputPath:          strings.TrimSpace(outputPath),
		templatesRepository: templatesRepository,
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveTemplatesRepository() string {
	if builder.TemplatesRepositoryProvider == nil {
		return ""
	}
	return strings.TrimSpace(builder.TemplatesRepositoryProvider())
}

// collectInputValues layers preset selections beneath per-invocation overrides
// for one artifact. Override values arrive as flag text and are coerced to the
// scalar type the template input expects.
func collectInputValues(workflowName string, presetName string, inputOverrides []string) (map[string]any, error) {
	inputValues := map[string]any{}

	if len(presetName) > 0 {
		presetSelections, presetKnown := Preset(presetName)
		if !presetKnown {
			return nil, fmt.Errorf(unknownPresetNameTemplateConstant, presetName, strings.Join(PresetNames(), nameListSeparatorConstant))
		}
		for inputName, inputValue := range presetSelections[workflowName] {
			inputValues[inputName] = inputValue
		}
	}

	for _, overrideAssignment := range inputOverrides {
		inputName, overrideValue, separatorFound := strings.Cut(overrideAssignment, "=")
		trimmedInputName := strings.TrimSpace(inputName)
		if !separatorFound || len(trimmedInputName) == 0 {
			return nil, fmt.Errorf(invalidInputOverrideTemplateConstant, overrideAssignment)
		}
		inputValues[trimmedInputName] = coerceOverrideScalar(overrideValue)
	}

	return inputValues, nil
}

func coerceOverrideScalar(overrideValue string) any {
	trimmedValue := strings.TrimSpace(overrideValue)
	if parsedInteger, integerError := strconv.Atoi(trimmedValue); integerError == nil {
		return parsedInteger
	}
	switch trimmedValue {
	case trueScalarLiteralConstant:
		return true
	case falseScalarLiteralConstant:
		return false
	}
	return trimmedValue
}
