package remediate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/execshell"
	"github.com/temirov/fleetci/internal/fleet"
	"github.com/temirov/fleetci/internal/githubauth"
	"github.com/temirov/fleetci/internal/githubcli"
	"github.com/temirov/fleetci/internal/templates"
	"github.com/temirov/fleetci/internal/utils"
	flagutils "github.com/temirov/fleetci/internal/utils/flags"
	pathutils "github.com/temirov/fleetci/internal/utils/path"
	"github.com/temirov/fleetci/internal/versions"
)

const (
	updateCommandUseConstant              = "update"
	updateCommandShortDescriptionConstant = "Open pull requests updating drifted repositories"
	updateCommandLongDescriptionConstant  = "update walks the drifted repositories of a fleet scan and opens one pull request per repository moving its template pins to the latest release."
	ownerFlagNameConstant                 = "owner"
	ownerFlagUsageConstant                = "GitHub organization or user owning the fleet"
	tagFlagNameConstant                   = "tag"
	tagFlagUsageConstant                  = "Template release tag; the latest release is used when omitted"
	inputFlagNameConstant                 = "input"
	inputFlagUsageConstant                = "Saved scan report consumed instead of re-scanning"
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagUsageConstant               = "Report planned updates without cloning or pushing"
	labelFlagNameConstant                 = "label"
	labelFlagUsageConstant                = "Pull request label; repeatable"
	reportReadErrorTemplateConstant       = "unable to read scan report: %w"
	githubClientCreationErrorTemplate     = "unable to construct GitHub client: %w"
	versionResolutionErrorTemplate        = "unable to resolve template release: %w"
	messageLineTemplateConstant           = "%s\n"
	remediationFailureTemplateConstant    = "remediation failed for %d of %d repositories"
)

// CommandExecutor runs git and GitHub CLI commands for the update pass.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

type updateOptions struct {
	ownerName           string
	targetTag           string
	inputPath           string
	dryRun              bool
	labels              []string
	branchPrefix        string
	titlePrefix         string
	templatesRepository string
}

// CommandBuilder assembles the update Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     CommandExecutor
	HumanReadableLoggingProvider func() bool
	OwnerProvider                func() string
	TemplatesRepositoryProvider  func() string
	ConfigurationProvider        func() Configuration
}

// Build constructs the update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           updateCommandUseConstant,
		Short:         updateCommandShortDescriptionConstant,
		Long:          updateCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runUpdate,
	}

	command.Flags().String(ownerFlagNameConstant, "", ownerFlagUsageConstant)
	command.Flags().String(tagFlagNameConstant, "", tagFlagUsageConstant)
	command.Flags().String(inputFlagNameConstant, "", inputFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, dryRunFlagNameConstant, "", false, dryRunFlagUsageConstant)
	command.Flags().StringArray(labelFlagNameConstant, nil, labelFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runUpdate(command *cobra.Command, _ []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
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

	report, reportError := builder.obtainReport(command.Context(), logger, executor, githubClient, options)
	if reportError != nil {
		return reportError
	}

	remediationToken := ""
	if !options.dryRun {
		resolvedToken, tokenError := githubauth.RequireToken(nil)
		if tokenError != nil {
			return tokenError
		}
		remediationToken = resolvedToken
	}

	gateway, gatewayError := NewCommandGateway(executor, githubClient)
	if gatewayError != nil {
		return gatewayError
	}

	remediationService, serviceError := NewService(Dependencies{Logger: logger, Gateway: gateway})
	if serviceError != nil {
		return serviceError
	}

	result, executionError := remediationService.Execute(command.Context(), Options{
		Report:       report,
		BranchPrefix: options.branchPrefix,
		TitlePrefix:  options.titlePrefix,
		Labels:       options.labels,
		DryRun:       options.dryRun,
		Token:        remediationToken,
	})
	if executionError != nil {
		return executionError
	}

	messageWriter := utils.NewFlushingWriter(command.OutOrStdout())
	for _, message := range result.Messages {
		fmt.Fprintf(messageWriter, messageLineTemplateConstant, message)
	}

	failedCount := 0
	for _, outcome := range result.Outcomes {
		if outcome.State == StateFailed {
			failedCount++
		}
	}
	if failedCount > 0 {
		return fmt.Errorf(remediationFailureTemplateConstant, failedCount, len(result.Outcomes))
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (updateOptions, error) {
	configuration := builder.resolveConfiguration()

	dryRun := configuration.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		flagValue, _ := command.Flags().GetBool(dryRunFlagNameConstant)
		dryRun = flagValue
	}

	labels := configuration.Labels
	if command.Flags().Changed(labelFlagNameConstant) {
		flagValues, _ := command.Flags().GetStringArray(labelFlagNameConstant)
		labels = flagValues
	}

	ownerName := ""
	if builder.OwnerProvider != nil {
		ownerName = builder.OwnerProvider()
	}
	if command.Flags().Changed(ownerFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(ownerFlagNameConstant)
		ownerName = flagValue
	}
	trimmedOwnerName := strings.TrimSpace(ownerName)

	inputPath, _ := command.Flags().GetString(inputFlagNameConstant)
	trimmedInputPath := pathutils.NewHomeExpander().Expand(strings.TrimSpace(inputPath))

	templatesRepository := builder.resolveTemplatesRepository()

	if len(trimmedInputPath) == 0 {
		if len(trimmedOwnerName) == 0 {
			return updateOptions{}, fleet.ErrOwnerRequired
		}
		if len(templatesRepository) == 0 {
			return updateOptions{}, templates.ErrTemplatesRepositoryRequired
		}
	}

	targetTag, _ := command.Flags().GetString(tagFlagNameConstant)

	return updateOptions{
		ownerName:           trimmedOwnerName,
		targetTag:           strings.TrimSpace(targetTag),
		inputPath:           trimmedInputPath,
		dryRun:              dryRun,
		labels:              labels,
		branchPrefix:        configuration.BranchPrefix,
		titlePrefix:         configuration.TitlePrefix,
		templatesRepository: templatesRepository,
	}, nil
}

// obtainReport either replays a saved interchange document or performs a fresh
// scan against the fleet owner.
func (builder *CommandBuilder) obtainReport(executionContext context.Context, logger *zap.Logger, executor CommandExecutor, githubClient *githubcli.Client, options updateOptions) (compliance.ScanReport, error) {
	if len(options.inputPath) > 0 {
		reportPayload, readError := os.ReadFile(options.inputPath)
		if readError != nil {
			return compliance.ScanReport{}, fmt.Errorf(reportReadErrorTemplateConstant, readError)
		}
		return compliance.DecodeScanReport(reportPayload)
	}

	versionService, versionServiceError := versions.NewService(versions.Dependencies{
		Logger:      logger,
		TagLister:   githubClient,
		GitExecutor: executor,
	})
	if versionServiceError != nil {
		return compliance.ScanReport{}, versionServiceError
	}

	canonicalPin, resolveError := versionService.Resolve(executionContext, options.templatesRepository, options.targetTag)
	if resolveError != nil {
		return compliance.ScanReport{}, fmt.Errorf(versionResolutionErrorTemplate, resolveError)
	}

	fleetService, fleetServiceError := fleet.NewService(fleet.Dependencies{
		Logger:           logger,
		RepositoryLister: githubClient,
		ContentFetcher:   githubClient,
	})
	if fleetServiceError != nil {
		return compliance.ScanReport{}, fleetServiceError
	}

	return fleetService.Scan(executionContext, options.ownerName, canonicalPin)
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

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
