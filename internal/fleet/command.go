package fleet

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/compliance"
	"github.com/temirov/fleetci/internal/execshell"
	"github.com/temirov/fleetci/internal/githubcli"
	"github.com/temirov/fleetci/internal/templates"
	"github.com/temirov/fleetci/internal/utils"
	flagutils "github.com/temirov/fleetci/internal/utils/flags"
	"github.com/temirov/fleetci/internal/versions"
)

const (
	scanCommandUseConstant              = "scan"
	scanCommandShortDescriptionConstant = "Scan a fleet owner's repositories for template drift"
	scanCommandLongDescriptionConstant  = "scan enumerates the owner's active repositories, reads each declared-state file, and classifies every repository against the latest template release."
	ownerFlagNameConstant               = "owner"
	ownerFlagUsageConstant              = "GitHub organization or user owning the fleet"
	tagFlagNameConstant                 = "tag"
	tagFlagUsageConstant                = "Template release tag; the latest release is used when omitted"
	formatFlagNameConstant              = "format"
	formatFlagDescriptionConstant       = "Report format"
	outputFlagNameConstant              = "output"
	outputFlagUsageConstant             = "Destination file; standard output when omitted"
	strictFlagNameConstant              = "strict"
	strictFlagUsageConstant             = "Exit non-zero when any repository is not current"
	textFormatNameConstant              = "text"
	jsonFormatNameConstant              = "json"
	unsupportedFormatTemplateConstant   = "unsupported format %q; expected %s or %s"
	githubClientCreationErrorTemplate   = "unable to construct GitHub client: %w"
	versionResolutionErrorTemplate      = "unable to resolve template release: %w"
	reportWriteErrorTemplateConstant    = "unable to write scan report: %w"
	reportWrittenLogMessageConstant     = "Scan report written"
	outputPathLogFieldNameConstant      = "path"
	latestReleaseLineTemplateConstant   = "Latest release: %s (%s)"
	currentLineTemplateConstant         = "Current %s (%s)"
	driftedLineTemplateConstant         = "Drifted %s: %s -> %s"
	unconfiguredLineTemplateConstant    = "Unconfigured %s: %s"
	scanSummaryLineTemplateConstant     = "Scanned %d repositories: %d current, %d drifted, %d unconfigured"
	strictFailureTemplateConstant       = "%d of %d repositories are not current"
	unknownTagPlaceholderConstant       = "unknown"
	reportLineSeparatorConstant         = "\n"
	reportFilePermissionsConstant       = 0o644
)

// CommandExecutor runs git and GitHub CLI commands for the scan.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

type scanOptions struct {
	ownerName           string
	targetTag           string
	outputFormat        string
	outputPath          string
	strictExit          bool
	templatesRepository string
}

// CommandBuilder assembles the scan Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     CommandExecutor
	HumanReadableLoggingProvider func() bool
	TemplatesRepositoryProvider  func() string
	ConfigurationProvider        func() Configuration
}

// Build constructs the scan command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           scanCommandUseConstant,
		Short:         scanCommandShortDescriptionConstant,
		Long:          scanCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runScan,
	}

	command.Flags().String(ownerFlagNameConstant, "", ownerFlagUsageConstant)
	command.Flags().String(tagFlagNameConstant, "", tagFlagUsageConstant)
	formatFlagUsage := flagutils.FormatChoiceUsage(textFormatNameConstant, []string{textFormatNameConstant, jsonFormatNameConstant}, formatFlagDescriptionConstant)
	command.Flags().String(formatFlagNameConstant, textFormatNameConstant, formatFlagUsage)
	command.Flags().String(outputFlagNameConstant, "", outputFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, strictFlagNameConstant, "", false, strictFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runScan(command *cobra.Command, _ []string) error {
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

	versionService, versionServiceError := versions.NewService(versions.Dependencies{
		Logger:      logger,
		TagLister:   githubClient,
		GitExecutor: executor,
	})
	if versionServiceError != nil {
		return versionServiceError
	}

	canonicalPin, resolveError := versionService.Resolve(command.Context(), options.templatesRepository, options.targetTag)
	if resolveError != nil {
		return fmt.Errorf(versionResolutionErrorTemplate, resolveError)
	}

	fleetService, fleetServiceError := NewService(Dependencies{
		Logger:           logger,
		RepositoryLister: githubClient,
		ContentFetcher:   githubClient,
	})
	if fleetServiceError != nil {
		return fleetServiceError
	}

	report, scanError := fleetService.Scan(command.Context(), options.ownerName, canonicalPin)
	if scanError != nil {
		return scanError
	}

	reportDocument, encodeError := encodeReport(report, options.outputFormat)
	if encodeError != nil {
		return encodeError
	}

	if len(options.outputPath) > 0 {
		writeError := os.WriteFile(options.outputPath, reportDocument, reportFilePermissionsConstant)
		if writeError != nil {
			return fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
		}
		logger.Info(reportWrittenLogMessageConstant, zap.String(outputPathLogFieldNameConstant, options.outputPath))
	} else {
		fmt.Fprint(utils.NewFlushingWriter(command.OutOrStdout()), string(reportDocument))
	}

	if options.strictExit {
		tally := report.Tally()
		notCurrentCount := len(report.Repositories) - tally.Current
		if notCurrentCount > 0 {
			return fmt.Errorf(strictFailureTemplateConstant, notCurrentCount, len(report.Repositories))
		}
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (scanOptions, error) {
	configuration := builder.resolveConfiguration()

	ownerName := configuration.Owner
	if command.Flags().Changed(ownerFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(ownerFlagNameConstant)
		ownerName = flagValue
	}
	trimmedOwnerName := strings.TrimSpace(ownerName)
	if len(trimmedOwnerName) == 0 {
		return scanOptions{}, ErrOwnerRequired
	}

	templatesRepository := builder.resolveTemplatesRepository()
	if len(templatesRepository) == 0 {
		return scanOptions{}, templates.ErrTemplatesRepositoryRequired
	}

	outputFormat, _ := command.Flags().GetString(formatFlagNameConstant)
	normalizedFormat := strings.ToLower(strings.TrimSpace(outputFormat))
	if normalizedFormat != textFormatNameConstant && normalizedFormat != jsonFormatNameConstant {
		return scanOptions{}, fmt.Errorf(unsupportedFormatTemplateConstant, outputFormat, textFormatNameConstant, jsonFormatNameConstant)
	}

	targetTag, _ := command.Flags().GetString(tagFlagNameConstant)
	outputPath, _ := command.Flags().GetString(outputFlagNameConstant)
	strictExit, _ := command.Flags().GetBool(strictFlagNameConstant)

	return scanOptions{
		ownerName:           trimmedOwnerName,
		targetTag:           strings.TrimSpace(targetTag),
		outputFormat:        normalizedFormat,
		outputPath:          strings.TrimSpace(outputPath),
		strictExit:          strictExit,
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

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func encodeReport(report compliance.ScanReport, outputFormat string) ([]byte, error) {
	if outputFormat == jsonFormatNameConstant {
		return report.EncodeJSON()
	}
	return []byte(formatTextReport(report)), nil
}

// formatTextReport renders the human-readable scan summary: the resolved
// release, one status line per repository, and the aggregate tally.
func formatTextReport(report compliance.ScanReport) string {
	reportLines := []string{
		fmt.Sprintf(latestReleaseLineTemplateConstant, report.LatestTag, compliance.AbbreviateSHA(report.LatestSHA)),
	}

	for _, result := range report.Repositories {
		reportLines = append(reportLines, formatRepositoryLine(result, report.LatestTag))
	}

	tally := report.Tally()
	reportLines = append(reportLines, fmt.Sprintf(
		scanSummaryLineTemplateConstant,
		len(report.Repositories),
		tally.Current,
		tally.Drifted,
		tally.Unconfigured,
	))

	return strings.Join(reportLines, reportLineSeparatorConstant) + reportLineSeparatorConstant
}

func formatRepositoryLine(result compliance.ComplianceResult, latestTag string) string {
	declaredTagLabel := result.DeclaredTag
	if len(declaredTagLabel) == 0 {
		declaredTagLabel = unknownTagPlaceholderConstant
	}

	switch {
	case result.IsCurrent:
		return fmt.Sprintf(currentLineTemplateConstant, result.Repository, declaredTagLabel)
	case result.HasDeclaredState:
		return fmt.Sprintf(driftedLineTemplateConstant, result.Repository, declaredTagLabel, latestTag)
	default:
		issueSummary := compliance.DeclaredStateFileName + " missing"
		if len(result.Issues) > 0 {
			issueSummary = result.Issues[0]
		}
		return fmt.Sprintf(unconfiguredLineTemplateConstant, result.Repository, issueSummary)
	}
}
