package check

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/fleetci/internal/compliance"
	pathutils "github.com/temirov/fleetci/internal/utils/path"
)

const (
	commandUseConstant                   = "check"
	commandShortDescriptionConstant      = "Validate local workflow files against " + compliance.DeclaredStateFileName
	commandLongDescriptionConstant       = "check verifies that every workflow listed in the local declared-state file exists and is pinned to the declared template sha, reporting leveled findings."
	projectPathFlagNameConstant          = "path"
	projectPathFlagUsageConstant         = "Project directory containing " + compliance.DeclaredStateFileName
	defaultProjectPathConstant           = "."
	findingLineTemplateConstant          = "%s: %s\n"
	blockingFindingsErrorMessageConstant = "workflow check reported errors"
	levelErrorDisplayConstant            = "ERROR"
	levelWarningDisplayConstant          = "WARNING"
	levelOKDisplayConstant               = "OK"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the check Cobra command.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	TemplatesRepositoryProvider func() string
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runCheck,
	}

	command.Flags().String(projectPathFlagNameConstant, defaultProjectPathConstant, projectPathFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runCheck(command *cobra.Command, _ []string) error {
	logger := builder.resolveLogger()

	projectDirectory, flagError := command.Flags().GetString(projectPathFlagNameConstant)
	if flagError != nil {
		return flagError
	}
	projectDirectory = pathutils.NewHomeExpander().Expand(strings.TrimSpace(projectDirectory))
	if len(projectDirectory) == 0 {
		projectDirectory = defaultProjectPathConstant
	}

	inspector := NewInspector(logger)
	findings, inspectionError := inspector.Inspect(command.Context(), projectDirectory, builder.resolveTemplatesRepository())
	if inspectionError != nil {
		return inspectionError
	}

	for _, finding := range findings {
		fmt.Fprintf(command.OutOrStdout(), findingLineTemplateConstant, findingLevelDisplay(finding.Level), finding.Message)
	}

	if HasBlockingFindings(findings) {
		return errors.New(blockingFindingsErrorMessageConstant)
	}

	return nil
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

func (builder *CommandBuilder) resolveTemplatesRepository() string {
	if builder.TemplatesRepositoryProvider == nil {
		return ""
	}
	return strings.TrimSpace(builder.TemplatesRepositoryProvider())
}

func findingLevelDisplay(level FindingLevel) string {
	switch level {
	case LevelError:
		return levelErrorDisplayConstant
	case LevelWarning:
		return levelWarningDisplayConstant
	default:
		return levelOKDisplayConstant
	}
}
