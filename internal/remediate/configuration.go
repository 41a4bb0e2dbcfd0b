package remediate

import "strings"

const (
	branchPrefixConfigurationKeyConstant = "branch_prefix"
	titlePrefixConfigurationKeyConstant  = "pr_title_prefix"
	labelsConfigurationKeyConstant       = "pr_labels"
	dryRunConfigurationKeyConstant       = "dry_run"
	configurationKeySeparatorConstant    = "."
	dependenciesLabelConstant            = "dependencies"
	automationLabelConstant              = "fleetci"
)

// Configuration stores remediation settings sourced from the configuration file.
type Configuration struct {
	BranchPrefix string   `mapstructure:"branch_prefix"`
	TitlePrefix  string   `mapstructure:"pr_title_prefix"`
	Labels       []string `mapstructure:"pr_labels"`
	DryRun       bool     `mapstructure:"dry_run"`
}

// DefaultConfiguration supplies baseline values for remediation configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		BranchPrefix: defaultBranchPrefixConstant,
		TitlePrefix:  defaultTitlePrefixConstant,
		Labels:       []string{dependenciesLabelConstant, automationLabelConstant},
	}
}

// Sanitize normalizes configured values. The title prefix is left untouched
// because its trailing whitespace is significant in composed titles.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.BranchPrefix = strings.TrimSpace(configuration.BranchPrefix)
	sanitized.Labels = sanitizeLabels(configuration.Labels)
	return sanitized
}

// DefaultConfigurationValues produces Viper defaults for the update command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + branchPrefixConfigurationKeyConstant: defaults.BranchPrefix,
		rootKey + configurationKeySeparatorConstant + titlePrefixConfigurationKeyConstant:  defaults.TitlePrefix,
		rootKey + configurationKeySeparatorConstant + labelsConfigurationKeyConstant:       defaults.Labels,
		rootKey + configurationKeySeparatorConstant + dryRunConfigurationKeyConstant:       defaults.DryRun,
	}
}

func sanitizeLabels(candidateLabels []string) []string {
	sanitizedLabels := make([]string, 0, len(candidateLabels))
	for _, labelCandidate := range candidateLabels {
		trimmedLabel := strings.TrimSpace(labelCandidate)
		if len(trimmedLabel) == 0 {
			continue
		}
		sanitizedLabels = append(sanitizedLabels, trimmedLabel)
	}
	if len(sanitizedLabels) == 0 {
		return nil
	}
	return sanitizedLabels
}
