package templates

import "strings"

const (
	repositoryConfigurationKeyConstant = "repository"
	configurationKeySeparatorConstant  = "."
	defaultTemplatesRepositoryConstant = "temirov/ci-templates"
)

// Configuration stores the templates repository identity sourced from the
// configuration file.
type Configuration struct {
	Repository string `mapstructure:"repository"`
}

// DefaultConfiguration supplies baseline values for templates configuration.
func DefaultConfiguration() Configuration {
	return Configuration{Repository: defaultTemplatesRepositoryConstant}
}

// Sanitize trims configured values.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	return sanitized
}

// DefaultConfigurationValues produces Viper defaults for template rendering.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + repositoryConfigurationKeyConstant: defaults.Repository,
	}
}
