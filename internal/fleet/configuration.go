package fleet

import "strings"

const (
	ownerConfigurationKeyConstant = "owner"
	configurationKeySeparator     = "."
)

// Configuration stores fleet scan settings sourced from the configuration file.
type Configuration struct {
	Owner string `mapstructure:"owner"`
}

// DefaultConfiguration supplies baseline values for fleet configuration.
func DefaultConfiguration() Configuration {
	return Configuration{}
}

// Sanitize trims configured values.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Owner = strings.TrimSpace(configuration.Owner)
	return sanitized
}

// DefaultConfigurationValues produces Viper defaults for fleet commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparator + ownerConfigurationKeyConstant: defaults.Owner,
	}
}
