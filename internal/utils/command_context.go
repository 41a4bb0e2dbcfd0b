package utils

import "context"

// commandContextKey keys values stored by CommandContextAccessor. Using a
// private struct type keeps the entries collision free across packages.
type commandContextKey struct{ name string }

var configurationFilePathContextKey = commandContextKey{name: "configuration_file_path"}

// CommandContextAccessor reads and writes fleetci values carried on command
// execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a context carrying the configuration file
// path resolved during startup.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKey, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path stored on the
// context, when one was attached.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathAvailable := executionContext.Value(configurationFilePathContextKey).(string)
	return configurationFilePath, configurationFilePathAvailable
}
