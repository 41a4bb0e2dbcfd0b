// Package utils gathers the shared plumbing behind the fleetci commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// FLEETCI environment variables through Viper; LoggerFactory builds the zap
// loggers the commands log through; CommandContextAccessor threads request
// scoped values such as the resolved configuration file path.
package utils
