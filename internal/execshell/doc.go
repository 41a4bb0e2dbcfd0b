// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging and lifecycle notifications via ShellExecutor,
// exposes OSCommandRunner for default process execution, and defines the
// abstractions fleetci uses to run git and gh in a testable manner. Remote
// URLs are credential-redacted before they reach logs or error messages.
package execshell
