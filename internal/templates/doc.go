// Package templates holds the static registry of reusable workflow artifacts
// and the deterministic renderer that materializes them.
//
// The registry describes each artifact's inputs, defaults, and permission
// grants; presets bundle curated input selections; Render produces
// byte-identical output for identical arguments so remediation can detect
// true no-ops.
package templates
