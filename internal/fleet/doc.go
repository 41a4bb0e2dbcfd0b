// Package fleet enumerates an owner's repositories and classifies each one
// against the canonical template pin, producing the scan report consumed by
// remediation and reporting.
package fleet
