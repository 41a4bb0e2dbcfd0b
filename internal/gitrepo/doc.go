// Package gitrepo provides repository identity helpers.
//
// It splits owner/name identifiers and builds the HTTPS clone URLs
// remediation uses, with or without embedded access tokens.
package gitrepo
