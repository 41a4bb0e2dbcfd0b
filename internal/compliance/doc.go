// Package compliance defines the fleet compliance data model.
//
// It holds version pins, strictly parsed declared repository state,
// classification of declared state against the canonical pin, and the JSON
// interchange report shared by the scan and update commands.
package compliance
