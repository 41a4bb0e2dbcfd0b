// Package check validates a local working copy against its declared-state
// document: every listed workflow file must exist and be pinned to the
// declared template sha. Findings are leveled rather than fatal so a single
// run reports every problem at once.
package check
