// Package remediate opens update pull requests in drifted fleet repositories.
//
// Each candidate is remediated in a disposable shallow clone: pins are updated
// through textual substitution, committed on a deterministic branch, pushed,
// and proposed as a pull request. A repository whose branch already has an
// open pull request is skipped without cloning, and one repository's failure
// never interrupts the rest of the pass.
package remediate
