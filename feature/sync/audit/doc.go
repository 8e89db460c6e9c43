// Package audit cross-checks link rows against the local entities and the
// remote records they point to.
//
// The three indices are loaded concurrently; the plan lists every link with the
// presence of each side and, when pruning is requested, one prune action per
// stale link. Plans never mutate anything; Apply executes them only when the
// caller confirmed and did not ask for a dry run.
package audit
