// Package git reads the revision of the repository holding the models tree.
//
// The revision is optional decoration for the generated site: callers treat
// ErrNotRepository as "no stamp", not as a failure.
package git
