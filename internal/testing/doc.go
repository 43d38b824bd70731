// Package testing contains fixture builders and filesystem assertions shared by
// the modelsite package tests.
package testing

const (
	testDirPermissions  = 0o750
	testFilePermissions = 0o600
)
