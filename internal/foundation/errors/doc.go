// Package errors provides the classified error primitives used across modelsite.
//
// Every failure that can end a build carries an ErrorCategory (scan, parse, write,
// config, ...) and an ErrorSeverity. The category decides the process exit code via
// CLIErrorAdapter; the severity decides whether the build aborts or degrades.
//
// Example usage:
//
//	err := errors.ScanError("models directory not found").
//		WithContext("root", root).
//		WithCause(statErr).
//		Build()
package errors
