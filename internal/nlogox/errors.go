package nlogox

import "errors"

var (
	// ErrReadFailed indicates the model file could not be read.
	ErrReadFailed = errors.New("model file read failed")

	// ErrMalformed indicates the document is too broken to locate the Info element.
	ErrMalformed = errors.New("model file malformed")

	// ErrInfoMissing indicates the document has no Info element.
	ErrInfoMissing = errors.New("info element missing")
)
