package catalog

import "errors"

var (
	// ErrRootNotFound indicates the models directory does not exist.
	ErrRootNotFound = errors.New("models directory not found")

	// ErrRootNotDir indicates the models path exists but is not a directory.
	ErrRootNotDir = errors.New("models path is not a directory")

	// ErrWalkFailed indicates a directory below the root could not be read.
	ErrWalkFailed = errors.New("models directory walk failed")

	// ErrPathCollision indicates two model files map to the same relative path.
	ErrPathCollision = errors.New("model path collision")
)
