package errors

import "errors"

var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrArtifactExists   = errors.New("artifact filename already exists for module")
	ErrInvalidArtifact  = errors.New("invalid artifact")
	ErrModuleUnknown    = errors.New("software module unknown")
	ErrBlobNotFound     = errors.New("blob not found")
)
