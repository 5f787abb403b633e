package errors

import "errors"

var (
	ErrDistributionSetNotFound = errors.New("distribution set not found")
	ErrSoftwareModuleNotFound  = errors.New("software module not found")
	ErrModuleNotAssigned       = errors.New("software module is not assigned to the distribution set")

	// ErrDistributionSetLocked signals that the set's module composition is
	// frozen because a non-terminal action still references it.
	ErrDistributionSetLocked = errors.New("distribution set is locked by in-flight actions")

	ErrMetadataKeyExists  = errors.New("metadata key already exists for the distribution set")
	ErrMetadataNotFound   = errors.New("metadata entry not found")
	ErrInvalidSet         = errors.New("distribution set input is invalid")
	ErrInvalidModule      = errors.New("software module input is invalid")
	ErrInvalidMetadataKey = errors.New("metadata key is invalid")
)
