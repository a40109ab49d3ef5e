package sync

import "errors"

// Common sync errors
var (
	// ErrUnknownRecordType indicates a record with a type outside the supported set
	ErrUnknownRecordType = errors.New("unknown record type")

	// ErrUnknownStrategy indicates an unsupported conflict resolution strategy
	ErrUnknownStrategy = errors.New("unknown conflict resolution strategy")
)
