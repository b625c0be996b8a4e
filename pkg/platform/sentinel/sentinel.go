package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: record already exists and the write would violate uniqueness
// - ErrCorrupted: backing storage is unreadable or malformed
// - ErrInvalidState: entity in wrong state for the requested operation
// - ErrUnavailable: resource temporarily unavailable or exclusively held
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrCorrupted    = errors.New("corrupted")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
