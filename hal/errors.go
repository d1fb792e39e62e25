package hal

import "errors"

// Sentinel errors returned by handle construction and resource claiming.
// Callers match them with errors.Is.
var (
	// ErrInvalidArgument reports a malformed request, such as constructing a
	// handle without both buffers or claiming with no resources configured.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResourceConflict reports a claim attempt on a resource that is
	// already held by another claim.
	ErrResourceConflict = errors.New("resource conflict")

	// ErrNotFound reports a lookup for a resource name that is not
	// registered, or not currently claimed.
	ErrNotFound = errors.New("resource not found")
)
