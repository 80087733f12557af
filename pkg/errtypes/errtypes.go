// Package errtypes contains the error kinds QCDN components surface
// across package boundaries. Each kind is a plain string type; callers
// branch on the marker interfaces rather than on concrete types so
// wrapped errors keep working with errors.As.
package errtypes

// NotFound is the error to use when an entity does not exist.
type NotFound string

func (e NotFound) Error() string { return "not found: " + string(e) }

// IsNotFound implements the IsNotFound interface.
func (e NotFound) IsNotFound() {}

// Precondition is the error to use when an operation would violate an
// invariant, e.g. creating a version name that is already Ready.
type Precondition string

func (e Precondition) Error() string { return "precondition failed: " + string(e) }

// IsPrecondition implements the IsPrecondition interface.
func (e Precondition) IsPrecondition() {}

// DataCorruption is the error to use when received bytes do not match
// the declared size or hash.
type DataCorruption string

func (e DataCorruption) Error() string { return "data corruption: " + string(e) }

// IsDataCorruption implements the IsDataCorruption interface.
func (e DataCorruption) IsDataCorruption() {}

// Aborted is the error to use for client protocol violations, e.g.
// sending upload metadata twice.
type Aborted string

func (e Aborted) Error() string { return "aborted: " + string(e) }

// IsAborted implements the IsAborted interface.
func (e Aborted) IsAborted() {}

// Internal is the catch-all error for unexpected failures. The message
// must not leak storage paths or SQL.
type Internal string

func (e Internal) Error() string { return "internal error: " + string(e) }

// IsInternal implements the IsInternal interface.
func (e Internal) IsInternal() {}

// IsNotFound is the interface to implement
// to specify that an entity is not found.
type IsNotFound interface {
	IsNotFound()
}

// IsPrecondition is the interface to implement
// to specify that an invariant would be violated.
type IsPrecondition interface {
	IsPrecondition()
}

// IsDataCorruption is the interface to implement
// to specify that transferred bytes failed verification.
type IsDataCorruption interface {
	IsDataCorruption()
}

// IsAborted is the interface to implement
// to specify that the client violated the stream protocol.
type IsAborted interface {
	IsAborted()
}

// IsInternal is the interface to implement
// for unexpected failures.
type IsInternal interface {
	IsInternal()
}
